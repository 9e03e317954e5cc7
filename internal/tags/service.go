package tags

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/singleflight"
)

// RepositoryPort abstracts tag usage queries for the service.
type RepositoryPort interface {
	ListTags(ctx context.Context) ([]string, error)
	TagFrequency(ctx context.Context) ([]TagFrequency, error)
	CategoryTagFrequency(ctx context.Context) ([]CategoryTagFrequency, error)
}

// Service serves tag listings and cached frequency aggregates.
type Service struct {
	repo  RepositoryPort
	cache *Cache
	group singleflight.Group
}

// NewService wires the tag aggregation service.
func NewService(repo RepositoryPort, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// List returns every known tag, normalised and deduplicated.
func (s *Service) List(ctx context.Context) ([]string, error) {
	raw, err := s.repo.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, tag := range raw {
		canon := NormalizeTag(tag)
		if canon == "" {
			continue
		}
		if _, ok := seen[canon]; ok {
			continue
		}
		seen[canon] = struct{}{}
		out = append(out, canon)
	}
	sort.Strings(out)
	return out, nil
}

// Frequency returns tag usage counts across all resources. Concurrent cache
// misses for the same version collapse into a single database query.
func (s *Service) Frequency(ctx context.Context) ([]TagFrequency, error) {
	key, err := s.buildKey(ctx, "tags:frequency")
	if err != nil {
		return nil, err
	}
	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		var out []TagFrequency
		err := s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
			rows, err := s.repo.TagFrequency(ctx)
			if err != nil {
				return nil, err
			}
			return mergeFrequencies(rows), nil
		})
		return out, err
	})
	if err != nil {
		return nil, err
	}
	return value.([]TagFrequency), nil
}

// CategoryFrequency returns tag usage counts grouped by resource category.
func (s *Service) CategoryFrequency(ctx context.Context) ([]CategoryTagFrequency, error) {
	key, err := s.buildKey(ctx, "tags:category-frequency")
	if err != nil {
		return nil, err
	}
	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		var out []CategoryTagFrequency
		err := s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
			rows, err := s.repo.CategoryTagFrequency(ctx)
			if err != nil {
				return nil, err
			}
			return mergeCategoryFrequencies(rows), nil
		})
		return out, err
	})
	if err != nil {
		return nil, err
	}
	return value.([]CategoryTagFrequency), nil
}

// Invalidate drops cached frequencies after resource writes.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// Warm precomputes both frequency aggregates so the first reader after an
// invalidation does not pay for the recount.
func (s *Service) Warm(ctx context.Context) error {
	if _, err := s.Frequency(ctx); err != nil {
		return err
	}
	_, err := s.CategoryFrequency(ctx)
	return err
}

func (s *Service) buildKey(ctx context.Context, base string) (string, error) {
	ver, err := s.cache.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", base, ver), nil
}

// mergeFrequencies folds rows whose tags normalise to the same canonical form.
func mergeFrequencies(rows []TagFrequency) []TagFrequency {
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		canon := NormalizeTag(row.Tag)
		if canon == "" {
			continue
		}
		counts[canon] += row.Count
	}
	out := make([]TagFrequency, 0, len(counts))
	for tag, count := range counts {
		out = append(out, TagFrequency{Tag: tag, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

func mergeCategoryFrequencies(rows []CategoryTagFrequency) []CategoryTagFrequency {
	type key struct{ category, tag string }
	counts := make(map[key]int, len(rows))
	for _, row := range rows {
		canon := NormalizeTag(row.Tag)
		if canon == "" {
			continue
		}
		counts[key{row.Category, canon}] += row.Count
	}
	out := make([]CategoryTagFrequency, 0, len(counts))
	for k, count := range counts {
		out = append(out, CategoryTagFrequency{Category: k.category, Tag: k.tag, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}
