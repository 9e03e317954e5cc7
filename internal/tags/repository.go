package tags

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads tag usage out of the resources table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wires the repository with a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ RepositoryPort = (*Repository)(nil)

// ListTags returns every distinct tag currently in use.
func (r *Repository) ListTags(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT tag
		FROM resources, unnest(tags) AS tag
		ORDER BY tag`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, tag)
	}
	return out, rows.Err()
}

// TagFrequency counts tag occurrences across all resources.
func (r *Repository) TagFrequency(ctx context.Context) ([]TagFrequency, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT tag, COUNT(*) AS uses
		FROM resources, unnest(tags) AS tag
		GROUP BY tag
		ORDER BY uses DESC, tag`)
	if err != nil {
		return nil, fmt.Errorf("tag frequency: %w", err)
	}
	defer rows.Close()

	var out []TagFrequency
	for rows.Next() {
		var f TagFrequency
		if err := rows.Scan(&f.Tag, &f.Count); err != nil {
			return nil, fmt.Errorf("scan tag frequency: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// CategoryTagFrequency counts tag occurrences grouped by resource category.
func (r *Repository) CategoryTagFrequency(ctx context.Context) ([]CategoryTagFrequency, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT category, tag, COUNT(*) AS uses
		FROM resources, unnest(tags) AS tag
		GROUP BY category, tag
		ORDER BY category, uses DESC, tag`)
	if err != nil {
		return nil, fmt.Errorf("category tag frequency: %w", err)
	}
	defer rows.Close()

	var out []CategoryTagFrequency
	for rows.Next() {
		var f CategoryTagFrequency
		if err := rows.Scan(&f.Category, &f.Tag, &f.Count); err != nil {
			return nil, fmt.Errorf("scan category tag frequency: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
