package resources

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/itawiki/resource-manager/internal/platform/httpx"
)

type memoryResourceRepo struct {
	resources map[int64]Resource
	nextID    int64
}

func newMemoryResourceRepo() *memoryResourceRepo {
	return &memoryResourceRepo{resources: make(map[int64]Resource)}
}

func (r *memoryResourceRepo) FindByID(ctx context.Context, id int64) (Resource, error) {
	res, ok := r.resources[id]
	if !ok {
		return Resource{}, httpx.ErrNotFound
	}
	return res, nil
}

func (r *memoryResourceRepo) Create(ctx context.Context, resource Resource) (Resource, error) {
	r.nextID++
	resource.ID = r.nextID
	resource.CreatedAt = time.Now().UTC()
	resource.UpdatedAt = resource.CreatedAt
	r.resources[resource.ID] = resource
	return resource, nil
}

func (r *memoryResourceRepo) Save(ctx context.Context, resource Resource) (Resource, error) {
	stored, ok := r.resources[resource.ID]
	if !ok {
		return Resource{}, httpx.ErrNotFound
	}
	stored.Title = resource.Title
	stored.Description = resource.Description
	stored.URL = resource.URL
	stored.Tags = resource.Tags
	stored.UpdatedAt = time.Now().UTC()
	r.resources[resource.ID] = stored
	return stored, nil
}

func (r *memoryResourceRepo) List(ctx context.Context, filters ListFilters) ([]Resource, int, error) {
	var out []Resource
	for _, res := range r.resources {
		if filters.Category != "" && string(res.Category) != filters.Category {
			continue
		}
		if filters.Type != "" && string(res.Type) != filters.Type {
			continue
		}
		if filters.Tag != "" && !contains(res.Tags, filters.Tag) {
			continue
		}
		out = append(out, res)
	}
	return out, len(out), nil
}

func contains(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

type memoryRoleChecker map[int64]bool

func (c memoryRoleChecker) Exists(ctx context.Context, githubID int64) (bool, error) {
	return c[githubID], nil
}

const (
	ownerID      = int64(10)
	strangerID   = int64(20)
	superadminID = int64(30)
)

func newTestService() (*Service, *memoryResourceRepo) {
	repo := newMemoryResourceRepo()
	roles := memoryRoleChecker{ownerID: true, strangerID: true, superadminID: true}
	return NewService(repo, roles), repo
}

func seedResource(t *testing.T, svc *Service) Resource {
	t.Helper()
	res, err := svc.Create(context.Background(), ownerID, Resource{
		Title:    "Introduction to Go concurrency",
		URL:      "https://example.com/go-concurrency",
		Category: CategoryNode,
		Tags:     []string{"golang", "concurrency"},
		Type:     TypeVideo,
	})
	require.NoError(t, err)
	return res
}

func TestCreateResource(t *testing.T) {
	svc, repo := newTestService()

	res := seedResource(t, svc)
	require.Equal(t, ownerID, res.GithubID, "owner is taken from the creating identity")
	require.Zero(t, res.BookmarkCount)
	require.Zero(t, res.LikeCount)
	require.Equal(t, res, repo.resources[res.ID])
}

func TestCreateResourceRequiresRole(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Create(context.Background(), 999, Resource{
		Title:    "A title long enough",
		URL:      "https://example.com",
		Category: CategoryNode,
		Type:     TypeBlog,
	})
	require.ErrorIs(t, err, ErrCreatorNotFound)
	require.Empty(t, repo.resources)
}

func TestCreateResourceRejectsUnknownEnums(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), ownerID, Resource{
		Title: "A title long enough", URL: "https://example.com",
		Category: "Cobol", Type: TypeBlog,
	})
	require.ErrorIs(t, err, ErrUnknownCategory)

	_, err = svc.Create(context.Background(), ownerID, Resource{
		Title: "A title long enough", URL: "https://example.com",
		Category: CategoryNode, Type: "Podcast",
	})
	require.ErrorIs(t, err, ErrUnknownType)

	_, err = svc.Create(context.Background(), ownerID, Resource{
		Title: "A title long enough", URL: "https://example.com",
		Category: CategoryNode, Type: TypeBlog,
		Tags: []string{"a", "b", "c", "d", "e", "f"},
	})
	require.ErrorIs(t, err, ErrTooManyTags)
}

func TestUpdateResourceByOwner(t *testing.T) {
	svc, repo := newTestService()
	res := seedResource(t, svc)

	updated, err := svc.Update(context.Background(), ownerID, res.ID, UpdateFields{
		Title:       "Advanced Go concurrency patterns",
		Description: "Goroutines, channels and the sync package in practice.",
		URL:         "https://example.com/go-concurrency-2",
		Tags:        []string{"golang"},
	})
	require.NoError(t, err)
	require.Equal(t, "Advanced Go concurrency patterns", updated.Title)
	require.Equal(t, []string{"golang"}, updated.Tags)
	require.Equal(t, ownerID, updated.GithubID, "owner never changes on update")
	require.Equal(t, updated, repo.resources[res.ID])
}

func TestUpdateResourceOwnershipGuard(t *testing.T) {
	// Ownership is strict equality on identity. Rank is never consulted, so
	// even a superadmin identity is denied on someone else's resource.
	for _, requester := range []int64{strangerID, superadminID} {
		svc, repo := newTestService()
		res := seedResource(t, svc)
		before := repo.resources[res.ID]

		_, err := svc.Update(context.Background(), requester, res.ID, UpdateFields{
			Title: "Hijacked title here",
			URL:   "https://example.com/other",
		})
		require.ErrorIs(t, err, ErrNotOwner)
		require.ErrorIs(t, err, httpx.ErrForbidden)
		require.Equal(t, before, repo.resources[res.ID], "denied update must not mutate")
	}
}

func TestUpdateResourceNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Update(context.Background(), ownerID, 999, UpdateFields{
		Title: "A title long enough",
		URL:   "https://example.com",
	})
	require.ErrorIs(t, err, ErrResourceNotFound)
}

func TestListResourcesFilters(t *testing.T) {
	svc, _ := newTestService()
	seedResource(t, svc)
	_, err := svc.Create(context.Background(), strangerID, Resource{
		Title:    "React hooks deep dive",
		URL:      "https://example.com/react-hooks",
		Category: CategoryReact,
		Tags:     []string{"react", "hooks"},
		Type:     TypeBlog,
	})
	require.NoError(t, err)

	items, paging, err := svc.List(context.Background(), ListFilters{Category: "React"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 1, paging.Total)

	items, _, err = svc.List(context.Background(), ListFilters{Tag: "golang"})
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, _, err = svc.List(context.Background(), ListFilters{Category: "Cobol"})
	require.ErrorIs(t, err, ErrUnknownCategory)

	_, _, err = svc.List(context.Background(), ListFilters{Type: "Podcast"})
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestCanModify(t *testing.T) {
	res := Resource{GithubID: ownerID}
	require.NoError(t, CanModify(ownerID, res))
	require.ErrorIs(t, CanModify(strangerID, res), ErrNotOwner)
}
