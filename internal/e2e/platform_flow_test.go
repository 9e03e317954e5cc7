package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/itawiki/resource-manager/internal/app"
	"github.com/itawiki/resource-manager/internal/bookmarks"
	"github.com/itawiki/resource-manager/internal/featureflag"
	"github.com/itawiki/resource-manager/internal/likes"
	"github.com/itawiki/resource-manager/internal/observability"
	"github.com/itawiki/resource-manager/internal/platform/httpx"
	"github.com/itawiki/resource-manager/internal/resources"
	"github.com/itawiki/resource-manager/internal/roles"
	"github.com/itawiki/resource-manager/internal/tags"
	_ "github.com/itawiki/resource-manager/testing"
)

// In-memory stores spanning every repository port, so a request travels the
// real router, middleware, handlers and services end to end.

type roleStore struct {
	nextID int64
	byID   map[int64]roles.Role
}

func newRoleStore() *roleStore { return &roleStore{byID: map[int64]roles.Role{}} }

func (s *roleStore) seed(githubID int64, name roles.RoleName) {
	s.nextID++
	s.byID[githubID] = roles.Role{ID: s.nextID, GithubID: githubID, Role: name}
}

func (s *roleStore) FindByGithubID(_ context.Context, githubID int64) (roles.Role, error) {
	record, ok := s.byID[githubID]
	if !ok {
		return roles.Role{}, httpx.ErrNotFound
	}
	return record, nil
}

func (s *roleStore) Exists(_ context.Context, githubID int64) (bool, error) {
	_, ok := s.byID[githubID]
	return ok, nil
}

func (s *roleStore) Create(_ context.Context, githubID int64, name roles.RoleName) (roles.Role, error) {
	if _, ok := s.byID[githubID]; ok {
		return roles.Role{}, roles.ErrDuplicateTarget
	}
	s.nextID++
	record := roles.Role{ID: s.nextID, GithubID: githubID, Role: name}
	s.byID[githubID] = record
	return record, nil
}

func (s *roleStore) Save(_ context.Context, githubID int64, name roles.RoleName) (roles.Role, error) {
	record, ok := s.byID[githubID]
	if !ok {
		return roles.Role{}, httpx.ErrNotFound
	}
	record.Role = name
	s.byID[githubID] = record
	return record, nil
}

type resourceStore struct {
	nextID int64
	byID   map[int64]resources.Resource
}

func newResourceStore() *resourceStore { return &resourceStore{byID: map[int64]resources.Resource{}} }

func (s *resourceStore) FindByID(_ context.Context, id int64) (resources.Resource, error) {
	res, ok := s.byID[id]
	if !ok {
		return resources.Resource{}, httpx.ErrNotFound
	}
	return res, nil
}

func (s *resourceStore) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := s.byID[id]
	return ok, nil
}

func (s *resourceStore) Create(_ context.Context, res resources.Resource) (resources.Resource, error) {
	s.nextID++
	res.ID = s.nextID
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt
	s.byID[res.ID] = res
	return res, nil
}

func (s *resourceStore) Save(_ context.Context, res resources.Resource) (resources.Resource, error) {
	if _, ok := s.byID[res.ID]; !ok {
		return resources.Resource{}, httpx.ErrNotFound
	}
	res.UpdatedAt = time.Now()
	s.byID[res.ID] = res
	return res, nil
}

func (s *resourceStore) List(_ context.Context, filters resources.ListFilters) ([]resources.Resource, int, error) {
	var out []resources.Resource
	for _, res := range s.byID {
		if filters.Category != "" && string(res.Category) != filters.Category {
			continue
		}
		if filters.Type != "" && string(res.Type) != filters.Type {
			continue
		}
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (s *resourceStore) ListTags(context.Context) ([]string, error) {
	var out []string
	for _, res := range s.byID {
		out = append(out, res.Tags...)
	}
	return out, nil
}

func (s *resourceStore) TagFrequency(context.Context) ([]tags.TagFrequency, error) {
	counts := map[string]int{}
	for _, res := range s.byID {
		for _, tag := range res.Tags {
			counts[tag]++
		}
	}
	var out []tags.TagFrequency
	for tag, count := range counts {
		out = append(out, tags.TagFrequency{Tag: tag, Count: count})
	}
	return out, nil
}

func (s *resourceStore) CategoryTagFrequency(context.Context) ([]tags.CategoryTagFrequency, error) {
	type key struct{ category, tag string }
	counts := map[key]int{}
	for _, res := range s.byID {
		for _, tag := range res.Tags {
			counts[key{string(res.Category), tag}]++
		}
	}
	var out []tags.CategoryTagFrequency
	for k, count := range counts {
		out = append(out, tags.CategoryTagFrequency{Category: k.category, Tag: k.tag, Count: count})
	}
	return out, nil
}

type pairStore struct {
	pairs map[[2]int64]struct{}
}

func newPairStore() *pairStore { return &pairStore{pairs: map[[2]int64]struct{}{}} }

func (s *pairStore) has(githubID, resourceID int64) bool {
	_, ok := s.pairs[[2]int64{githubID, resourceID}]
	return ok
}

type bookmarkStore struct{ *pairStore }

func (s bookmarkStore) ListByGithubID(_ context.Context, githubID int64) ([]bookmarks.Bookmark, error) {
	var out []bookmarks.Bookmark
	for pair := range s.pairs {
		if pair[0] == githubID {
			out = append(out, bookmarks.Bookmark{GithubID: pair[0], ResourceID: pair[1]})
		}
	}
	return out, nil
}

func (s bookmarkStore) Create(_ context.Context, githubID, resourceID int64) (bookmarks.Bookmark, error) {
	if s.has(githubID, resourceID) {
		return bookmarks.Bookmark{}, bookmarks.ErrAlreadyBookmarked
	}
	s.pairs[[2]int64{githubID, resourceID}] = struct{}{}
	return bookmarks.Bookmark{GithubID: githubID, ResourceID: resourceID}, nil
}

func (s bookmarkStore) Delete(_ context.Context, githubID, resourceID int64) error {
	if !s.has(githubID, resourceID) {
		return bookmarks.ErrBookmarkNotFound
	}
	delete(s.pairs, [2]int64{githubID, resourceID})
	return nil
}

type likeStore struct{ *pairStore }

func (s likeStore) ListByGithubID(_ context.Context, githubID int64) ([]likes.Like, error) {
	var out []likes.Like
	for pair := range s.pairs {
		if pair[0] == githubID {
			out = append(out, likes.Like{GithubID: pair[0], ResourceID: pair[1]})
		}
	}
	return out, nil
}

func (s likeStore) Create(_ context.Context, githubID, resourceID int64) (likes.Like, error) {
	if s.has(githubID, resourceID) {
		return likes.Like{}, likes.ErrAlreadyLiked
	}
	s.pairs[[2]int64{githubID, resourceID}] = struct{}{}
	return likes.Like{GithubID: githubID, ResourceID: resourceID}, nil
}

func (s likeStore) Delete(_ context.Context, githubID, resourceID int64) error {
	if !s.has(githubID, resourceID) {
		return likes.ErrLikeNotFound
	}
	delete(s.pairs, [2]int64{githubID, resourceID})
	return nil
}

func newTestServer(t *testing.T, gate featureflag.Gate, roleRepo *roleStore, resourceRepo *resourceStore) *httptest.Server {
	t.Helper()
	logger := slog.Default()

	rolesHandler := roles.NewHandler(logger, roles.NewService(roleRepo, gate))
	resourcesHandler := resources.NewHandler(logger, resources.NewService(resourceRepo, roleRepo))
	bookmarksHandler := bookmarks.NewHandler(logger, bookmarks.NewService(bookmarkStore{newPairStore()}, roleRepo, resourceRepo))
	likesHandler := likes.NewHandler(logger, likes.NewService(likeStore{newPairStore()}, roleRepo, resourceRepo))
	tagsHandler := tags.NewHandler(logger, tags.NewService(resourceRepo, tags.NewCache(nil, time.Minute)))

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           &app.Config{AppRequestTimeout: 30 * time.Second},
		RolesHandler:     rolesHandler,
		ResourcesHandler: resourcesHandler,
		BookmarksHandler: bookmarksHandler,
		LikesHandler:     likesHandler,
		TagsHandler:      tagsHandler,
		Metrics:          observability.NewMetrics(),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestHarnessRunsInTestMode(t *testing.T) {
	app.RefreshTestMode()
	require.True(t, app.InTestMode())
}

func TestPlatformJourney(t *testing.T) {
	const (
		superadminID = int64(1)
		mentorID     = int64(20)
		studentID    = int64(300)
		strangerID   = int64(999)
	)

	roleRepo := newRoleStore()
	roleRepo.seed(superadminID, roles.RoleSuperadmin)
	resourceRepo := newResourceStore()

	srv := newTestServer(t, featureflag.StaticGate(false), roleRepo, resourceRepo)
	client := srv.Client()

	// Superadmin provisions a mentor and a student.
	resp, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/roles", map[string]any{
		"authorized_github_id": superadminID, "github_id": mentorID, "role": "mentor",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/roles", map[string]any{
		"authorized_github_id": superadminID, "github_id": studentID, "role": "student",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// The mentor cannot grant a role at their own rank.
	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/roles", map[string]any{
		"authorized_github_id": mentorID, "github_id": strangerID, "role": "mentor",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Self-assignment stays locked while the flag is off.
	resp, _ = doJSON(t, client, http.MethodPut, srv.URL+"/api/feature-flags/role-self-assignment", map[string]any{
		"github_id": studentID, "role": "superadmin",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The student shares a resource.
	resp, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/resources", map[string]any{
		"github_id": studentID,
		"title":     "Context propagation in Go",
		"url":       "https://example.com/go-context",
		"category":  "Node",
		"type":      "Blog",
		"tags":      []string{"go", "context"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resourceID := int64(body["resource"].(map[string]any)["id"].(float64))

	// Nobody but the creator may touch it, role notwithstanding.
	resp, _ = doJSON(t, client, http.MethodPut, srv.URL+"/api/resources/1", map[string]any{
		"github_id": superadminID,
		"title":     "Hijacked title here",
		"url":       "https://example.com/other",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodPut, srv.URL+"/api/resources/1", map[string]any{
		"github_id": studentID,
		"title":     "Context propagation in Go, revisited",
		"url":       "https://example.com/go-context",
		"tags":      []string{"go", "context", "cancellation"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Bookmark and like it; repeats surface as conflicts.
	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/bookmarks", map[string]any{
		"github_id": mentorID, "resource_id": resourceID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/bookmarks", map[string]any{
		"github_id": mentorID, "resource_id": resourceID,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/likes", map[string]any{
		"github_id": mentorID, "resource_id": resourceID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = doJSON(t, client, http.MethodGet, srv.URL+"/api/bookmarks/20", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["bookmarks"], 1)

	// Tag aggregates reflect the updated resource.
	resp, body = doJSON(t, client, http.MethodGet, srv.URL+"/api/tags", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.ElementsMatch(t, []any{"cancellation", "context", "go"}, body["tags"])

	// Login resolves the stored role.
	resp, body = doJSON(t, client, http.MethodPost, srv.URL+"/api/login", map[string]any{
		"github_id": mentorID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "mentor", body["role"].(map[string]any)["role"])
}

func TestSelfAssignmentFlagEnabledEndToEnd(t *testing.T) {
	roleRepo := newRoleStore()
	roleRepo.seed(300, roles.RoleStudent)

	srv := newTestServer(t, featureflag.StaticGate(true), roleRepo, newResourceStore())

	resp, body := doJSON(t, srv.Client(), http.MethodPut, srv.URL+"/api/feature-flags/role-self-assignment", map[string]any{
		"github_id": 300, "role": "superadmin",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "superadmin", body["role"].(map[string]any)["role"])
}
