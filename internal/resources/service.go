package resources

import (
	"context"
	"errors"

	"github.com/itawiki/resource-manager/internal/platform/httpx"
)

// RepositoryPort defines data access methods for resources.
type RepositoryPort interface {
	FindByID(ctx context.Context, id int64) (Resource, error)
	Create(ctx context.Context, resource Resource) (Resource, error)
	Save(ctx context.Context, resource Resource) (Resource, error)
	List(ctx context.Context, filters ListFilters) ([]Resource, int, error)
}

// RoleChecker resolves whether an identity holds a role record. Creation
// requires one so every resource has an owner in the roles table.
type RoleChecker interface {
	Exists(ctx context.Context, githubID int64) (bool, error)
}

// ListFilters narrows the resource listing.
type ListFilters struct {
	Category string
	Type     string
	Tag      string
	Page     int
	PerPage  int
}

// Service handles resource business logic.
type Service struct {
	repo  RepositoryPort
	roles RoleChecker
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, roles RoleChecker) *Service {
	return &Service{repo: repo, roles: roles}
}

// Create stores a new resource owned by creatorID.
func (s *Service) Create(ctx context.Context, creatorID int64, resource Resource) (Resource, error) {
	holds, err := s.roles.Exists(ctx, creatorID)
	if err != nil {
		return Resource{}, err
	}
	if !holds {
		return Resource{}, ErrCreatorNotFound
	}
	if !resource.Category.Valid() {
		return Resource{}, ErrUnknownCategory
	}
	if !resource.Type.Valid() {
		return Resource{}, ErrUnknownType
	}
	if len(resource.Tags) > MaxTags {
		return Resource{}, ErrTooManyTags
	}

	resource.GithubID = creatorID
	resource.BookmarkCount = 0
	resource.LikeCount = 0
	return s.repo.Create(ctx, resource)
}

// List returns resources matching the filters plus the total match count.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Resource, Pagination, error) {
	if filters.Category != "" && !Category(filters.Category).Valid() {
		return nil, Pagination{}, ErrUnknownCategory
	}
	if filters.Type != "" && !ResourceType(filters.Type).Valid() {
		return nil, Pagination{}, ErrUnknownType
	}

	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, Pagination{}, err
	}
	return items, NewPagination(filters.Page, filters.PerPage, total), nil
}

// Update applies the requested field mutations to a resource. Only the
// original creator may mutate; the resolved record's owner never changes.
func (s *Service) Update(ctx context.Context, requestingID, resourceID int64, fields UpdateFields) (Resource, error) {
	resource, err := s.repo.FindByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return Resource{}, ErrResourceNotFound
		}
		return Resource{}, err
	}

	if err := CanModify(requestingID, resource); err != nil {
		return Resource{}, err
	}

	if len(fields.Tags) > MaxTags {
		return Resource{}, ErrTooManyTags
	}

	resource.Title = fields.Title
	resource.Description = fields.Description
	resource.URL = fields.URL
	resource.Tags = fields.Tags
	return s.repo.Save(ctx, resource)
}
