package bookmarks

import "context"

// RepositoryPort defines data access methods for bookmarks. The
// (github_id, resource_id) pair is unique in the store; Create surfaces a
// violation as ErrAlreadyBookmarked.
type RepositoryPort interface {
	ListByGithubID(ctx context.Context, githubID int64) ([]Bookmark, error)
	Create(ctx context.Context, githubID, resourceID int64) (Bookmark, error)
	Delete(ctx context.Context, githubID, resourceID int64) error
}

// RoleChecker reports whether an identity holds a role record.
type RoleChecker interface {
	Exists(ctx context.Context, githubID int64) (bool, error)
}

// ResourceChecker reports whether a resource exists.
type ResourceChecker interface {
	Exists(ctx context.Context, resourceID int64) (bool, error)
}

// Service handles bookmark business logic.
type Service struct {
	repo      RepositoryPort
	roles     RoleChecker
	resources ResourceChecker
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, roles RoleChecker, resources ResourceChecker) *Service {
	return &Service{repo: repo, roles: roles, resources: resources}
}

// ListByGithubID returns the identity's bookmarks.
func (s *Service) ListByGithubID(ctx context.Context, githubID int64) ([]Bookmark, error) {
	holds, err := s.roles.Exists(ctx, githubID)
	if err != nil {
		return nil, err
	}
	if !holds {
		return nil, ErrStudentNotFound
	}
	return s.repo.ListByGithubID(ctx, githubID)
}

// Create stores a bookmark for the identity on the resource.
func (s *Service) Create(ctx context.Context, githubID, resourceID int64) (Bookmark, error) {
	holds, err := s.roles.Exists(ctx, githubID)
	if err != nil {
		return Bookmark{}, err
	}
	if !holds {
		return Bookmark{}, ErrStudentNotFound
	}
	exists, err := s.resources.Exists(ctx, resourceID)
	if err != nil {
		return Bookmark{}, err
	}
	if !exists {
		return Bookmark{}, ErrResourceNotFound
	}
	return s.repo.Create(ctx, githubID, resourceID)
}

// Delete removes the identity's bookmark on the resource.
func (s *Service) Delete(ctx context.Context, githubID, resourceID int64) error {
	holds, err := s.roles.Exists(ctx, githubID)
	if err != nil {
		return err
	}
	if !holds {
		return ErrStudentNotFound
	}
	return s.repo.Delete(ctx, githubID, resourceID)
}
