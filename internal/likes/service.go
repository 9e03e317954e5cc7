package likes

import "context"

// RepositoryPort defines data access methods for likes.
type RepositoryPort interface {
	ListByGithubID(ctx context.Context, githubID int64) ([]Like, error)
	Create(ctx context.Context, githubID, resourceID int64) (Like, error)
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

// Service handles like business logic.
type Service struct {
	repo      RepositoryPort
	roles     RoleChecker
	resources ResourceChecker
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, roles RoleChecker, resources ResourceChecker) *Service {
	return &Service{repo: repo, roles: roles, resources: resources}
}

func (s *Service) ListByGithubID(ctx context.Context, githubID int64) ([]Like, error) {
	holds, err := s.roles.Exists(ctx, githubID)
	if err != nil {
		return nil, err
	}
	if !holds {
		return nil, ErrStudentNotFound
	}
	return s.repo.ListByGithubID(ctx, githubID)
}

func (s *Service) Create(ctx context.Context, githubID, resourceID int64) (Like, error) {
	holds, err := s.roles.Exists(ctx, githubID)
	if err != nil {
		return Like{}, err
	}
	if !holds {
		return Like{}, ErrStudentNotFound
	}
	exists, err := s.resources.Exists(ctx, resourceID)
	if err != nil {
		return Like{}, err
	}
	if !exists {
		return Like{}, ErrResourceNotFound
	}
	return s.repo.Create(ctx, githubID, resourceID)
}

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
