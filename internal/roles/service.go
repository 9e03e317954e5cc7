package roles

import (
	"context"
	"errors"

	"github.com/itawiki/resource-manager/internal/featureflag"
	"github.com/itawiki/resource-manager/internal/platform/httpx"
)

// RepositoryPort defines data access methods for role records. Identity
// uniqueness is enforced by the store; Create surfaces a violation as
// ErrDuplicateTarget.
type RepositoryPort interface {
	FindByGithubID(ctx context.Context, githubID int64) (Role, error)
	Exists(ctx context.Context, githubID int64) (bool, error)
	Create(ctx context.Context, githubID int64, role RoleName) (Role, error)
	Save(ctx context.Context, githubID int64, role RoleName) (Role, error)
}

// Service orchestrates the role assignment workflows.
type Service struct {
	repo RepositoryPort
	gate featureflag.Gate
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, gate featureflag.Gate) *Service {
	return &Service{repo: repo, gate: gate}
}

// FindByGithubID resolves the role record for an identity.
func (s *Service) FindByGithubID(ctx context.Context, githubID int64) (Role, error) {
	return s.repo.FindByGithubID(ctx, githubID)
}

// CreateRole creates a role record for targetID. The acting identity must
// already hold a role strictly above the requested one.
func (s *Service) CreateRole(ctx context.Context, actingID, targetID int64, roleName string) (Role, error) {
	acting, err := s.repo.FindByGithubID(ctx, actingID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return Role{}, ErrActorNotFound
		}
		return Role{}, err
	}

	exists, err := s.repo.Exists(ctx, targetID)
	if err != nil {
		return Role{}, err
	}
	if exists {
		return Role{}, ErrDuplicateTarget
	}

	target, err := ParseRoleName(roleName)
	if err != nil {
		return Role{}, err
	}

	if err := CanCreate(acting.Role, target); err != nil {
		return Role{}, err
	}

	// A concurrent create may still win the race; the repository translates
	// the uniqueness violation to ErrDuplicateTarget.
	return s.repo.Create(ctx, targetID, target)
}

// UpdateRole changes the role held by targetID. Both identities must already
// hold roles; this path never creates records. Repeating the same update is
// not an error.
func (s *Service) UpdateRole(ctx context.Context, actingID, targetID int64, roleName string) (Role, error) {
	acting, err := s.repo.FindByGithubID(ctx, actingID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return Role{}, ErrActorNotFound
		}
		return Role{}, err
	}

	current, err := s.repo.FindByGithubID(ctx, targetID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return Role{}, ErrTargetNotFound
		}
		return Role{}, err
	}

	next, err := ParseRoleName(roleName)
	if err != nil {
		return Role{}, err
	}

	if err := CanUpdate(acting.Role, current.Role, next); err != nil {
		return Role{}, err
	}

	return s.repo.Save(ctx, targetID, next)
}

// SelfAssignRole lets an identity set its own role. The path is gated by the
// feature flag and skips the hierarchy policy entirely: with the flag on,
// any identity holding a role record may assign itself any recognised role,
// superadmin included. The flag may flip between the check and the write;
// that race is accepted.
func (s *Service) SelfAssignRole(ctx context.Context, githubID int64, roleName string) (Role, error) {
	if _, err := s.repo.FindByGithubID(ctx, githubID); err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return Role{}, ErrTargetNotFound
		}
		return Role{}, err
	}

	next, err := ParseRoleName(roleName)
	if err != nil {
		return Role{}, err
	}

	if s.gate == nil || !s.gate.RoleSelfAssignmentEnabled() {
		return Role{}, ErrSelfAssignmentDisabled
	}

	return s.repo.Save(ctx, githubID, next)
}
