package roles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itawiki/resource-manager/internal/platform/httpx"
)

const uniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence for role records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindByGithubID fetches the role record for an identity.
func (r *Repository) FindByGithubID(ctx context.Context, githubID int64) (Role, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, github_id, role, created_at, updated_at FROM roles WHERE github_id = $1`,
		githubID)
	var role Role
	if err := row.Scan(&role.ID, &role.GithubID, &role.Role, &role.CreatedAt, &role.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, httpx.ErrNotFound
		}
		return Role{}, err
	}
	return role, nil
}

// Exists reports whether a role record exists for the identity.
func (r *Repository) Exists(ctx context.Context, githubID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM roles WHERE github_id = $1)`, githubID).Scan(&exists)
	return exists, err
}

// Create inserts a new role record. The unique constraint on github_id
// serialises concurrent creates; a violation maps to ErrDuplicateTarget.
func (r *Repository) Create(ctx context.Context, githubID int64, roleName RoleName) (Role, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO roles (github_id, role, created_at, updated_at)
		 VALUES ($1, $2, NOW(), NOW())
		 RETURNING id, github_id, role, created_at, updated_at`,
		githubID, roleName)
	var role Role
	if err := row.Scan(&role.ID, &role.GithubID, &role.Role, &role.CreatedAt, &role.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Role{}, ErrDuplicateTarget
		}
		return Role{}, err
	}
	return role, nil
}

// Save updates the role held by an identity. Last write wins.
func (r *Repository) Save(ctx context.Context, githubID int64, roleName RoleName) (Role, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE roles SET role = $2, updated_at = NOW()
		 WHERE github_id = $1
		 RETURNING id, github_id, role, created_at, updated_at`,
		githubID, roleName)
	var role Role
	if err := row.Scan(&role.ID, &role.GithubID, &role.Role, &role.CreatedAt, &role.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, httpx.ErrNotFound
		}
		return Role{}, err
	}
	return role, nil
}

var _ RepositoryPort = (*Repository)(nil)
