package bookmarks

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence for bookmarks.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByGithubID returns all bookmarks of an identity, newest first.
func (r *Repository) ListByGithubID(ctx context.Context, githubID int64) ([]Bookmark, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, github_id, resource_id, created_at FROM bookmarks
		 WHERE github_id = $1 ORDER BY created_at DESC`, githubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Bookmark
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(&b.ID, &b.GithubID, &b.ResourceID, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Create inserts a bookmark; the unique (github_id, resource_id) constraint
// maps to ErrAlreadyBookmarked.
func (r *Repository) Create(ctx context.Context, githubID, resourceID int64) (Bookmark, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO bookmarks (github_id, resource_id, created_at)
		 VALUES ($1, $2, NOW())
		 RETURNING id, github_id, resource_id, created_at`,
		githubID, resourceID)
	var b Bookmark
	if err := row.Scan(&b.ID, &b.GithubID, &b.ResourceID, &b.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Bookmark{}, ErrAlreadyBookmarked
		}
		return Bookmark{}, err
	}
	return b, nil
}

// Delete removes a bookmark, reporting ErrBookmarkNotFound when no row matched.
func (r *Repository) Delete(ctx context.Context, githubID, resourceID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM bookmarks WHERE github_id = $1 AND resource_id = $2`,
		githubID, resourceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBookmarkNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
