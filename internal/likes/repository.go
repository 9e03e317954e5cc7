package likes

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence for likes.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ListByGithubID(ctx context.Context, githubID int64) ([]Like, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, github_id, resource_id, created_at FROM likes
		 WHERE github_id = $1 ORDER BY created_at DESC`, githubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Like
	for rows.Next() {
		var l Like
		if err := rows.Scan(&l.ID, &l.GithubID, &l.ResourceID, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repository) Create(ctx context.Context, githubID, resourceID int64) (Like, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO likes (github_id, resource_id, created_at)
		 VALUES ($1, $2, NOW())
		 RETURNING id, github_id, resource_id, created_at`,
		githubID, resourceID)
	var l Like
	if err := row.Scan(&l.ID, &l.GithubID, &l.ResourceID, &l.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Like{}, ErrAlreadyLiked
		}
		return Like{}, err
	}
	return l, nil
}

func (r *Repository) Delete(ctx context.Context, githubID, resourceID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM likes WHERE github_id = $1 AND resource_id = $2`,
		githubID, resourceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLikeNotFound
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
