package resources

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itawiki/resource-manager/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for resources.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const resourceColumns = `id, github_id, title, description, url, category, tags, type,
	bookmark_count, like_count, created_at, updated_at`

func scanResource(row pgx.Row) (Resource, error) {
	var res Resource
	err := row.Scan(&res.ID, &res.GithubID, &res.Title, &res.Description, &res.URL,
		&res.Category, &res.Tags, &res.Type, &res.BookmarkCount, &res.LikeCount,
		&res.CreatedAt, &res.UpdatedAt)
	return res, err
}

// FindByID fetches a resource by primary key.
func (r *Repository) FindByID(ctx context.Context, id int64) (Resource, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE id = $1`, id)
	res, err := scanResource(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Resource{}, httpx.ErrNotFound
		}
		return Resource{}, err
	}
	return res, nil
}

// Exists reports whether a resource with the given id is stored. Bookmark
// and like writes use it as a precondition check.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM resources WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// Create inserts a new resource.
func (r *Repository) Create(ctx context.Context, resource Resource) (Resource, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO resources (github_id, title, description, url, category, tags, type,
			bookmark_count, like_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 0, NOW(), NOW())
		 RETURNING `+resourceColumns,
		resource.GithubID, resource.Title, resource.Description, resource.URL,
		resource.Category, resource.Tags, resource.Type)
	return scanResource(row)
}

// Save persists the mutable fields of an existing resource. The owning
// github_id is never written on this path.
func (r *Repository) Save(ctx context.Context, resource Resource) (Resource, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE resources
		 SET title = $2, description = $3, url = $4, tags = $5, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+resourceColumns,
		resource.ID, resource.Title, resource.Description, resource.URL, resource.Tags)
	res, err := scanResource(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Resource{}, httpx.ErrNotFound
		}
		return Resource{}, err
	}
	return res, nil
}

// List returns resources matching the filters ordered by creation time, plus
// the total match count for pagination.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]Resource, int, error) {
	perPage := filters.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * perPage

	const where = ` WHERE ($1 = '' OR category = $1)
		AND ($2 = '' OR type = $2)
		AND ($3 = '' OR $3 = ANY(tags))`

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM resources`+where,
		filters.Category, filters.Type, filters.Tag).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+resourceColumns+` FROM resources`+where+`
		 ORDER BY created_at DESC, id DESC LIMIT $4 OFFSET $5`,
		filters.Category, filters.Type, filters.Tag, perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

var _ RepositoryPort = (*Repository)(nil)
