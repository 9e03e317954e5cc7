// Package resources implements shared learning resources and the ownership
// guard over their mutation.
package resources

import (
	"fmt"
	"time"

	"github.com/itawiki/resource-manager/internal/platform/httpx"
)

// Category enumerates the recognised resource categories.
type Category string

const (
	CategoryNode         Category = "Node"
	CategoryReact        Category = "React"
	CategoryAngular      Category = "Angular"
	CategoryJavaScript   Category = "JavaScript"
	CategoryJava         Category = "Java"
	CategoryFullstackPHP Category = "Fullstack PHP"
	CategoryDataScience  Category = "Data Science"
	CategoryBBDD         Category = "BBDD"
)

// ResourceType enumerates the recognised resource types.
type ResourceType string

const (
	TypeVideo  ResourceType = "Video"
	TypeCursos ResourceType = "Cursos"
	TypeBlog   ResourceType = "Blog"
)

var validCategories = map[Category]struct{}{
	CategoryNode: {}, CategoryReact: {}, CategoryAngular: {}, CategoryJavaScript: {},
	CategoryJava: {}, CategoryFullstackPHP: {}, CategoryDataScience: {}, CategoryBBDD: {},
}

var validTypes = map[ResourceType]struct{}{
	TypeVideo: {}, TypeCursos: {}, TypeBlog: {},
}

// MaxTags caps the number of tags per resource.
const MaxTags = 5

var (
	ErrResourceNotFound = fmt.Errorf("%w: resource does not exist", httpx.ErrNotFound)
	ErrCreatorNotFound  = fmt.Errorf("%w: creating github_id has no role", httpx.ErrNotFound)

	ErrUnknownCategory = fmt.Errorf("%w: unknown resource category", httpx.ErrUnprocessable)
	ErrUnknownType     = fmt.Errorf("%w: unknown resource type", httpx.ErrUnprocessable)
	ErrTooManyTags     = fmt.Errorf("%w: a resource carries at most %d tags", httpx.ErrUnprocessable, MaxTags)

	// ErrNotOwner is the ownership guard denial. Ownership is the sole
	// criterion; rank is never consulted, so a superadmin is denied like
	// anyone else.
	ErrNotOwner = fmt.Errorf("%w: cannot modify a resource created by another user", httpx.ErrForbidden)
)

// Valid reports whether the category is recognised.
func (c Category) Valid() bool {
	_, ok := validCategories[c]
	return ok
}

// Valid reports whether the resource type is recognised.
func (t ResourceType) Valid() bool {
	_, ok := validTypes[t]
	return ok
}

// Resource is a shared learning resource. GithubID is the creating identity
// and never changes after creation.
type Resource struct {
	ID            int64
	GithubID      int64
	Title         string
	Description   string
	URL           string
	Category      Category
	Tags          []string
	Type          ResourceType
	BookmarkCount int
	LikeCount     int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CanModify is the ownership guard: the requesting identity must equal the
// resource's creator.
func CanModify(requestingID int64, resource Resource) error {
	if requestingID != resource.GithubID {
		return ErrNotOwner
	}
	return nil
}

// UpdateFields carries the mutable fields of a resource. Owner, category,
// type and the counters are not updatable.
type UpdateFields struct {
	Title       string
	Description string
	URL         string
	Tags        []string
}
