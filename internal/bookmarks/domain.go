// Package bookmarks lets students keep per-identity bookmarks on resources.
package bookmarks

import (
	"fmt"
	"time"

	"github.com/itawiki/resource-manager/internal/platform/httpx"
)

var (
	ErrStudentNotFound   = fmt.Errorf("%w: github_id has no role", httpx.ErrNotFound)
	ErrResourceNotFound  = fmt.Errorf("%w: resource does not exist", httpx.ErrNotFound)
	ErrBookmarkNotFound  = fmt.Errorf("%w: bookmark does not exist", httpx.ErrNotFound)
	ErrAlreadyBookmarked = fmt.Errorf("%w: resource already bookmarked", httpx.ErrDuplicate)
)

// Bookmark marks a resource as saved by an identity.
type Bookmark struct {
	ID         int64
	GithubID   int64
	ResourceID int64
	CreatedAt  time.Time
}
