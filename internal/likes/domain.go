// Package likes tracks per-identity likes on resources.
package likes

import (
	"fmt"
	"time"

	"github.com/itawiki/resource-manager/internal/platform/httpx"
)

var (
	ErrStudentNotFound  = fmt.Errorf("%w: github_id has no role", httpx.ErrNotFound)
	ErrResourceNotFound = fmt.Errorf("%w: resource does not exist", httpx.ErrNotFound)
	ErrLikeNotFound     = fmt.Errorf("%w: like does not exist", httpx.ErrNotFound)
	ErrAlreadyLiked     = fmt.Errorf("%w: resource already liked", httpx.ErrDuplicate)
)

// Like marks a resource as liked by an identity.
type Like struct {
	ID         int64
	GithubID   int64
	ResourceID int64
	CreatedAt  time.Time
}
