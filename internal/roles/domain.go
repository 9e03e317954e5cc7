// Package roles implements the role hierarchy and assignment workflows.
//
// Roles form a strict total order: student < mentor < admin < superadmin.
// The policy functions in this package block privilege escalation on the
// create and update paths; the self-assignment path is gated by a feature
// flag and deliberately skips the hierarchy check.
package roles

import (
	"fmt"
	"time"

	"github.com/itawiki/resource-manager/internal/platform/httpx"
)

// RoleName identifies one of the recognised roles.
type RoleName string

const (
	RoleStudent    RoleName = "student"
	RoleMentor     RoleName = "mentor"
	RoleAdmin      RoleName = "admin"
	RoleSuperadmin RoleName = "superadmin"
)

// rankTable is the single source of truth for the role order.
var rankTable = map[RoleName]int{
	RoleStudent:    0,
	RoleMentor:     1,
	RoleAdmin:      2,
	RoleSuperadmin: 3,
}

// Errors returned by this package. Each wraps one of the httpx sentinels so
// the transport layer maps them without knowing the decision that produced
// them.
var (
	ErrUnknownRole = fmt.Errorf("%w: unknown role name", httpx.ErrUnprocessable)

	ErrActorNotFound  = fmt.Errorf("%w: acting github_id has no role", httpx.ErrNotFound)
	ErrTargetNotFound = fmt.Errorf("%w: target github_id has no role", httpx.ErrNotFound)

	ErrDuplicateTarget = fmt.Errorf("%w: target github_id already has a role", httpx.ErrDuplicate)

	ErrCreateForbidden = fmt.Errorf("%w: cannot create a role equal to or higher than your own", httpx.ErrForbidden)
	ErrUpdateForbidden = fmt.Errorf("%w: cannot update a role already equal to or higher than yours, or grant a role equal to or higher than yours", httpx.ErrForbidden)

	ErrSelfAssignmentDisabled = fmt.Errorf("%w: role self-assignment has been disabled", httpx.ErrForbidden)
)

// ParseRoleName validates a role string against the registry.
func ParseRoleName(s string) (RoleName, error) {
	name := RoleName(s)
	if _, ok := rankTable[name]; !ok {
		return "", ErrUnknownRole
	}
	return name, nil
}

// Rank returns the position of the role in the total order. Higher rank
// means more privilege.
func (r RoleName) Rank() (int, error) {
	rank, ok := rankTable[r]
	if !ok {
		return 0, ErrUnknownRole
	}
	return rank, nil
}

// Valid reports whether the role name is recognised.
func (r RoleName) Valid() bool {
	_, ok := rankTable[r]
	return ok
}

// RoleNames lists the recognised roles in ascending rank order.
func RoleNames() []RoleName {
	return []RoleName{RoleStudent, RoleMentor, RoleAdmin, RoleSuperadmin}
}

// Role ties a GitHub identity to a role. At most one record exists per
// GithubID; the identity is immutable once the record exists.
type Role struct {
	ID        int64
	GithubID  int64
	Role      RoleName
	CreatedAt time.Time
	UpdatedAt time.Time
}
