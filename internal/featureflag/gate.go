// Package featureflag exposes externally configured feature switches.
package featureflag

// Gate reports whether a feature is enabled. It has no write path; values are
// owned by external configuration and read at request time.
type Gate interface {
	RoleSelfAssignmentEnabled() bool
}

// ConfigGate is a Gate backed by a configuration accessor. The accessor is
// consulted on every call so configuration reloads take effect without
// restarting consumers.
type ConfigGate struct {
	lookup func() bool
}

// NewConfigGate builds a gate from a boolean accessor.
func NewConfigGate(lookup func() bool) *ConfigGate {
	return &ConfigGate{lookup: lookup}
}

// RoleSelfAssignmentEnabled reports whether role self-assignment is on.
func (g *ConfigGate) RoleSelfAssignmentEnabled() bool {
	if g == nil || g.lookup == nil {
		return false
	}
	return g.lookup()
}

// StaticGate is a Gate with a fixed value, used in tests and local tooling.
type StaticGate bool

// RoleSelfAssignmentEnabled reports the fixed value.
func (g StaticGate) RoleSelfAssignmentEnabled() bool { return bool(g) }
