package constants

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"strings"
)

// Role mirrors the Postgres ENUM 'pilot_role'
type Role string

const (
	RolePireps Role = "pireps"
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
)

// AllRoles is the closed set of capabilities a pilot can hold.
var AllRoles = []Role{RolePireps, RoleAdmin, RoleOwner}

// Stringer ­– convenient for fmt / logs
func (r Role) String() string { return string(r) }

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole normalises a raw role string. Unknown roles are rejected.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", fmt.Errorf("unknown role: %q", raw)
	}
	return role, nil
}

/* ---------- DB adapters so sqlx (or database/sql) scans/values cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		return fmt.Errorf("Role: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) { return string(r), nil }

// RoleSet is an unordered set of roles.
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from the given roles, ignoring unknown values.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		if r.Valid() {
			set[r] = struct{}{}
		}
	}
	return set
}

// ParseRoleSet builds a set from raw strings, skipping anything that is not a known role.
func ParseRoleSet(raw []string) RoleSet {
	set := make(RoleSet, len(raw))
	for _, s := range raw {
		if role, err := ParseRole(s); err == nil {
			set[role] = struct{}{}
		}
	}
	return set
}

func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// Slice returns the roles sorted by name.
func (s RoleSet) Slice() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PrivilegedRoles may review and edit any PIREP.
var PrivilegedRoles = NewRoleSet(RolePireps, RoleAdmin, RoleOwner)

// HasRequiredRole reports whether the actor holds at least one of the required roles.
// An empty requirement is always satisfied.
func HasRequiredRole(actorRoles RoleSet, required RoleSet) bool {
	if len(required) == 0 {
		return true
	}
	for r := range required {
		if actorRoles.Has(r) {
			return true
		}
	}
	return false
}
