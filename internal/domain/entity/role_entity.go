package entity

import "strings"

// Role is the closed set of authorization roles.
type Role string

const (
	RoleAnonymous     Role = "ANONYMOUS"
	RoleAuthenticated Role = "AUTHENTICATED"
	RoleManager       Role = "MANAGER"
	RoleAdmin         Role = "ADMIN"
)

var roles = map[Role]struct{}{
	RoleAnonymous:     {},
	RoleAuthenticated: {},
	RoleManager:       {},
	RoleAdmin:         {},
}

// ParseRole maps a submitted role string onto the enumeration.
// Unknown values are reported with ok=false; callers must not default them.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := roles[r]
	return r, ok
}

// Valid reports whether r belongs to the enumeration.
func (r Role) Valid() bool {
	_, ok := roles[r]
	return ok
}

// Elevated reports whether r grants more than self-service access.
func (r Role) Elevated() bool {
	return r == RoleManager || r == RoleAdmin
}

func (r Role) String() string { return string(r) }
