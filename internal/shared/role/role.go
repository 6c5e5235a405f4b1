// Package role defines the closed, ordered role set shared by every module
// and the guard that enforces a minimum role on authenticated calls.
package role

// Role is a closed, ordered set of user roles.
//
// Ordering is defined by an explicit rank table rather than declaration
// order, so adding a role is a conscious decision about where it sits.
type Role string

const (
	Unknown Role = ""
	User    Role = "USER"
	Admin   Role = "ADMIN"
)

// rank is the authority on role ordering. Higher rank means more privilege.
// Unknown roles are absent and rank as zero.
var rank = map[Role]int{
	User:  1,
	Admin: 2,
}

// FromString parses a role name. Unrecognized names yield Unknown.
func FromString(s string) Role {
	switch s {
	case User.String():
		return User
	case Admin.String():
		return Admin
	default:
		return Unknown
	}
}

// String returns the role name.
func (r Role) String() string {
	return string(r)
}

// Known reports whether the role is part of the closed set.
func (r Role) Known() bool {
	_, ok := rank[r]
	return ok
}

// Rank returns the privilege rank of the role; zero for unknown roles.
func (r Role) Rank() int {
	return rank[r]
}

// AtLeast reports whether the role has at least the privilege of min.
// An unknown role is never sufficient.
func (r Role) AtLeast(min Role) bool {
	if !r.Known() {
		return false
	}
	return rank[r] >= rank[min]
}
