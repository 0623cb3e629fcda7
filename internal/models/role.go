package models

// Role is stored as a plain string on the user document.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

// Roles lists every assignable role, highest privilege first.
var Roles = []Role{RoleAdmin, RoleInstructor, RoleStudent}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleInstructor, RoleStudent:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
