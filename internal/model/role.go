package model

// Role is the access tag attached to a dashboard session.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// AllRoles lists every known role in declaration order.
var AllRoles = []Role{RoleAdmin, RoleDoctor, RolePatient}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// ParseRole converts a raw string into a Role. Unknown values yield ("", false).
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	if !r.Valid() {
		return "", false
	}
	return r, true
}

func (r Role) String() string {
	return string(r)
}
