package domain

import "strings"

// Role classifies a user
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleDoctor  Role = "DOCTOR"
	RolePatient Role = "PATIENT"
)

// Roles lists every valid role
var Roles = []Role{RoleAdmin, RoleDoctor, RolePatient}

// ParseRole maps a free-form role string onto a Role, ignoring case and
// surrounding whitespace.
func ParseRole(s string) (Role, error) {
	candidate := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, r := range Roles {
		if r == candidate {
			return r, nil
		}
	}
	return "", InvalidArgumentf("Invalid role: %s. Allowed values are ADMIN, DOCTOR, PATIENT", s)
}

// String implements fmt.Stringer
func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the fixed roles
func (r Role) Valid() bool {
	for _, v := range Roles {
		if v == r {
			return true
		}
	}
	return false
}
