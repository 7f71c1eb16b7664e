package domain

import "regexp"

// Role enumerates the three dashboard roles.
type Role string

const (
	RoleEndUser Role = "enduser"
	RoleSupport Role = "support"
	RoleVendor  Role = "vendor"
)

// userIDPatterns maps each role to the ID format it requires.
var userIDPatterns = map[Role]*regexp.Regexp{
	RoleEndUser: regexp.MustCompile(`^Cust\d{4}$`),
	RoleSupport: regexp.MustCompile(`^Emp\d{3}$`),
	RoleVendor:  regexp.MustCompile(`^Ven\d{4}$`),
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	_, ok := userIDPatterns[r]
	return ok
}

// MatchesUserID reports whether id conforms to the role's ID pattern.
func (r Role) MatchesUserID(id string) bool {
	pattern, ok := userIDPatterns[r]
	if !ok {
		return false
	}
	return pattern.MatchString(id)
}

// User models anyone who can sign in: end users who raise tickets, support
// agents, and vendor operators. Role is fixed at registration.
type User struct {
	UserID       string `json:"userId"`
	PasswordHash string `json:"passwordHash"`
	Role         Role   `json:"role"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
}
