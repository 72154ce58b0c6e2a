package models

import "strings"

// Role gates what a logged-in user may do with the roster
type Role string

const (
	RoleView  Role = "ViewAccess"
	RoleEdit  Role = "EditAccess"
	RoleAdmin Role = "AdminAccess"
)

// RoleAll is the filter value selecting every role
const RoleAll = "All"

// ValidRoles defines allowed user roles
var ValidRoles = map[Role]bool{
	RoleView:  true,
	RoleEdit:  true,
	RoleAdmin: true,
}

// roleLabels maps the selector labels shown in the console to roles
var roleLabels = map[string]Role{
	"view access":  RoleView,
	"edit access":  RoleEdit,
	"admin access": RoleAdmin,
	"viewaccess":   RoleView,
	"editaccess":   RoleEdit,
	"adminaccess":  RoleAdmin,
}

// ParseRole accepts canonical role names and their display labels
// ("Admin Access"), case-insensitively.
func ParseRole(s string) (Role, bool) {
	r, ok := roleLabels[strings.ToLower(strings.TrimSpace(s))]
	return r, ok
}

// Label returns the human readable form of the role
func (r Role) Label() string {
	switch r {
	case RoleView:
		return "View Access"
	case RoleEdit:
		return "Edit Access"
	case RoleAdmin:
		return "Admin Access"
	}
	return string(r)
}

// CanEditRoster reports whether the role may add users
func (r Role) CanEditRoster() bool {
	return r == RoleEdit || r == RoleAdmin
}

// User is a roster entry. Password holds a bcrypt hash.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Password string `json:"-"`
}

// UserView is a User with the password elided, used for display
type UserView struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// View returns the display projection of the user
func (u *User) View() UserView {
	return UserView{Username: u.Username, Email: u.Email, Role: u.Role}
}

// NewUser is the input for creating a roster entry
type NewUser struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"omitempty,role"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

// SignUpRequest is the self-service registration form
type SignUpRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

// LoginRequest carries a username or email plus password
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}
