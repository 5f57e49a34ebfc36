package domain

import "errors"

// Role is the access level carried by a session.
type Role string

const (
	RoleOperator   Role = "OPERATOR"
	RoleSupervisor Role = "SUPERVISOR"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotLoggedIn        = errors.New("not logged in")
)

// User is the identity record persisted alongside the token.
type User struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session is the authenticated state for this terminal: the user record plus
// the opaque bearer token. Token and user are always set and cleared together.
type Session struct {
	User  User
	Token string
}

// LoginForm matches the session/login request body.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupForm matches the users/signup request body.
type SignupForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse is the body returned by a successful login.
type LoginResponse struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Token string `json:"token"`
}
