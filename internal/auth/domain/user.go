package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user already exists")
	ErrSessionNotFound    = errors.New("session not found")
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User is the authenticated account an order belongs to.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether u may use the back-office.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session binds a bearer token to a user.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
