package models

import (
	"errors"
	"time"
)

// Role represents an account's permission level
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEngineer Role = "engineer"
	RoleViewer   Role = "viewer"
)

// AccountStatus represents an account's lifecycle state
type AccountStatus string

const (
	AccountStatusPending  AccountStatus = "pending"  // Registered, awaiting activation
	AccountStatusActive   AccountStatus = "active"   // May log in
	AccountStatusInactive AccountStatus = "inactive" // Disabled by an admin
)

// Account represents a registered user of the inspection system.
// PasswordHash is a bcrypt hash; the plaintext is never stored.
type Account struct {
	ID           string        `json:"id"`
	Username     string        `json:"username"`
	FullName     string        `json:"full_name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone,omitempty"`
	PasswordHash string        `json:"password_hash"`
	Role         Role          `json:"role"`
	Status       AccountStatus `json:"status"`
	Department   string        `json:"department,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Session is the result of a successful login, consumed by the
// presentation layer. LastLogin is the previous login time for the
// account, nil on first login.
type Session struct {
	Account   Account    `json:"account"`
	Token     string     `json:"token"`
	LoginTime time.Time  `json:"login_time"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountPending     = errors.New("account is awaiting activation")
	ErrAccountInactive    = errors.New("account has been deactivated")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// ValidateRole checks if the role is valid
func ValidateRole(role Role) error {
	switch role {
	case RoleAdmin, RoleEngineer, RoleViewer:
		return nil
	default:
		return errors.New("invalid role")
	}
}

// Sanitized returns a copy of the account with the password hash cleared,
// safe to hand to the presentation layer
func (a Account) Sanitized() Account {
	a.PasswordHash = ""
	return a
}
