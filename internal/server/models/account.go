// Package models holds server-side data structures shared by repositories
// and services.
package models

import "time"

// Role is the authorization level of an account. Assigned once at creation
// and immutable afterwards.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Account is an identity record. Email is stored lower-cased and is unique
// case-insensitively. PasswordHash is a bcrypt hash, never plaintext.
// Encrypted PANs live in their own table keyed by account id.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
