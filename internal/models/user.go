package models

import (
	"fmt"
	"strings"
)

// User is a local account. The password is stored as a bcrypt hash only.
type User struct {
	entity
	email        string
	passwordHash string
}

// NewUser creates a [User] with the given sequence, email and password hash.
func NewUser(sequence int, email, passwordHash string) *User {
	return &User{entity: newEntity(sequence), email: strings.TrimSpace(strings.ToLower(email)), passwordHash: passwordHash}
}

func (u *User) Email() string            { return u.email }
func (u *User) PasswordHash() string     { return u.passwordHash }
func (u *User) SetPasswordHash(h string) { u.passwordHash = h }

// Validate checks that the user has an id, a plausible email and a password hash.
func (u *User) Validate() error {
	if u.id == "" {
		return fmt.Errorf("user id is required")
	}
	if !strings.Contains(u.email, "@") {
		return fmt.Errorf("invalid email: %q", u.email)
	}
	if u.passwordHash == "" {
		return fmt.Errorf("password hash is required")
	}
	return nil
}
