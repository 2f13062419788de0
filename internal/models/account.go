package models

import "time"

// Profile is the public face of a [User], keyed by user id with a unique username.
type Profile struct {
	UserID    string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is a signed-in user. Keep marks a "keep me logged in" session with the longer lifetime.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Keep      bool      `json:"keep"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// ResetToken is a single-use password reset link.
type ResetToken struct {
	Token      string
	UserID     string
	RedirectTo string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	UsedAt     *time.Time
}

// Usable reports whether the token is unused and unexpired at now.
func (t ResetToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
