// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Accounts come from two places: the /register endpoint (username + email +
// password) and Google OAuth (email only, no password). That second path is
// why PasswordHash can be empty.
//
// WHY PasswordHash string (not *string)?
// The database column is nullable, but in Go an empty string is a perfectly
// good "no password set" zero value — simpler to work with than a pointer,
// and it can never be accidentally dereferenced. The repository maps NULL ↔ "".
//
// PasswordHash is tagged `json:"-"` so it can never leak into a response body,
// no matter how carelessly a handler encodes the struct.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"` // optional display name (may be empty)
	Email        string    `json:"email"     db:"email"`    // unique, required
	PasswordHash string    `json:"-"         db:"password_hash"` // bcrypt hash; empty for Google-only accounts
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// HasPassword reports whether password login is possible for this account.
// Google-only accounts return false and must use the OAuth flow instead.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
