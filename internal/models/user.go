package models

import "time"

// User is a registered account. Transactions and snapshots are owned
// exclusively by one user; all queries are scoped by UserID.
type User struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Sanitized returns a copy safe for API responses.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
