package models

import "time"

// User represents a field-agent account used for device authentication
// against the remote store. Credential fields are derived values, never
// plaintext.
type User struct {
	// UserID is the internal unique identifier, used only at the
	// persistence layer.
	UserID int64 `json:"-"`

	// Login is the unique account identifier used during
	// authentication.
	Login string `json:"login"`

	// Name is the display name; non-sensitive.
	Name string `json:"name"`

	// PasswordHash stores the HMAC-SHA256 of the account password.
	PasswordHash string `json:"password_hash"`

	CreatedAt time.Time `json:"created_at"`
}

func (u User) TableName() string {
	return "users"
}
