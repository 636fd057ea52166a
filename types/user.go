package types

import "time"

// User represents an account in the auth service.
type User struct {
	// ID is the opaque unique identifier of the user, assigned at creation.
	ID string `json:"id" db:"id"`

	// Email is the unique login identifier, stored case-sensitively.
	Email string `json:"email" db:"email"`

	// HashedPassword stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	HashedPassword string `json:"-" db:"hashed_password"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
