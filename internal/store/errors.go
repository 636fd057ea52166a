package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when an insert violates the unique email
// constraint. Uniqueness is enforced by the database, not by a pre-check.
var ErrDuplicateEmail = errors.New("email already exists")
