// Package repository holds the MySQL data access layer. Repositories speak
// plain database/sql; methods suffixed with Tx run inside a caller-owned
// transaction.
//
// The sentinel values below let higher layers distinguish failure modes.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a row addressed by id, slug or key does not
// exist. Services translate it into a typed not-found error.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as a customer reading someone else's
// booking.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write violates a unique key, for example
// a package slug that is already taken.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when registering an address already in use.
var ErrEmailExists = errors.New("email already exists")

// isDuplicate reports MySQL error 1062 (duplicate entry).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
