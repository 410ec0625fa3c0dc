// Package id provides UUIDv7 generation for all platform entities.
// UUIDv7 is time-ordered, allowing natural sorting by creation time.
package id

import (
	"github.com/google/uuid"
)

// ID is a type alias for UUID, used across all entities.
type ID = uuid.UUID

// New generates a new UUIDv7 (time-ordered UUID).
// Falls back to UUIDv4 if the system clock is unavailable.
func New() ID {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v7
}

// Nil is the zero-value ID.
var Nil = uuid.Nil

// IsNil reports whether the ID is the zero value.
func IsNil(v ID) bool {
	return v == uuid.Nil
}

// Parse parses an ID from its string form.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse parses an ID or panics. Use only for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}
