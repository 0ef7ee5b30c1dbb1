package uuid

import (
	"github.com/google/uuid"
)

// UUID represents a UUID
type UUID = uuid.UUID

// Nil is the zero UUID
var Nil = uuid.Nil

// New returns a new random (version 7) UUID
func New() UUID {
	uuidv7, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return uuidv7
}

// NewString returns a new UUIDv7 in string form
func NewString() string {
	return New().String()
}

// Parse parses a UUID string
func Parse(s string) (UUID, error) {
	return uuid.Parse(s)
}

// IsValid reports whether s parses as a UUID
func IsValid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
