package core

import (
	"github.com/google/uuid"
)

// ID is the canonical identifier for a calculation run
type ID string

// NewID generates a new unique calculation identifier
func NewID() ID {
	return ID(uuid.New().String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the ID is unset
func (id ID) IsZero() bool {
	return id == ""
}
