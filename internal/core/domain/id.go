package domain

import "github.com/google/uuid"

// NewID returns a time-ordered opaque identifier (UUIDv7).
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
