package domain

import "github.com/google/uuid"

// NewID returns a new time-ordered identifier.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
