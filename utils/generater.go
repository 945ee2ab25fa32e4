package utils

import "github.com/google/uuid"

// GenerateID returns a new random appointment id.
func GenerateID() string {
	return uuid.NewString()
}
