package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a random UUID used as a record identifier
func GenerateID() string {
	return uuid.NewString()
}
