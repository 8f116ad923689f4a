package crypto

import (
	"github.com/google/uuid"
)

// NewTokenID generates a time-ordered UUID v7 used as a token's jti.
func NewTokenID() string {
	return uuid.Must(uuid.NewV7()).String()
}
