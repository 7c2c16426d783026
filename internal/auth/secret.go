package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// DefaultSecretLength is the byte length of generated signing secrets (256 bits)
const DefaultSecretLength = 32

// ErrSecretGeneration is returned when a signing secret cannot be generated
var ErrSecretGeneration = errors.New("failed to generate secret")

// GenerateSecret returns a random, URL-safe signing secret of length bytes,
// suitable for AUTH_JWT_SECRET.
func GenerateSecret(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("%w: length must be positive", ErrSecretGeneration)
	}

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSecretGeneration, err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
