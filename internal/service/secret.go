package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// secretBytes is the entropy of a session secret. 32 bytes hex-encode to the
// 64-character tokens existing deployments already store.
const secretBytes = 32

// NewSecret returns a fresh cryptographically random session secret.
func NewSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
