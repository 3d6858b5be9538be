package service

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier abstracts how passwords are stored and compared, so the
// storage scheme can evolve without changing the service contract.
type CredentialVerifier interface {
	// Hash converts a plaintext password into its stored form.
	Hash(password string) (string, error)
	// Compare checks a plaintext password against the stored form.
	Compare(stored, supplied string) error
}

// ErrCredentialMismatch is returned by Compare implementations when the
// supplied password does not match the stored one.
var ErrCredentialMismatch = errors.New("identity: credential mismatch")

// BcryptVerifier stores passwords as bcrypt hashes. This is the default.
type BcryptVerifier struct {
	// Cost is the bcrypt work factor; zero means bcrypt.DefaultCost.
	Cost int
}

// Hash returns the bcrypt hash of the password.
func (v BcryptVerifier) Hash(password string) (string, error) {
	cost := v.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hash), nil
}

// Compare checks the password against the stored bcrypt hash.
func (v BcryptVerifier) Compare(stored, supplied string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)); err != nil {
		return ErrCredentialMismatch
	}
	return nil
}

// PlaintextVerifier stores passwords verbatim, matching data written by
// legacy deployments that predate hashing.
//
// INSECURE: anyone with read access to the store can read every credential.
// Keep it only while migrating old datasets; new deployments must use
// BcryptVerifier.
type PlaintextVerifier struct{}

// Hash returns the password unchanged.
func (PlaintextVerifier) Hash(password string) (string, error) {
	return password, nil
}

// Compare performs a constant-time equality check.
func (PlaintextVerifier) Compare(stored, supplied string) error {
	if subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) != 1 {
		return ErrCredentialMismatch
	}
	return nil
}

// NewVerifier maps a configured scheme name to a verifier.
func NewVerifier(scheme string) (CredentialVerifier, error) {
	switch scheme {
	case "", "bcrypt":
		return BcryptVerifier{}, nil
	case "plaintext":
		return PlaintextVerifier{}, nil
	default:
		return nil, fmt.Errorf("unknown credential scheme %q", scheme)
	}
}
