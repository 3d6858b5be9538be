package models

import "errors"

// Errors returned across the identity service boundary. Callers are expected
// to match them with errors.Is.
var (
	// ErrUsernameTaken is returned by registration when the username is
	// already bound to an account.
	ErrUsernameTaken = errors.New("identity: username already exists")

	// ErrUserNotFound is returned when a username has no account.
	ErrUserNotFound = errors.New("identity: user not found")

	// ErrUnauthorized covers bad passwords and invalid or superseded
	// session secrets.
	ErrUnauthorized = errors.New("identity: unauthorized")

	// ErrIncorrectOldPassword is returned by a password change when the
	// supplied old password does not match the stored one.
	ErrIncorrectOldPassword = errors.New("identity: incorrect old password")

	// ErrConflict is returned when an optimistic transaction keeps losing
	// against concurrent writers and the retry budget runs out.
	ErrConflict = errors.New("identity: too many concurrent updates")

	// ErrSecretRotated is returned by a rotation attempt when the account's
	// current secret no longer matches the one presented.
	ErrSecretRotated = errors.New("identity: secret already rotated")

	// ErrNotImplemented is returned by the feed stubs.
	ErrNotImplemented = errors.New("identity: not implemented")
)
