// Package service implements the identity and session business logic:
// registration with global username uniqueness, credential verification, and
// session-secret issuance and rotation. Persistence is delegated to an
// IdentityRepository; this package owns the retry and rotation protocols
// that keep the username index, the user profiles, and the secret reverse
// index mutually consistent.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/avoronov/gotwis/internal/metrics"
	"github.com/avoronov/gotwis/internal/models"
)

const (
	// defaultMaxRetries bounds optimistic transaction retries so heavy
	// contention surfaces models.ErrConflict instead of livelocking.
	defaultMaxRetries = 8
	// defaultBackoffBase is the first retry delay; subsequent delays grow
	// exponentially with ±50% jitter.
	defaultBackoffBase = 5 * time.Millisecond
)

// IdentityRepository defines the persistence operations required by the
// identity service.
type IdentityRepository interface {
	// ClaimUsername performs one optimistic attempt to bind the username to
	// a freshly allocated id. Returns models.ErrUsernameTaken if the name is
	// in use and models.ErrConflict if the attempt lost an optimistic race.
	ClaimUsername(ctx context.Context, username string) (int64, error)
	// CreateAccount atomically writes the profile and the secret index entry.
	CreateAccount(ctx context.Context, id int64, username, password, secret string) error
	// LookupID resolves a username to its user id.
	LookupID(ctx context.Context, username string) (int64, error)
	// GetProfile reads the stored profile for the id.
	GetProfile(ctx context.Context, id int64) (models.Profile, error)
	// ResolveSecret maps a session secret to a user id via the reverse index.
	ResolveSecret(ctx context.Context, secret string) (int64, error)
	// RotateSecret atomically replaces the account's current secret, and the
	// stored password when newPassword is non-empty. Returns
	// models.ErrSecretRotated if oldSecret is no longer current and
	// models.ErrConflict if the attempt lost an optimistic race.
	RotateSecret(ctx context.Context, id int64, oldSecret, newSecret, newPassword string) error
	// DeleteAuthEntry removes a stale reverse-index entry.
	DeleteAuthEntry(ctx context.Context, secret string) error
}

// Identity implements the public identity operations by composing an
// IdentityRepository with a CredentialVerifier.
type Identity struct {
	repo        IdentityRepository
	verifier    CredentialVerifier
	log         *zap.Logger
	maxRetries  uint64
	backoffBase time.Duration
	newSecret   func() (string, error)
}

// IdentityOption customizes an Identity service.
type IdentityOption func(*Identity)

// WithRetryPolicy overrides the retry budget and base backoff delay used
// for optimistic transactions.
func WithRetryPolicy(maxRetries uint64, base time.Duration) IdentityOption {
	return func(s *Identity) {
		s.maxRetries = maxRetries
		s.backoffBase = base
	}
}

// WithSecretSource overrides session-secret generation. Intended for tests.
func WithSecretSource(fn func() (string, error)) IdentityOption {
	return func(s *Identity) {
		s.newSecret = fn
	}
}

// NewIdentity constructs an Identity service using the provided repository,
// credential verifier, and logger.
func NewIdentity(repo IdentityRepository, verifier CredentialVerifier, log *zap.Logger, opts ...IdentityOption) *Identity {
	s := &Identity{
		repo:        repo,
		verifier:    verifier,
		log:         log,
		maxRetries:  defaultMaxRetries,
		backoffBase: defaultBackoffBase,
		newSecret:   NewSecret,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a new account and returns its id together with the first
// session secret. Returns models.ErrUsernameTaken if the username is bound
// to an existing account and models.ErrConflict if the retry budget runs out
// under contention.
func (s *Identity) Register(ctx context.Context, username, password string) (int64, string, error) {
	stored, err := s.verifier.Hash(password)
	if err != nil {
		return 0, "", fmt.Errorf("hash password: %w", err)
	}

	var id int64
	err = retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		claimed, err := s.repo.ClaimUsername(ctx, username)
		if errors.Is(err, models.ErrConflict) {
			metrics.IncRegisterConflict()
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		id = claimed
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrUsernameTaken) || errors.Is(err, models.ErrConflict) {
			return 0, "", err
		}
		return 0, "", fmt.Errorf("claim username: %w", err)
	}

	secret, err := s.newSecret()
	if err != nil {
		return 0, "", err
	}
	if err := s.repo.CreateAccount(ctx, id, username, stored, secret); err != nil {
		return 0, "", err
	}
	return id, secret, nil
}

// Login verifies the credentials and returns the account's current session
// secret. Login does not rotate the secret, so concurrent sessions for the
// same account share one secret value. Failures cause no state mutation.
func (s *Identity) Login(ctx context.Context, username, password string) (string, error) {
	id, err := s.repo.LookupID(ctx, username)
	if err != nil {
		return "", err
	}

	profile, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.verifier.Compare(profile.Password, password); err != nil {
		return "", models.ErrUnauthorized
	}
	return profile.AuthSecret, nil
}

// ValidateSession resolves a session secret to a user id. The reverse-index
// hit is double-checked against the profile's current secret so a stale
// index entry never authenticates.
func (s *Identity) ValidateSession(ctx context.Context, secret string) (int64, bool, error) {
	profile, err := s.sessionProfile(ctx, secret)
	if errors.Is(err, models.ErrUnauthorized) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return profile.ID, true, nil
}

// Logout rotates the account's session secret, invalidating the presented
// one, and returns the account's username. Returns models.ErrUnauthorized if
// the secret is not currently valid.
func (s *Identity) Logout(ctx context.Context, secret string) (string, error) {
	profile, err := s.sessionProfile(ctx, secret)
	if err != nil {
		return "", err
	}

	fresh, err := s.newSecret()
	if err != nil {
		return "", err
	}
	if err := s.rotate(ctx, profile.ID, secret, fresh, ""); err != nil {
		return "", err
	}
	return profile.Username, nil
}

// ChangePassword verifies the session and the old password, then atomically
// swaps the stored password and rotates the session secret. The new secret
// is returned; the presented one is invalid afterwards.
func (s *Identity) ChangePassword(ctx context.Context, secret, oldPassword, newPassword string) (string, error) {
	profile, err := s.sessionProfile(ctx, secret)
	if err != nil {
		return "", err
	}
	if err := s.verifier.Compare(profile.Password, oldPassword); err != nil {
		return "", models.ErrIncorrectOldPassword
	}

	stored, err := s.verifier.Hash(newPassword)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	fresh, err := s.newSecret()
	if err != nil {
		return "", err
	}
	if err := s.rotate(ctx, profile.ID, secret, fresh, stored); err != nil {
		return "", err
	}
	return fresh, nil
}

// sessionProfile authenticates a session secret and returns the owning
// profile. A reverse-index entry whose profile secret no longer matches is
// deleted lazily, best effort.
func (s *Identity) sessionProfile(ctx context.Context, secret string) (models.Profile, error) {
	if secret == "" {
		return models.Profile{}, models.ErrUnauthorized
	}

	id, err := s.repo.ResolveSecret(ctx, secret)
	if err != nil {
		return models.Profile{}, err
	}

	profile, err := s.repo.GetProfile(ctx, id)
	if errors.Is(err, models.ErrUserNotFound) {
		// Orphaned index entry from an interrupted registration.
		return models.Profile{}, models.ErrUnauthorized
	}
	if err != nil {
		return models.Profile{}, err
	}

	if profile.AuthSecret != secret {
		if derr := s.repo.DeleteAuthEntry(ctx, secret); derr != nil {
			s.log.Debug("stale auth entry cleanup failed", zap.Error(derr))
		}
		return models.Profile{}, models.ErrUnauthorized
	}
	return profile, nil
}

// rotate runs the watched rotation with the bounded retry policy. A rotation
// superseded by a concurrent one reports models.ErrUnauthorized: the secret
// the caller presented is no longer current.
func (s *Identity) rotate(ctx context.Context, id int64, oldSecret, newSecret, newPassword string) error {
	err := retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		err := s.repo.RotateSecret(ctx, id, oldSecret, newSecret, newPassword)
		if errors.Is(err, models.ErrConflict) {
			metrics.IncRotationConflict()
			return retry.RetryableError(err)
		}
		return err
	})
	if errors.Is(err, models.ErrSecretRotated) {
		return models.ErrUnauthorized
	}
	return err
}

// backoff builds the shared retry schedule: exponential with jitter, capped
// at maxRetries attempts.
func (s *Identity) backoff() retry.Backoff {
	return retry.WithMaxRetries(s.maxRetries,
		retry.WithJitterPercent(50, retry.NewExponential(s.backoffBase)))
}
