package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/avoronov/gotwis/internal/models"
)

// ResolveSecret maps a session secret to a user id through the auths reverse
// index. Returns models.ErrUnauthorized if the secret is unknown. Callers
// must still compare the secret against the profile's auth field; an index
// entry alone does not prove the secret is current.
func (r *RedisIdentityRepository) ResolveSecret(ctx context.Context, secret string) (int64, error) {
	raw, err := r.Store.Client().HGet(ctx, authsKey, secret).Result()
	if errors.Is(err, redis.Nil) {
		return 0, models.ErrUnauthorized
	}
	if err != nil {
		return 0, fmt.Errorf("resolve secret: %w", err)
	}
	return parseID(raw)
}

// DeleteAuthEntry removes a reverse-index entry. Used to lazily clean up
// entries left behind by interrupted registrations or by data written before
// rotation became atomic.
func (r *RedisIdentityRepository) DeleteAuthEntry(ctx context.Context, secret string) error {
	if err := r.Store.Client().HDel(ctx, authsKey, secret).Err(); err != nil {
		return fmt.Errorf("delete auth entry: %w", err)
	}
	return nil
}
