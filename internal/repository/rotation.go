package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/avoronov/gotwis/internal/models"
	"github.com/avoronov/gotwis/internal/store"
)

// RotateSecret atomically replaces an account's current session secret.
// Within one MULTI it writes the new secret to the profile, binds the new
// secret in the auths index, and deletes the old entry, so at every instant
// exactly one secret resolves for the account. When newPassword is non-empty
// the stored password is swapped in the same unit.
//
// The profile key is watched and the current secret is re-read under the
// watch. Two rotations racing on the same account therefore cannot
// interleave: the loser either gets models.ErrConflict (watch fired) or
// models.ErrSecretRotated (the winner already committed).
func (r *RedisIdentityRepository) RotateSecret(ctx context.Context, id int64, oldSecret, newSecret, newPassword string) error {
	key := profileKey(id)

	err := r.Store.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, key, fieldAuth).Result()
		if errors.Is(err, redis.Nil) {
			return models.ErrUnauthorized
		}
		if err != nil {
			return fmt.Errorf("read current secret: %w", err)
		}
		if current != oldSecret {
			return models.ErrSecretRotated
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fieldAuth, newSecret)
			if newPassword != "" {
				pipe.HSet(ctx, key, fieldPassword, newPassword)
			}
			pipe.HSet(ctx, authsKey, newSecret, id)
			pipe.HDel(ctx, authsKey, oldSecret)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, store.ErrTxConflict) {
		return models.ErrConflict
	}
	return err
}
