package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/avoronov/gotwis/internal/models"
	"github.com/avoronov/gotwis/internal/store"
)

// ClaimUsername performs one optimistic attempt to bind username to a fresh
// user id. The users hash is watched for the whole attempt, so a concurrent
// registration of any username invalidates the commit and the attempt
// returns models.ErrConflict for the caller to retry.
//
// The id counter is incremented on the watched connection but outside the
// MULTI block: an attempt that later loses the race has already consumed an
// id. Ids are never reused, so the gap is harmless and matches the data
// written by existing deployments.
func (r *RedisIdentityRepository) ClaimUsername(ctx context.Context, username string) (int64, error) {
	var id int64

	err := r.Store.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.HExists(ctx, usersKey, username).Result()
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if exists {
			return models.ErrUsernameTaken
		}

		id, err = tx.Incr(ctx, nextUserIDKey).Result()
		if err != nil {
			return fmt.Errorf("allocate user id: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, usersKey, username, id)
			return nil
		})
		return err
	}, usersKey)

	if errors.Is(err, store.ErrTxConflict) {
		return 0, models.ErrConflict
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// LookupID resolves a username to its user id. Returns models.ErrUserNotFound
// if the username has never been registered.
func (r *RedisIdentityRepository) LookupID(ctx context.Context, username string) (int64, error) {
	raw, err := r.Store.Client().HGet(ctx, usersKey, username).Result()
	if errors.Is(err, redis.Nil) {
		return 0, models.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lookup username: %w", err)
	}
	return parseID(raw)
}
