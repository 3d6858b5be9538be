// Package store manages the connection to the Redis key-value store and
// exposes the two transaction primitives the identity core is built on:
// watched optimistic transactions and plain atomic multi-writes.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrTxConflict reports that a watched key was modified by another writer
// before the transaction committed. The attempt is retryable.
var ErrTxConflict = errors.New("store: optimistic transaction conflict")

// Config holds the connection parameters for the store.
type Config struct {
	// Addr is the host:port of the Redis server.
	Addr string
	// Password is the optional server password.
	Password string
	// DB selects the logical database.
	DB int
}

// Store wraps a Redis client.
type Store struct {
	rdb *redis.Client
}

// Open connects to the store and verifies liveness with a ping. A failed
// ping is returned as an error so callers can abort startup instead of
// running against a dead store.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}

	return &Store{rdb: rdb}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// Client exposes the raw Redis client for plain reads.
func (s *Store) Client() *redis.Client {
	return s.rdb
}

// Watch runs fn inside an optimistic transaction that watches the given
// keys. Immediate commands issued on the transaction execute right away;
// writes staged through tx.TxPipelined commit only if no watched key was
// modified since the watch began. A lost race is reported as ErrTxConflict.
func (s *Store) Watch(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	err := s.rdb.Watch(ctx, fn, keys...)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrTxConflict
	}
	return err
}

// Atomic commits the writes staged by fn as a single MULTI/EXEC unit
// without watching any keys.
func (s *Store) Atomic(ctx context.Context, fn func(pipe redis.Pipeliner) error) error {
	_, err := s.rdb.TxPipelined(ctx, fn)
	return err
}
