// Package repository provides the Redis persistence layer for the identity
// service. It owns the persisted key schema:
//
//	next_user_id        scalar   id counter
//	users               hash     username -> user id
//	auths               hash     session secret -> user id
//	user:<id>           hash     fields username, password, auth
//
// The key shapes are kept byte-compatible with existing deployments.
package repository

import (
	"fmt"

	"github.com/avoronov/gotwis/internal/store"
)

const (
	nextUserIDKey = "next_user_id"
	usersKey      = "users"
	authsKey      = "auths"

	fieldUsername = "username"
	fieldPassword = "password"
	fieldAuth     = "auth"
)

// profileKey returns the per-user hash key.
func profileKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

// RedisIdentityRepository implements the identity persistence operations
// on top of the Redis store.
type RedisIdentityRepository struct {
	// Store is the connected key-value store.
	Store *store.Store
}

// NewRedisIdentityRepository creates a new RedisIdentityRepository with the
// given store connection.
func NewRedisIdentityRepository(s *store.Store) *RedisIdentityRepository {
	return &RedisIdentityRepository{Store: s}
}
