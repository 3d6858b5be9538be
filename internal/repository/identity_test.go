package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/gotwis/internal/models"
	"github.com/avoronov/gotwis/internal/store"
)

func setupRepo(t *testing.T) (*RedisIdentityRepository, *store.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	st, err := store.Open(context.Background(), store.Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return NewRedisIdentityRepository(st), st
}

func TestClaimUsername_AllocatesSequentialIDs(t *testing.T) {
	repo, st := setupRepo(t)
	ctx := context.Background()

	id, err := repo.ClaimUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	id, err = repo.ClaimUsername(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, int64(2), id)

	bound, err := st.Client().HGet(ctx, usersKey, "alice").Result()
	require.NoError(t, err)
	require.Equal(t, "1", bound)

	counter, err := st.Client().Get(ctx, nextUserIDKey).Result()
	require.NoError(t, err)
	require.Equal(t, "2", counter)
}

func TestClaimUsername_Duplicate(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	_, err := repo.ClaimUsername(ctx, "alice")
	require.NoError(t, err)

	_, err = repo.ClaimUsername(ctx, "alice")
	require.ErrorIs(t, err, models.ErrUsernameTaken)
}

func TestCreateAccount_WritesProfileAndIndex(t *testing.T) {
	repo, st := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateAccount(ctx, 1, "alice", "pw1", "s0"))

	profile, err := repo.GetProfile(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, models.Profile{ID: 1, Username: "alice", Password: "pw1", AuthSecret: "s0"}, profile)

	bound, err := st.Client().HGet(ctx, authsKey, "s0").Result()
	require.NoError(t, err)
	require.Equal(t, "1", bound)
}

func TestLookupID(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	_, err := repo.LookupID(ctx, "nobody")
	require.ErrorIs(t, err, models.ErrUserNotFound)

	id, err := repo.ClaimUsername(ctx, "alice")
	require.NoError(t, err)

	got, err := repo.LookupID(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestGetProfile_NotFound(t *testing.T) {
	repo, _ := setupRepo(t)

	_, err := repo.GetProfile(context.Background(), 42)
	require.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestResolveSecret(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	_, err := repo.ResolveSecret(ctx, "unknown")
	require.ErrorIs(t, err, models.ErrUnauthorized)

	require.NoError(t, repo.CreateAccount(ctx, 1, "alice", "pw1", "s0"))

	id, err := repo.ResolveSecret(ctx, "s0")
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
}

func TestRotateSecret_MovesIndexAtomically(t *testing.T) {
	repo, st := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateAccount(ctx, 1, "alice", "pw1", "s0"))
	require.NoError(t, repo.RotateSecret(ctx, 1, "s0", "s1", ""))

	profile, err := repo.GetProfile(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "s1", profile.AuthSecret)
	require.Equal(t, "pw1", profile.Password, "password must be untouched without a new one")

	exists, err := st.Client().HExists(ctx, authsKey, "s0").Result()
	require.NoError(t, err)
	require.False(t, exists, "old secret must be removed from the index")

	id, err := repo.ResolveSecret(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
}

func TestRotateSecret_SwapsPassword(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateAccount(ctx, 1, "alice", "pw1", "s0"))
	require.NoError(t, repo.RotateSecret(ctx, 1, "s0", "s1", "pw2"))

	profile, err := repo.GetProfile(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "pw2", profile.Password)
}

func TestRotateSecret_StaleSecret(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateAccount(ctx, 1, "alice", "pw1", "s0"))
	require.NoError(t, repo.RotateSecret(ctx, 1, "s0", "s1", ""))

	err := repo.RotateSecret(ctx, 1, "s0", "s2", "")
	require.ErrorIs(t, err, models.ErrSecretRotated)
}

func TestRotateSecret_MissingProfile(t *testing.T) {
	repo, _ := setupRepo(t)

	err := repo.RotateSecret(context.Background(), 42, "s0", "s1", "")
	require.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestDeleteAuthEntry(t *testing.T) {
	repo, st := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateAccount(ctx, 1, "alice", "pw1", "s0"))
	require.NoError(t, repo.DeleteAuthEntry(ctx, "s0"))

	exists, err := st.Client().HExists(ctx, authsKey, "s0").Result()
	require.NoError(t, err)
	require.False(t, exists)
}
