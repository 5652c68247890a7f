package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qazuor/hospeda-sub009/internal/auth"
	"github.com/qazuor/hospeda-sub009/internal/shared"
)

func newTokenStore(t *testing.T, ttl time.Duration) (*auth.TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return auth.NewTokenStore(client, ttl), mr
}

func TestTokenIssueResolveRoundtrip(t *testing.T) {
	store, _ := newTokenStore(t, time.Hour)
	actor := shared.Actor{ID: uuid.New(), Role: shared.RoleEditor, Permissions: []string{shared.PermEventCreate}}

	token, err := store.Issue(context.Background(), actor)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := store.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, actor.ID, got.ID)
	assert.Equal(t, actor.Role, got.Role)
	assert.Equal(t, actor.Permissions, got.Permissions)
}

func TestTokenResolveSlidesExpiry(t *testing.T) {
	store, mr := newTokenStore(t, time.Hour)

	token, err := store.Issue(context.Background(), shared.Actor{ID: uuid.New(), Role: shared.RoleUser})
	require.NoError(t, err)

	// Burn half the lifetime, then touch the token; the full TTL comes back.
	mr.FastForward(30 * time.Minute)
	_, err = store.Resolve(context.Background(), token)
	require.NoError(t, err)

	mr.FastForward(45 * time.Minute)
	_, err = store.Resolve(context.Background(), token)
	assert.NoError(t, err, "resolving must refresh the token lifetime")
}

func TestTokenExpires(t *testing.T) {
	store, mr := newTokenStore(t, time.Minute)

	token, err := store.Issue(context.Background(), shared.Actor{ID: uuid.New(), Role: shared.RoleUser})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = store.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrTokenNotFound)
}

func TestTokenRevoke(t *testing.T) {
	store, _ := newTokenStore(t, time.Hour)

	token, err := store.Issue(context.Background(), shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin})
	require.NoError(t, err)
	require.NoError(t, store.Revoke(context.Background(), token))

	_, err = store.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrTokenNotFound)

	// Revoking an unknown token is a no-op.
	assert.NoError(t, store.Revoke(context.Background(), "missing"))
}

func TestResolveUnknownToken(t *testing.T) {
	store, _ := newTokenStore(t, time.Hour)

	_, err := store.Resolve(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, auth.ErrTokenNotFound)
}
