package service

import (
	"context"
	"testing"
	"time"

	"github.com/Lawrence9908/ecommerce-backend-api/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndVerifyAccess(t *testing.T) {
	tokens := NewTokenService(cache.NewMemoryClient(), testTokenConfig)

	pair, err := tokens.Issue("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	userID, err := tokens.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	// The refresh token is signed with a different secret.
	_, err = tokens.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_VerifyAccessRejectsExpiredAndTampered(t *testing.T) {
	tokens := NewTokenService(cache.NewMemoryClient(), testTokenConfig)

	tokens.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := tokens.IssueAccess("user-1")
	require.NoError(t, err)
	tokens.now = time.Now

	_, err = tokens.VerifyAccess(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	valid, err := tokens.IssueAccess("user-1")
	require.NoError(t, err)
	_, err = tokens.VerifyAccess(valid + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NotErrorIs(t, err, ErrTokenExpired)

	_, err = tokens.VerifyAccess("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RefreshLifecycle(t *testing.T) {
	ctx := context.Background()
	memCache := cache.NewMemoryClient()
	tokens := NewTokenService(memCache, testTokenConfig)

	first, err := tokens.Issue("user-1")
	require.NoError(t, err)

	t.Run("not persisted yet", func(t *testing.T) {
		_, err := tokens.VerifyRefresh(ctx, first.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("persisted with the refresh lifetime", func(t *testing.T) {
		require.NoError(t, tokens.PersistRefresh(ctx, "user-1", first.RefreshToken))

		userID, err := tokens.VerifyRefresh(ctx, first.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)

		ttl := memCache.TTL(cache.RefreshTokenKey("user-1"))
		assert.InDelta(t, testTokenConfig.RefreshTTL.Seconds(), ttl.Seconds(), 5)
	})

	t.Run("a newer session invalidates the older token", func(t *testing.T) {
		second, err := tokens.Issue("user-1")
		require.NoError(t, err)
		require.NoError(t, tokens.PersistRefresh(ctx, "user-1", second.RefreshToken))

		_, err = tokens.VerifyRefresh(ctx, first.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidToken)

		_, err = tokens.VerifyRefresh(ctx, second.RefreshToken)
		assert.NoError(t, err)

		t.Run("revoke ends the session", func(t *testing.T) {
			require.NoError(t, tokens.Revoke(ctx, "user-1"))
			_, err := tokens.VerifyRefresh(ctx, second.RefreshToken)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := tokens.VerifyRefresh(ctx, first.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestTokenService_VerifyRefreshCacheFailure(t *testing.T) {
	tokens := NewTokenService(brokenCache{}, testTokenConfig)
	pair, err := tokens.Issue("user-1")
	require.NoError(t, err)

	_, err = tokens.VerifyRefresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, errCacheDown)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}
