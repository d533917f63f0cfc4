package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/testutil"
)

func TestTokenRepository_ConsumeIsSingleUse(t *testing.T) {
	database := testutil.NewDB(t)
	repo := repositories.NewTokenRepository(database)
	ctx := context.Background()
	user := testutil.CreateUser(t, database)
	now := db.Now()

	require.NoError(t, repo.CreateToken(ctx, "tok-1", user.ID, now.Add(time.Hour)))

	userID, err := repo.ConsumeToken(ctx, "tok-1", now)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, err = repo.ConsumeToken(ctx, "tok-1", now)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	_, err = repo.ConsumeToken(ctx, "missing", now)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestTokenRepository_ExpiredToken(t *testing.T) {
	database := testutil.NewDB(t)
	repo := repositories.NewTokenRepository(database)
	ctx := context.Background()
	user := testutil.CreateUser(t, database)
	now := db.Now()

	require.NoError(t, repo.CreateToken(ctx, "old", user.ID, now.Add(-time.Minute)))

	_, err := repo.ConsumeToken(ctx, "old", now)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

	deleted, err := repo.CleanupExpiredTokens(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
}

func TestTokenRepository_RevokeAll(t *testing.T) {
	database := testutil.NewDB(t)
	repo := repositories.NewTokenRepository(database)
	ctx := context.Background()
	user := testutil.CreateUser(t, database)
	now := db.Now()

	require.NoError(t, repo.CreateToken(ctx, "a", user.ID, now.Add(time.Hour)))
	require.NoError(t, repo.CreateToken(ctx, "b", user.ID, now.Add(time.Hour)))
	require.NoError(t, repo.RevokeAllUserTokens(ctx, user.ID))

	for _, token := range []string{"a", "b"} {
		stored, err := repo.GetToken(ctx, token)
		require.NoError(t, err)
		assert.True(t, stored.IsRevoked, token)
	}
}
