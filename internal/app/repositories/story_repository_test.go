package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/testutil"
)

func TestStoryRepository(t *testing.T) {
	database := testutil.NewDB(t)
	repo := repositories.NewStoryRepository(database)
	ctx := context.Background()
	author := testutil.CreateUser(t, database, testutil.Approved(), testutil.WithName("Sam", "Writer"))
	now := db.Now()

	first := &models.Story{UserID: author.ID, Title: "First", Content: "One", CreatedAt: now.Add(-time.Hour)}
	second := &models.Story{UserID: author.ID, Title: "Second", Content: "Two", CreatedAt: now}
	for _, s := range []*models.Story{first, second} {
		_, err := repo.Create(ctx, s)
		require.NoError(t, err)
	}

	published, err := repo.ListByPublished(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, published)

	// an unpublished story can be featured but must not show up in featured listings
	featured, err := repo.ToggleFeature(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, featured)
	list, err := repo.ListFeatured(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, repo.Publish(ctx, first.ID))
	require.NoError(t, repo.Publish(ctx, second.ID))

	published, err = repo.ListByPublished(ctx, true)
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.Equal(t, "Second", published[0].Title)
	assert.Equal(t, "Sam Writer", published[0].AuthorName)

	list, err = repo.ListFeatured(ctx, 3)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	featured, err = repo.ToggleFeature(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, featured)

	_, err = repo.ToggleFeature(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrStoryNotFound)
	assert.ErrorIs(t, repo.Publish(ctx, 999), apperrors.ErrStoryNotFound)
	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrStoryNotFound)
}
