package mixes

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	"github.com/sofiaibarra/blendery-backend/pkg/enums"
)

func setupMixTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS mixes (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  story TEXT,
  image_url TEXT,
  packaging_id TEXT NOT NULL,
  composition TEXT NOT NULL DEFAULT '[]',
  status TEXT NOT NULL DEFAULT 'favorite',
  like_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS mix_likes (
  id TEXT PRIMARY KEY,
  mix_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  created_at DATETIME
);
CREATE UNIQUE INDEX IF NOT EXISTS mix_likes_mix_user_key ON mix_likes(mix_id, user_id);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func seedMix(t *testing.T, repo Repository, userID uuid.UUID, status enums.MixStatus, at time.Time) *models.Mix {
	t.Helper()
	mix := &models.Mix{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        "Mix " + uuid.NewString()[:8],
		PackagingID: uuid.New(),
		Composition: []byte(`[]`),
		Status:      status,
		CreatedAt:   at,
	}
	require.NoError(t, repo.Create(context.Background(), mix))
	return mix
}

func TestRepository_ListPublishedPagination(t *testing.T) {
	db := setupMixTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	owner := uuid.New()
	for i := 0; i < 3; i++ {
		seedMix(t, repo, owner, enums.MixStatusPublished, base.Add(time.Duration(i)*time.Minute))
	}
	seedMix(t, repo, owner, enums.MixStatusFavorite, base.Add(time.Hour))

	rows, next, err := repo.ListPublished(ctx, 2, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, next)
	for _, row := range rows {
		assert.Equal(t, enums.MixStatusPublished, row.Status)
	}
	assert.True(t, rows[0].CreatedAt.After(rows[1].CreatedAt))

	rows, next, err = repo.ListPublished(ctx, 2, next)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, next)
}

func TestRepository_UpdateStatusMissingMix(t *testing.T) {
	db := setupMixTestDB(t)
	repo := NewRepository(db)

	err := repo.UpdateStatus(context.Background(), uuid.New(), enums.MixStatusPublished)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_LikesAndCounter(t *testing.T) {
	db := setupMixTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	mix := seedMix(t, repo, uuid.New(), enums.MixStatusPublished, time.Now().UTC())
	fan := uuid.New()

	require.NoError(t, repo.CreateLike(ctx, &models.MixLike{ID: uuid.New(), MixID: mix.ID, UserID: fan}))
	// The unique key rejects a second like from the same user.
	err := repo.CreateLike(ctx, &models.MixLike{ID: uuid.New(), MixID: mix.ID, UserID: fan})
	assert.Error(t, err)

	require.NoError(t, repo.AdjustLikeCount(ctx, mix.ID, 1))
	row, err := repo.GetByID(ctx, mix.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, row.LikeCount)

	// The counter clamps at zero even when decremented too far.
	require.NoError(t, repo.AdjustLikeCount(ctx, mix.ID, -5))
	row, err = repo.GetByID(ctx, mix.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, row.LikeCount)

	removed, err := repo.DeleteLike(ctx, mix.ID, fan)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeleteLike(ctx, mix.ID, fan)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRepository_ListByUserNewestFirst(t *testing.T) {
	db := setupMixTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	owner := uuid.New()
	base := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

	older := seedMix(t, repo, owner, enums.MixStatusFavorite, base)
	newer := seedMix(t, repo, owner, enums.MixStatusPublished, base.Add(time.Minute))
	seedMix(t, repo, uuid.New(), enums.MixStatusFavorite, base)

	rows, err := repo.ListByUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)
}
