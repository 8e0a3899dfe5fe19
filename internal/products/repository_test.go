package product

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	"github.com/sofiaibarra/blendery-backend/pkg/enums"
)

func setupProductTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS shop_products (
  id TEXT PRIMARY KEY,
  mix_id TEXT NOT NULL,
  owner_user_id TEXT NOT NULL,
  buyer_user_id TEXT,
  name TEXT NOT NULL,
  price TEXT NOT NULL,
  price_points TEXT NOT NULL,
  points_earned TEXT NOT NULL,
  visibility TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE UNIQUE INDEX IF NOT EXISTS shop_products_mix_buyer_key ON shop_products(mix_id, buyer_user_id);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func seedProduct(t *testing.T, repo Repository, mixID uuid.UUID, buyerID *uuid.UUID, at time.Time) *models.ShopProduct {
	t.Helper()
	visibility := enums.ProductVisibilityPublic
	if buyerID != nil {
		visibility = enums.ProductVisibilityPrivate
	}
	row := &models.ShopProduct{
		ID:           uuid.New(),
		MixID:        mixID,
		OwnerUserID:  uuid.New(),
		BuyerUserID:  buyerID,
		Name:         "Blend " + uuid.NewString()[:8],
		Price:        decimal.RequireFromString("9.50"),
		PricePoints:  decimal.RequireFromString("950"),
		PointsEarned: decimal.RequireFromString("120"),
		Visibility:   visibility,
		CreatedAt:    at,
	}
	require.NoError(t, repo.Create(context.Background(), row))
	return row
}

func TestRepository_FindPublicByMixID(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	mixID := uuid.New()
	now := time.Now().UTC()

	public := seedProduct(t, repo, mixID, nil, now)
	buyer := uuid.New()
	seedProduct(t, repo, mixID, &buyer, now)

	got, err := repo.FindPublicByMixID(ctx, mixID)
	require.NoError(t, err)
	assert.Equal(t, public.ID, got.ID)

	_, err = repo.FindPublicByMixID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_FindPrivateScopedToBuyer(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	mixID := uuid.New()
	buyerA, buyerB := uuid.New(), uuid.New()
	now := time.Now().UTC()

	mine := seedProduct(t, repo, mixID, &buyerA, now)
	seedProduct(t, repo, mixID, &buyerB, now)

	got, err := repo.FindPrivate(ctx, mixID, buyerA)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)

	_, err = repo.FindPrivate(ctx, mixID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_ListPublicPagination(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		seedProduct(t, repo, uuid.New(), nil, base.Add(time.Duration(i)*time.Minute))
	}
	buyer := uuid.New()
	seedProduct(t, repo, uuid.New(), &buyer, base.Add(time.Hour))

	rows, next, err := repo.ListPublic(ctx, 2, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, next)
	for _, row := range rows {
		assert.Equal(t, enums.ProductVisibilityPublic, row.Visibility)
	}
	assert.True(t, rows[0].CreatedAt.After(rows[1].CreatedAt))

	rows, next, err = repo.ListPublic(ctx, 2, next)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, next)
}
