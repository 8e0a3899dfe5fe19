package orders

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

func setupOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  total_price TEXT NOT NULL,
  total_price_points TEXT NOT NULL,
  total_points_earned TEXT NOT NULL,
  paid_with_points INTEGER NOT NULL DEFAULT 0,
  completed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  mix_id TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  unit_price TEXT NOT NULL,
  unit_price_points TEXT NOT NULL,
  unit_points_earned TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func seedOrder(t *testing.T, repo Repository, userID uuid.UUID, status enums.OrderStatus, at time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:                uuid.New(),
		UserID:            userID,
		Status:            status,
		TotalPrice:        decimal.RequireFromString("9.50"),
		TotalPricePoints:  decimal.RequireFromString("950"),
		TotalPointsEarned: decimal.RequireFromString("120"),
		CreatedAt:         at,
	}
	require.NoError(t, repo.CreateOrder(context.Background(), order))
	return order
}

func TestRepository_CreateAndLoadOrderWithItems(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	buyer := uuid.New()

	order := seedOrder(t, repo, buyer, enums.OrderStatusPending, time.Now().UTC())
	items := []models.OrderLineItem{{
		ID:               uuid.New(),
		OrderID:          order.ID,
		ProductID:        uuid.New(),
		MixID:            uuid.New(),
		Quantity:         2,
		UnitPrice:        decimal.RequireFromString("4.75"),
		UnitPricePoints:  decimal.RequireFromString("475"),
		UnitPointsEarned: decimal.RequireFromString("60"),
	}}
	require.NoError(t, repo.CreateLineItems(ctx, items))

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, got.Status)
	assert.True(t, got.TotalPricePoints.Equal(decimal.RequireFromString("950")))

	lines, err := repo.FindLineItems(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestRepository_MarkCompleted(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, repo, uuid.New(), enums.OrderStatusPending, time.Now().UTC())
	now := time.Now().UTC()
	order.Status = enums.OrderStatusCompleted
	order.CompletedAt = &now
	require.NoError(t, repo.MarkCompleted(ctx, order))

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)

	missing := &models.Order{ID: uuid.New(), Status: enums.OrderStatusCompleted, CompletedAt: &now}
	assert.ErrorIs(t, repo.MarkCompleted(ctx, missing), gorm.ErrRecordNotFound)
}

func TestRepository_MarkPaidWithPoints(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, repo, uuid.New(), enums.OrderStatusPending, time.Now().UTC())
	require.NoError(t, repo.MarkPaidWithPoints(ctx, order.ID))

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, got.PaidWithPoints)

	assert.ErrorIs(t, repo.MarkPaidWithPoints(ctx, uuid.New()), gorm.ErrRecordNotFound)
}

func TestRepository_ListByUserNewestFirst(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	buyer := uuid.New()
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	older := seedOrder(t, repo, buyer, enums.OrderStatusCompleted, base)
	newer := seedOrder(t, repo, buyer, enums.OrderStatusPending, base.Add(time.Minute))
	seedOrder(t, repo, uuid.New(), enums.OrderStatusPending, base)

	rows, err := repo.ListByUser(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)
}
