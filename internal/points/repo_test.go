package points

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

func setupPointsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'customer',
  points_balance TEXT NOT NULL DEFAULT '0',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	ledger := `
CREATE TABLE IF NOT EXISTS points_ledger_entries (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  points_change TEXT NOT NULL,
  transaction_type TEXT NOT NULL,
  reference_id TEXT,
  points_before TEXT NOT NULL,
  points_after TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(ledger).Error)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, balance string) *models.User {
	t.Helper()
	user := &models.User{
		ID:            uuid.New(),
		Email:         uuid.NewString()[:8] + "@example.com",
		PasswordHash:  "x",
		FirstName:     "Test",
		LastName:      "User",
		Role:          enums.UserRoleCustomer,
		PointsBalance: decimal.RequireFromString(balance),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func appendEntry(t *testing.T, repo Repository, userID uuid.UUID, change string, at time.Time) *models.PointsLedgerEntry {
	t.Helper()
	delta := decimal.RequireFromString(change)
	entry := &models.PointsLedgerEntry{
		ID:              uuid.New(),
		UserID:          userID,
		PointsChange:    delta,
		TransactionType: enums.PointsTxManual,
		PointsBefore:    decimal.Zero,
		PointsAfter:     delta,
		CreatedAt:       at,
	}
	require.NoError(t, repo.Append(context.Background(), entry))
	return entry
}

func TestRepository_BalanceRoundTrip(t *testing.T) {
	db := setupPointsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "125.00")

	balance, err := repo.BalanceForUpdate(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("125")))

	require.NoError(t, repo.UpdateBalance(ctx, user.ID, decimal.NewFromInt(40)))

	balance, err = repo.BalanceForUpdate(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(40)))
}

func TestRepository_UpdateBalanceUnknownUser(t *testing.T) {
	db := setupPointsTestDB(t)
	repo := NewRepository(db)

	err := repo.UpdateBalance(context.Background(), uuid.New(), decimal.NewFromInt(10))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_NewestAndHistoryOrdering(t *testing.T) {
	db := setupPointsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "0")
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	appendEntry(t, repo, user.ID, "10", base)
	appendEntry(t, repo, user.ID, "20", base.Add(time.Minute))
	newest := appendEntry(t, repo, user.ID, "30", base.Add(2*time.Minute))

	// Entries for other users never leak into the page.
	other := seedUser(t, db, "0")
	appendEntry(t, repo, other.ID, "99", base.Add(time.Hour))

	got, err := repo.Newest(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newest.ID, got.ID)

	page, err := repo.History(ctx, user.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, page[0].PointsChange.Equal(decimal.NewFromInt(30)))
	assert.True(t, page[1].PointsChange.Equal(decimal.NewFromInt(20)))

	page, err = repo.History(ctx, user.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.True(t, page[0].PointsChange.Equal(decimal.NewFromInt(10)))
}

func TestRepository_NewestEmptyLedger(t *testing.T) {
	db := setupPointsTestDB(t)
	repo := NewRepository(db)
	user := seedUser(t, db, "0")

	got, err := repo.Newest(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_HasEntry(t *testing.T) {
	db := setupPointsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "0")
	orderID := uuid.New()

	entry := &models.PointsLedgerEntry{
		ID:              uuid.New(),
		UserID:          user.ID,
		PointsChange:    decimal.NewFromInt(120),
		TransactionType: enums.PointsTxPurchase,
		ReferenceID:     &orderID,
		PointsBefore:    decimal.Zero,
		PointsAfter:     decimal.NewFromInt(120),
	}
	require.NoError(t, repo.Append(ctx, entry))

	exists, err := repo.HasEntry(ctx, user.ID, orderID, enums.PointsTxPurchase)
	require.NoError(t, err)
	assert.True(t, exists)

	// Same reference but a different type is a distinct award.
	exists, err = repo.HasEntry(ctx, user.ID, orderID, enums.PointsTxBonus)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.HasEntry(ctx, uuid.New(), orderID, enums.PointsTxPurchase)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_AllBalances(t *testing.T) {
	db := setupPointsTestDB(t)
	repo := NewRepository(db)
	a := seedUser(t, db, "10")
	b := seedUser(t, db, "20")

	users, err := repo.AllBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	byID := map[uuid.UUID]decimal.Decimal{}
	for _, u := range users {
		byID[u.ID] = u.PointsBalance
	}
	assert.True(t, byID[a.ID].Equal(decimal.NewFromInt(10)))
	assert.True(t, byID[b.ID].Equal(decimal.NewFromInt(20)))
}
