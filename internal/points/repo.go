package points

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	"github.com/sofiaibarra/blendery-backend/pkg/enums"
)

// Repository manages persistence for the points ledger and the cached
// balance column on users.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	BalanceForUpdate(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	UpdateBalance(ctx context.Context, userID uuid.UUID, balance decimal.Decimal) error
	Append(ctx context.Context, entry *models.PointsLedgerEntry) error
	Newest(ctx context.Context, userID uuid.UUID) (*models.PointsLedgerEntry, error)
	History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.PointsLedgerEntry, error)
	HasEntry(ctx context.Context, userID uuid.UUID, referenceID uuid.UUID, txType enums.PointsTransactionType) (bool, error)
	AllBalances(ctx context.Context) ([]models.User, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a points repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// BalanceForUpdate reads the cached balance under a row lock so concurrent
// adjustments serialize. sqlite (tests) has no FOR UPDATE; its writes are
// serialized by the engine.
func (r *repository) BalanceForUpdate(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var user models.User
	if err := query.First(&user, "id = ?", userID).Error; err != nil {
		return decimal.Zero, err
	}
	return user.PointsBalance, nil
}

func (r *repository) UpdateBalance(ctx context.Context, userID uuid.UUID, balance decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("points_balance", balance)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Append(ctx context.Context, entry *models.PointsLedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) Newest(ctx context.Context, userID uuid.UUID) (*models.PointsLedgerEntry, error) {
	var entry models.PointsLedgerEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repository) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.PointsLedgerEntry, error) {
	var entries []models.PointsLedgerEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) HasEntry(ctx context.Context, userID uuid.UUID, referenceID uuid.UUID, txType enums.PointsTransactionType) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PointsLedgerEntry{}).
		Where("user_id = ? AND reference_id = ? AND transaction_type = ?", userID, referenceID, txType).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) AllBalances(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Select("id", "points_balance").
		Find(&users).Error
	return users, err
}
