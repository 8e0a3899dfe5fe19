package points

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	"github.com/sofiaibarra/blendery-backend/pkg/enums"
	pkgerrors "github.com/sofiaibarra/blendery-backend/pkg/errors"
	"github.com/sofiaibarra/blendery-backend/pkg/metrics"
	"github.com/sofiaibarra/blendery-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// AdjustInput captures one balance mutation request.
type AdjustInput struct {
	UserID      uuid.UUID
	Delta       decimal.Decimal
	Type        enums.PointsTransactionType
	ReferenceID *uuid.UUID
	Notes       string
}

// Service defines balance mutation and ledger read operations.
type Service interface {
	Adjust(ctx context.Context, input AdjustInput) (decimal.Decimal, error)
	AdjustTx(ctx context.Context, tx *gorm.DB, input AdjustInput) (decimal.Decimal, error)
	AwardOnce(ctx context.Context, tx *gorm.DB, input AdjustInput) (bool, error)
	BulkAdjust(ctx context.Context, userIDs []uuid.UUID, delta decimal.Decimal, notes string) (int, error)
	History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.PointsLedgerEntry, error)
	Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	BalanceTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (decimal.Decimal, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	metrics *metrics.PointsMetrics
}

// NewService wires a points service with the provided dependencies.
func NewService(repo Repository, tx txRunner, pm *metrics.PointsMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("points repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, metrics: pm}, nil
}

// Adjust applies the delta inside its own transaction and returns the new
// balance. Debits clamp at zero; the ledger row stores the effective change
// so points_after always equals points_before + points_change.
func (s *service) Adjust(ctx context.Context, input AdjustInput) (decimal.Decimal, error) {
	var newBalance decimal.Decimal
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		balance, err := s.AdjustTx(ctx, tx, input)
		if err != nil {
			return err
		}
		newBalance = balance
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// AdjustTx applies the delta inside the caller's transaction.
func (s *service) AdjustTx(ctx context.Context, tx *gorm.DB, input AdjustInput) (decimal.Decimal, error) {
	if tx == nil {
		return decimal.Zero, errors.New("transaction required")
	}
	if input.UserID == uuid.Nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !input.Type.IsValid() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid transaction type %q", input.Type))
	}

	started := time.Now()
	repo := s.repo.WithTx(tx)

	before, err := repo.BalanceForUpdate(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return decimal.Zero, err
	}

	after := before.Add(input.Delta)
	if after.IsNegative() {
		after = decimal.Zero
	}
	effective := after.Sub(before)

	if err := repo.UpdateBalance(ctx, input.UserID, after); err != nil {
		return decimal.Zero, err
	}

	entry := &models.PointsLedgerEntry{
		UserID:          input.UserID,
		PointsChange:    effective,
		TransactionType: input.Type,
		ReferenceID:     input.ReferenceID,
		PointsBefore:    before,
		PointsAfter:     after,
		Notes:           input.Notes,
	}
	if err := repo.Append(ctx, entry); err != nil {
		return decimal.Zero, err
	}

	s.metrics.IncEntry(string(input.Type))
	s.metrics.ObserveAdjustDuration(time.Since(started))
	return after, nil
}

// AwardOnce applies the delta only if no ledger row exists yet for the same
// (user, reference, type). It reports whether an award was made.
func (s *service) AwardOnce(ctx context.Context, tx *gorm.DB, input AdjustInput) (bool, error) {
	if tx == nil {
		return false, errors.New("transaction required")
	}
	if input.ReferenceID == nil || *input.ReferenceID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "reference id is required for awards")
	}

	repo := s.repo.WithTx(tx)
	exists, err := repo.HasEntry(ctx, input.UserID, *input.ReferenceID, input.Type)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if _, err := s.AdjustTx(ctx, tx, input); err != nil {
		return false, err
	}
	return true, nil
}

// BulkAdjust applies the same admin delta to many users, one transaction per
// user so a failure does not roll back prior awards. Returns how many users
// were adjusted.
func (s *service) BulkAdjust(ctx context.Context, userIDs []uuid.UUID, delta decimal.Decimal, notes string) (int, error) {
	adjusted := 0
	for _, userID := range userIDs {
		_, err := s.Adjust(ctx, AdjustInput{
			UserID: userID,
			Delta:  delta,
			Type:   enums.PointsTxBulkAdminAdjustment,
			Notes:  notes,
		})
		if err != nil {
			return adjusted, fmt.Errorf("adjusting user %s: %w", userID, err)
		}
		adjusted++
	}
	return adjusted, nil
}

func (s *service) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.PointsLedgerEntry, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.repo.History(ctx, userID, pagination.NormalizeLimit(limit), pagination.NormalizeOffset(offset))
}

func (s *service) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	entry, err := s.repo.Newest(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if entry == nil {
		return decimal.Zero, nil
	}
	return entry.PointsAfter, nil
}

// BalanceTx reads the cached balance inside the caller's transaction under
// the same row lock AdjustTx takes, so a funds check followed by a debit in
// one transaction cannot interleave with a concurrent mutation.
func (s *service) BalanceTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (decimal.Decimal, error) {
	if tx == nil {
		return decimal.Zero, errors.New("transaction required")
	}
	if userID == uuid.Nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	balance, err := s.repo.WithTx(tx).BalanceForUpdate(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return decimal.Zero, err
	}
	return balance, nil
}
