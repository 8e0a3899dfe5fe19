package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	"github.com/sofiaibarra/blendery-backend/pkg/logger"
	"github.com/sofiaibarra/blendery-backend/pkg/metrics"
)

type balanceReader interface {
	AllBalances(ctx context.Context) ([]models.User, error)
	Newest(ctx context.Context, userID uuid.UUID) (*models.PointsLedgerEntry, error)
}

// BalanceReconcileJobParams configures the nightly ledger audit.
type BalanceReconcileJobParams struct {
	Logger     *logger.Logger
	PointsRepo balanceReader
	Metrics    *metrics.PointsMetrics
}

// NewBalanceReconcileJob constructs the job that cross-checks every cached
// balance against the newest ledger row.
func NewBalanceReconcileJob(params BalanceReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.PointsRepo == nil {
		return nil, fmt.Errorf("points repository required")
	}
	return &balanceReconcileJob{
		logg:    params.Logger,
		repo:    params.PointsRepo,
		metrics: params.Metrics,
	}, nil
}

type balanceReconcileJob struct {
	logg    *logger.Logger
	repo    balanceReader
	metrics *metrics.PointsMetrics
}

func (j *balanceReconcileJob) Name() string { return "points-balance-reconcile" }

// Run reports users whose cached balance drifted from the ledger. The ledger
// is the source of truth; drift is surfaced, not repaired, so the cause can
// be investigated before anything is overwritten.
func (j *balanceReconcileJob) Run(ctx context.Context) error {
	users, err := j.repo.AllBalances(ctx)
	if err != nil {
		return fmt.Errorf("list balances: %w", err)
	}

	var errs error
	mismatches := 0
	for _, user := range users {
		newest, err := j.repo.Newest(ctx, user.ID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("newest entry for %s: %w", user.ID, err))
			continue
		}
		expected := decimal.Zero
		if newest != nil {
			expected = newest.PointsAfter
		}
		if user.PointsBalance.Equal(expected) {
			continue
		}
		mismatches++
		j.reportMismatch(ctx, user, expected)
	}

	logCtx := j.logg.WithField(ctx, "users_checked", len(users))
	logCtx = j.logg.WithField(logCtx, "mismatches", mismatches)
	j.logg.Info(logCtx, "balance reconciliation finished")
	return errs
}

func (j *balanceReconcileJob) reportMismatch(ctx context.Context, user models.User, expected decimal.Decimal) {
	if j.metrics != nil {
		j.metrics.IncMismatch()
	}
	logCtx := j.logg.WithField(ctx, "user_id", user.ID.String())
	logCtx = j.logg.WithField(logCtx, "cached_balance", user.PointsBalance.String())
	logCtx = j.logg.WithField(logCtx, "ledger_balance", expected.String())
	j.logg.Warn(logCtx, "cached balance drifted from ledger")
}
