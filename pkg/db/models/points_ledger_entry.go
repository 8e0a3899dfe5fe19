package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sofiaibarra/blendery-backend/pkg/enums"
)

// PointsLedgerEntry records one immutable points balance change. Rows are
// append-only; points_after must equal points_before + points_change and may
// never be negative.
type PointsLedgerEntry struct {
	ID              uuid.UUID                   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID                   `gorm:"column:user_id;type:uuid;not null;index:points_ledger_user_created_idx,priority:1"`
	PointsChange    decimal.Decimal             `gorm:"column:points_change;type:numeric(14,2);not null"`
	TransactionType enums.PointsTransactionType `gorm:"column:transaction_type;type:points_transaction_type_enum;not null"`
	ReferenceID     *uuid.UUID                  `gorm:"column:reference_id;type:uuid"`
	PointsBefore    decimal.Decimal             `gorm:"column:points_before;type:numeric(14,2);not null"`
	PointsAfter     decimal.Decimal             `gorm:"column:points_after;type:numeric(14,2);not null"`
	Notes           string                      `gorm:"column:notes;type:text;not null;default:''"`
	CreatedAt       time.Time                   `gorm:"column:created_at;autoCreateTime;index:points_ledger_user_created_idx,priority:2"`
}
