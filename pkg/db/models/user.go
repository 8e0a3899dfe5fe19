package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sofiaibarra/blendery-backend/pkg/enums"
)

// User represents the canonical identity entity. PointsBalance is the cached
// loyalty balance; it must always equal points_after of the user's newest
// ledger row.
type User struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email         string          `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash  string          `gorm:"column:password_hash;not null"`
	FirstName     string          `gorm:"column:first_name;not null"`
	LastName      string          `gorm:"column:last_name;not null"`
	Role          enums.UserRole  `gorm:"column:role;type:user_role_enum;not null;default:customer"`
	PointsBalance decimal.Decimal `gorm:"column:points_balance;type:numeric(14,2);not null;default:0"`
	IsActive      bool            `gorm:"column:is_active;not null;default:true"`
	LastLoginAt   *time.Time      `gorm:"column:last_login_at"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
