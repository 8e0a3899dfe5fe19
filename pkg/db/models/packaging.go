package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Packaging is a container catalog row; CapacityGrams bounds the total
// ingredient weight of any mix built into it.
type Packaging struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string          `gorm:"column:name;type:text;not null"`
	CapacityGrams int             `gorm:"column:capacity_grams;not null"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	PricePoints   decimal.Decimal `gorm:"column:price_points;type:numeric(10,2);not null"`
	PointsEarned  decimal.Decimal `gorm:"column:points_earned;type:numeric(10,2);not null"`
	Available     bool            `gorm:"column:available;not null;default:true"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
