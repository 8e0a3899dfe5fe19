package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ingredient is a catalog row priced per gram. Read-only from the builder's
// perspective.
type Ingredient struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                string          `gorm:"column:name;type:text;not null"`
	Category            string          `gorm:"column:category;type:text;not null;index:ingredients_category_idx"`
	Description         *string         `gorm:"column:description;type:text"`
	PricePerGram        decimal.Decimal `gorm:"column:price_per_gram;type:numeric(10,4);not null"`
	PricePointsPerGram  decimal.Decimal `gorm:"column:price_points_per_gram;type:numeric(10,2);not null"`
	PointsEarnedPerGram decimal.Decimal `gorm:"column:points_earned_per_gram;type:numeric(10,2);not null"`
	StockGrams          int             `gorm:"column:stock_grams;not null;default:0"`
	Visible             bool            `gorm:"column:visible;not null;default:true"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
