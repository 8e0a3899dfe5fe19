package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sofiaibarra/blendery-backend/pkg/enums"
)

// Order is a buyer's purchase of one or more mix products.
type Order struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index:orders_user_id_idx"`
	Status            enums.OrderStatus `gorm:"column:status;type:order_status_enum;not null;default:pending"`
	TotalPrice        decimal.Decimal   `gorm:"column:total_price;type:numeric(12,2);not null"`
	TotalPricePoints  decimal.Decimal   `gorm:"column:total_price_points;type:numeric(12,2);not null"`
	TotalPointsEarned decimal.Decimal   `gorm:"column:total_points_earned;type:numeric(12,2);not null"`
	PaidWithPoints    bool              `gorm:"column:paid_with_points;not null;default:false"`
	CompletedAt       *time.Time        `gorm:"column:completed_at"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLineItem is one product position on an order. Unit figures are
// snapshots of the product's computed totals at purchase time.
type OrderLineItem struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index:order_line_items_order_id_idx"`
	ProductID        uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	MixID            uuid.UUID       `gorm:"column:mix_id;type:uuid;not null"`
	Quantity         int             `gorm:"column:quantity;not null;default:1"`
	UnitPrice        decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	UnitPricePoints  decimal.Decimal `gorm:"column:unit_price_points;type:numeric(10,2);not null"`
	UnitPointsEarned decimal.Decimal `gorm:"column:unit_points_earned;type:numeric(10,2);not null"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
}
