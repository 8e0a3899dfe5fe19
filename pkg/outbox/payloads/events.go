package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MixPublishedEvent is emitted when a customer publishes a mix to the shop.
type MixPublishedEvent struct {
	MixID         uuid.UUID       `json:"mix_id"`
	OwnerUserID   uuid.UUID       `json:"owner_user_id"`
	ShopProductID uuid.UUID       `json:"shop_product_id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	PricePoints   decimal.Decimal `json:"price_points"`
	PublishedAt   time.Time       `json:"published_at"`
}

// MixDeletedEvent is emitted when a published mix is removed by its owner.
type MixDeletedEvent struct {
	MixID       uuid.UUID `json:"mix_id"`
	OwnerUserID uuid.UUID `json:"owner_user_id"`
	Name        string    `json:"name"`
	DeletedAt   time.Time `json:"deleted_at"`
}

// OrderCompletedEvent surfaces the totals once an order finishes.
type OrderCompletedEvent struct {
	OrderID           uuid.UUID       `json:"order_id"`
	BuyerUserID       uuid.UUID       `json:"buyer_user_id"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	TotalPointsEarned decimal.Decimal `json:"total_points_earned"`
	PaidWithPoints    bool            `json:"paid_with_points"`
	CompletedAt       time.Time       `json:"completed_at"`
}
