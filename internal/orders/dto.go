package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	"github.com/sofiaibarra/blendery-backend/pkg/enums"
)

// OrderDTO is the transport shape for order reads.
type OrderDTO struct {
	ID                uuid.UUID         `json:"id"`
	UserID            uuid.UUID         `json:"user_id"`
	Status            enums.OrderStatus `json:"status"`
	TotalPrice        decimal.Decimal   `json:"total_price"`
	TotalPricePoints  decimal.Decimal   `json:"total_price_points"`
	TotalPointsEarned decimal.Decimal   `json:"total_points_earned"`
	PaidWithPoints    bool              `json:"paid_with_points"`
	CompletedAt       *time.Time        `json:"completed_at,omitempty"`
	LineItems         []LineItemDTO     `json:"line_items,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// LineItemDTO is one product position on an order.
type LineItemDTO struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	MixID            uuid.UUID       `json:"mix_id"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	UnitPricePoints  decimal.Decimal `json:"unit_price_points"`
	UnitPointsEarned decimal.Decimal `json:"unit_points_earned"`
}

// FromModel maps a persisted order to the transport shape.
func FromModel(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	return &OrderDTO{
		ID:                order.ID,
		UserID:            order.UserID,
		Status:            order.Status,
		TotalPrice:        order.TotalPrice,
		TotalPricePoints:  order.TotalPricePoints,
		TotalPointsEarned: order.TotalPointsEarned,
		PaidWithPoints:    order.PaidWithPoints,
		CompletedAt:       order.CompletedAt,
		CreatedAt:         order.CreatedAt,
	}
}

func lineItemsFromModels(items []models.OrderLineItem) []LineItemDTO {
	out := make([]LineItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, LineItemDTO{
			ID:               item.ID,
			ProductID:        item.ProductID,
			MixID:            item.MixID,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			UnitPricePoints:  item.UnitPricePoints,
			UnitPointsEarned: item.UnitPointsEarned,
		})
	}
	return out
}
