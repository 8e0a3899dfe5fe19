package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	"github.com/sofiaibarra/blendery-backend/pkg/enums"
)

// ShopProductDTO is the transport shape for product reads.
type ShopProductDTO struct {
	ID           uuid.UUID               `json:"id"`
	MixID        uuid.UUID               `json:"mix_id"`
	OwnerUserID  uuid.UUID               `json:"owner_user_id"`
	Name         string                  `json:"name"`
	Price        decimal.Decimal         `json:"price"`
	PricePoints  decimal.Decimal         `json:"price_points"`
	PointsEarned decimal.Decimal         `json:"points_earned"`
	Visibility   enums.ProductVisibility `json:"visibility"`
	CreatedAt    time.Time               `json:"created_at"`
}

// ShopListResult wraps the public shop page and its next cursor.
type ShopListResult struct {
	Items  []ShopProductDTO `json:"items"`
	Cursor string           `json:"cursor"`
}

// FromModel maps a persisted product row to the transport shape.
func FromModel(row *models.ShopProduct) *ShopProductDTO {
	if row == nil {
		return nil
	}
	return &ShopProductDTO{
		ID:           row.ID,
		MixID:        row.MixID,
		OwnerUserID:  row.OwnerUserID,
		Name:         row.Name,
		Price:        row.Price,
		PricePoints:  row.PricePoints,
		PointsEarned: row.PointsEarned,
		Visibility:   row.Visibility,
		CreatedAt:    row.CreatedAt,
	}
}
