package mixes

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	"github.com/sofiaibarra/blendery-backend/pkg/enums"
)

// MixDTO is the transport shape for mix reads.
type MixDTO struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"user_id"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Story       *string          `json:"story,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
	PackagingID uuid.UUID        `json:"packaging_id"`
	Items       []models.MixItem `json:"items"`
	Status      enums.MixStatus  `json:"status"`
	LikeCount   int              `json:"like_count"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// MixListResult wraps a published-mix page and its next cursor.
type MixListResult struct {
	Items  []MixDTO `json:"items"`
	Cursor string   `json:"cursor"`
}

// QuoteDTO carries freshly computed totals for a mix.
type QuoteDTO struct {
	MixID        uuid.UUID       `json:"mix_id"`
	Price        decimal.Decimal `json:"price"`
	PricePoints  decimal.Decimal `json:"price_points"`
	PointsEarned decimal.Decimal `json:"points_earned"`
}

// FromModel maps a persisted mix to the transport shape. A corrupt
// composition blob maps to an empty item list rather than failing the read.
func FromModel(mix *models.Mix) *MixDTO {
	if mix == nil {
		return nil
	}
	items, err := mix.Items()
	if err != nil {
		items = nil
	}
	return &MixDTO{
		ID:          mix.ID,
		UserID:      mix.UserID,
		Name:        mix.Name,
		Description: mix.Description,
		Story:       mix.Story,
		ImageURL:    mix.ImageURL,
		PackagingID: mix.PackagingID,
		Items:       items,
		Status:      mix.Status,
		LikeCount:   mix.LikeCount,
		CreatedAt:   mix.CreatedAt,
		UpdatedAt:   mix.UpdatedAt,
	}
}
