package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sofiaibarra/blendery-backend/pkg/enums"
)

// ShopProduct is a purchasable catalog listing backed by a mix. Published
// mixes get one public product; purchases get a private product per
// (mix, buyer) pair, reused on re-purchase.
type ShopProduct struct {
	ID           uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MixID        uuid.UUID               `gorm:"column:mix_id;type:uuid;not null;index:shop_products_mix_id_idx;uniqueIndex:shop_products_mix_buyer_key"`
	OwnerUserID  uuid.UUID               `gorm:"column:owner_user_id;type:uuid;not null"`
	BuyerUserID  *uuid.UUID              `gorm:"column:buyer_user_id;type:uuid;uniqueIndex:shop_products_mix_buyer_key"`
	Name         string                  `gorm:"column:name;type:text;not null"`
	Price        decimal.Decimal         `gorm:"column:price;type:numeric(10,2);not null"`
	PricePoints  decimal.Decimal         `gorm:"column:price_points;type:numeric(10,2);not null"`
	PointsEarned decimal.Decimal         `gorm:"column:points_earned;type:numeric(10,2);not null"`
	Visibility   enums.ProductVisibility `gorm:"column:visibility;type:product_visibility_enum;not null"`
	CreatedAt    time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
