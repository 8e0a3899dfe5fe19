package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/sofiaibarra/blendery-backend/pkg/enums"
)

// MixItem is one weighted ingredient inside a mix composition.
type MixItem struct {
	IngredientID uuid.UUID `json:"ingredient_id"`
	WeightGrams  int       `json:"weight_grams"`
}

// Mix is a user-composed blend: a packaging choice plus weighted ingredients.
// Composition is the items list serialized as JSON; prices are never stored
// here, they are recomputed from the catalog on every quote.
type Mix struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index:mixes_user_id_idx"`
	Name        string          `gorm:"column:name;type:text;not null"`
	Description *string         `gorm:"column:description;type:text"`
	Story       *string         `gorm:"column:story;type:text"`
	ImageURL    *string         `gorm:"column:image_url;type:text"`
	PackagingID uuid.UUID       `gorm:"column:packaging_id;type:uuid;not null"`
	Composition json.RawMessage `gorm:"column:composition;type:jsonb;not null"`
	Status      enums.MixStatus `gorm:"column:status;type:mix_status_enum;not null;default:favorite"`
	LikeCount   int             `gorm:"column:like_count;not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// Items decodes the composition blob.
func (m *Mix) Items() ([]MixItem, error) {
	if len(m.Composition) == 0 {
		return nil, nil
	}
	var items []MixItem
	if err := json.Unmarshal(m.Composition, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetItems encodes the items list into the composition blob.
func (m *Mix) SetItems(items []MixItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	m.Composition = raw
	return nil
}
