package models

import (
	"time"

	"github.com/google/uuid"
)

// MixLike links a user to a published mix they liked.
type MixLike struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MixID     uuid.UUID `gorm:"column:mix_id;type:uuid;not null;index:mix_likes_mix_id_idx;uniqueIndex:mix_likes_mix_user_key"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:mix_likes_mix_user_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
