package mixes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	"github.com/sofiaibarra/blendery-backend/pkg/enums"
	"github.com/sofiaibarra/blendery-backend/pkg/pagination"
)

// Repository defines persistence for mixes and their likes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, mix *models.Mix) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Mix, error)
	Update(ctx context.Context, mix *models.Mix) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.MixStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Mix, error)
	ListPublished(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Mix, *pagination.Cursor, error)
	CreateLike(ctx context.Context, like *models.MixLike) error
	DeleteLike(ctx context.Context, mixID, userID uuid.UUID) (bool, error)
	AdjustLikeCount(ctx context.Context, mixID uuid.UUID, delta int) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a mix repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, mix *models.Mix) error {
	return r.db.WithContext(ctx).Create(mix).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Mix, error) {
	var mix models.Mix
	if err := r.db.WithContext(ctx).First(&mix, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &mix, nil
}

func (r *repositoryImpl) Update(ctx context.Context, mix *models.Mix) error {
	return r.db.WithContext(ctx).Save(mix).Error
}

func (r *repositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.MixStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Mix{}).
		Where("id = ?", id).
		UpdateColumn("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Mix{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Mix, error) {
	var rows []models.Mix
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListPublished(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Mix, *pagination.Cursor, error) {
	buffered := pagination.LimitWithBuffer(limit)
	normalized := pagination.NormalizeLimit(limit)
	query := r.db.WithContext(ctx).
		Model(&models.Mix{}).
		Where("status = ?", enums.MixStatusPublished)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Mix
	if err := query.Order("created_at DESC, id DESC").Limit(buffered).Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	if len(rows) > normalized {
		next := rows[normalized]
		rows = rows[:normalized]
		return rows, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return rows, nil, nil
}

func (r *repositoryImpl) CreateLike(ctx context.Context, like *models.MixLike) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *repositoryImpl) DeleteLike(ctx context.Context, mixID, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("mix_id = ? AND user_id = ?", mixID, userID).
		Delete(&models.MixLike{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) AdjustLikeCount(ctx context.Context, mixID uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.Mix{}).
		Where("id = ?", mixID).
		UpdateColumn("like_count", gorm.Expr("CASE WHEN like_count + ? < 0 THEN 0 ELSE like_count + ? END", delta, delta)).Error
}
