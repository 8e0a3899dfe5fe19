package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	"github.com/sofiaibarra/blendery-backend/pkg/enums"
	"github.com/sofiaibarra/blendery-backend/pkg/pagination"
)

// Repository defines persistence for shop products.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.ShopProduct) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ShopProduct, error)
	FindPublicByMixID(ctx context.Context, mixID uuid.UUID) (*models.ShopProduct, error)
	FindPrivate(ctx context.Context, mixID, buyerID uuid.UUID) (*models.ShopProduct, error)
	ListPublic(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.ShopProduct, *pagination.Cursor, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a shop product repository bound to the database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, product *models.ShopProduct) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.ShopProduct, error) {
	var row models.ShopProduct
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repositoryImpl) FindPublicByMixID(ctx context.Context, mixID uuid.UUID) (*models.ShopProduct, error) {
	var row models.ShopProduct
	err := r.db.WithContext(ctx).
		Where("mix_id = ? AND buyer_user_id IS NULL", mixID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repositoryImpl) FindPrivate(ctx context.Context, mixID, buyerID uuid.UUID) (*models.ShopProduct, error) {
	var row models.ShopProduct
	err := r.db.WithContext(ctx).
		Where("mix_id = ? AND buyer_user_id = ?", mixID, buyerID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repositoryImpl) ListPublic(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.ShopProduct, *pagination.Cursor, error) {
	buffered := pagination.LimitWithBuffer(limit)
	normalized := pagination.NormalizeLimit(limit)
	query := r.db.WithContext(ctx).
		Model(&models.ShopProduct{}).
		Where("visibility = ?", enums.ProductVisibilityPublic)
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.ShopProduct
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
