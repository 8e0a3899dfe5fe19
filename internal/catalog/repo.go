package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
)

// Repository manages persistence for the ingredient and packaging catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListIngredients(ctx context.Context, visibleOnly bool) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
	GetVisibleIngredientsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Ingredient, error)
	CreateIngredient(ctx context.Context, row *models.Ingredient) error
	UpdateIngredient(ctx context.Context, row *models.Ingredient) error
	ListPackagings(ctx context.Context, availableOnly bool) ([]models.Packaging, error)
	GetPackaging(ctx context.Context, id uuid.UUID) (*models.Packaging, error)
	CreatePackaging(ctx context.Context, row *models.Packaging) error
	UpdatePackaging(ctx context.Context, row *models.Packaging) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListIngredients(ctx context.Context, visibleOnly bool) ([]models.Ingredient, error) {
	query := r.db.WithContext(ctx).Order("category ASC").Order("name ASC")
	if visibleOnly {
		query = query.Where("visible = ?", true)
	}
	var rows []models.Ingredient
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var row models.Ingredient
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// GetVisibleIngredientsByIDs returns only rows that exist and are visible;
// callers treat absent keys as skippable.
func (r *repository) GetVisibleIngredientsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Ingredient, error) {
	out := make(map[uuid.UUID]models.Ingredient, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Ingredient
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Where("visible = ?", true).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *repository) CreateIngredient(ctx context.Context, row *models.Ingredient) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) UpdateIngredient(ctx context.Context, row *models.Ingredient) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *repository) ListPackagings(ctx context.Context, availableOnly bool) ([]models.Packaging, error) {
	query := r.db.WithContext(ctx).Order("capacity_grams ASC")
	if availableOnly {
		query = query.Where("available = ?", true)
	}
	var rows []models.Packaging
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) GetPackaging(ctx context.Context, id uuid.UUID) (*models.Packaging, error) {
	var row models.Packaging
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) CreatePackaging(ctx context.Context, row *models.Packaging) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) UpdatePackaging(ctx context.Context, row *models.Packaging) error {
	return r.db.WithContext(ctx).Save(row).Error
}
