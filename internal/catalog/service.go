package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	pkgerrors "github.com/sofiaibarra/blendery-backend/pkg/errors"
)

// CategoryGroup is a category name plus its visible ingredients, in catalog order.
type CategoryGroup struct {
	Category    string              `json:"category"`
	Ingredients []models.Ingredient `json:"ingredients"`
}

// Service exposes catalog reads for the mix builder and admin upserts.
type Service interface {
	IngredientsByCategory(ctx context.Context) ([]CategoryGroup, error)
	AvailablePackagings(ctx context.Context) ([]models.Packaging, error)
	GetPackaging(ctx context.Context, id uuid.UUID) (*models.Packaging, error)
	CreateIngredient(ctx context.Context, row *models.Ingredient) error
	UpdateIngredient(ctx context.Context, row *models.Ingredient) error
	CreatePackaging(ctx context.Context, row *models.Packaging) error
	UpdatePackaging(ctx context.Context, row *models.Packaging) error
}

type service struct {
	repo Repository
}

// NewService wires a catalog service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) IngredientsByCategory(ctx context.Context) ([]CategoryGroup, error) {
	rows, err := s.repo.ListIngredients(ctx, true)
	if err != nil {
		return nil, err
	}
	groups := []CategoryGroup{}
	index := map[string]int{}
	for _, row := range rows {
		i, ok := index[row.Category]
		if !ok {
			groups = append(groups, CategoryGroup{Category: row.Category})
			i = len(groups) - 1
			index[row.Category] = i
		}
		groups[i].Ingredients = append(groups[i].Ingredients, row)
	}
	return groups, nil
}

func (s *service) AvailablePackagings(ctx context.Context) ([]models.Packaging, error) {
	return s.repo.ListPackagings(ctx, true)
}

func (s *service) GetPackaging(ctx context.Context, id uuid.UUID) (*models.Packaging, error) {
	row, err := s.repo.GetPackaging(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "packaging not found")
		}
		return nil, err
	}
	return row, nil
}

func (s *service) CreateIngredient(ctx context.Context, row *models.Ingredient) error {
	if err := validateIngredient(row); err != nil {
		return err
	}
	return s.repo.CreateIngredient(ctx, row)
}

func (s *service) UpdateIngredient(ctx context.Context, row *models.Ingredient) error {
	if err := validateIngredient(row); err != nil {
		return err
	}
	if row.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "ingredient id is required")
	}
	return s.repo.UpdateIngredient(ctx, row)
}

func (s *service) CreatePackaging(ctx context.Context, row *models.Packaging) error {
	if err := validatePackaging(row); err != nil {
		return err
	}
	return s.repo.CreatePackaging(ctx, row)
}

func (s *service) UpdatePackaging(ctx context.Context, row *models.Packaging) error {
	if err := validatePackaging(row); err != nil {
		return err
	}
	if row.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "packaging id is required")
	}
	return s.repo.UpdatePackaging(ctx, row)
}

func validateIngredient(row *models.Ingredient) error {
	if row == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "ingredient payload required")
	}
	if row.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "ingredient name is required")
	}
	if row.Category == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "ingredient category is required")
	}
	if row.PricePerGram.IsNegative() || row.PricePointsPerGram.IsNegative() || row.PointsEarnedPerGram.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "ingredient rates cannot be negative")
	}
	return nil
}

func validatePackaging(row *models.Packaging) error {
	if row == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "packaging payload required")
	}
	if row.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "packaging name is required")
	}
	if row.CapacityGrams <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "packaging capacity must be positive")
	}
	if row.Price.IsNegative() || row.PricePoints.IsNegative() || row.PointsEarned.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "packaging prices cannot be negative")
	}
	return nil
}
