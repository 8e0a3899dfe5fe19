package product

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sofiaibarra/blendery-backend/internal/points"
	dbpkg "github.com/sofiaibarra/blendery-backend/pkg/db"
	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	"github.com/sofiaibarra/blendery-backend/pkg/enums"
	pkgerrors "github.com/sofiaibarra/blendery-backend/pkg/errors"
	"github.com/sofiaibarra/blendery-backend/pkg/pagination"
)

// Service manages shop product listings derived from mixes.
type Service interface {
	EnsurePublicProduct(ctx context.Context, tx *gorm.DB, mix *models.Mix, totals points.Totals) (*models.ShopProduct, error)
	FindOrCreatePrivate(ctx context.Context, tx *gorm.DB, mix *models.Mix, buyerID uuid.UUID, totals points.Totals) (*models.ShopProduct, error)
	GetShopProduct(ctx context.Context, id uuid.UUID) (*ShopProductDTO, error)
	ListShop(ctx context.Context, limit int, cursor string) (*ShopListResult, error)
}

type service struct {
	repo Repository
}

// NewService wires the shop product service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product repository required")
	}
	return &service{repo: repo}, nil
}

// EnsurePublicProduct returns the mix's public listing, creating it on first
// publish. Retried publishes hit the existing row.
func (s *service) EnsurePublicProduct(ctx context.Context, tx *gorm.DB, mix *models.Mix, totals points.Totals) (*models.ShopProduct, error) {
	repo := s.repo.WithTx(tx)

	existing, err := repo.FindPublicByMixID(ctx, mix.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row := &models.ShopProduct{
		MixID:        mix.ID,
		OwnerUserID:  mix.UserID,
		Name:         mix.Name,
		Price:        totals.Price,
		PricePoints:  totals.PricePoints,
		PointsEarned: totals.PointsEarned,
		Visibility:   enums.ProductVisibilityPublic,
	}
	if err := repo.Create(ctx, row); err != nil {
		if dbpkg.IsUniqueViolation(err, "shop_products_public_mix_key") {
			return repo.FindPublicByMixID(ctx, mix.ID)
		}
		return nil, err
	}
	return row, nil
}

// FindOrCreatePrivate returns the buyer's private copy of the mix, creating
// it on first purchase. Re-purchases reuse the same row.
func (s *service) FindOrCreatePrivate(ctx context.Context, tx *gorm.DB, mix *models.Mix, buyerID uuid.UUID, totals points.Totals) (*models.ShopProduct, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	repo := s.repo.WithTx(tx)

	existing, err := repo.FindPrivate(ctx, mix.ID, buyerID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row := &models.ShopProduct{
		MixID:        mix.ID,
		OwnerUserID:  mix.UserID,
		BuyerUserID:  &buyerID,
		Name:         mix.Name,
		Price:        totals.Price,
		PricePoints:  totals.PricePoints,
		PointsEarned: totals.PointsEarned,
		Visibility:   enums.ProductVisibilityPrivate,
	}
	if err := repo.Create(ctx, row); err != nil {
		if dbpkg.IsUniqueViolation(err, "shop_products_mix_buyer_key") {
			return repo.FindPrivate(ctx, mix.ID, buyerID)
		}
		return nil, err
	}
	return row, nil
}

func (s *service) GetShopProduct(ctx context.Context, id uuid.UUID) (*ShopProductDTO, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	return FromModel(row), nil
}

func (s *service) ListShop(ctx context.Context, limit int, rawCursor string) (*ShopListResult, error) {
	var cursor *pagination.Cursor
	if rawCursor != "" {
		parsed, err := pagination.ParseCursor(rawCursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		cursor = parsed
	}

	rows, next, err := s.repo.ListPublic(ctx, limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shop products")
	}

	result := &ShopListResult{Items: make([]ShopProductDTO, 0, len(rows))}
	for i := range rows {
		result.Items = append(result.Items, *FromModel(&rows[i]))
	}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}
