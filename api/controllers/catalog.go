package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sofiaibarra/blendery-backend/api/responses"
	"github.com/sofiaibarra/blendery-backend/api/validators"
	"github.com/sofiaibarra/blendery-backend/internal/catalog"
	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	pkgerrors "github.com/sofiaibarra/blendery-backend/pkg/errors"
	"github.com/sofiaibarra/blendery-backend/pkg/logger"
)

// CatalogIngredients returns the visible ingredients grouped by category.
func CatalogIngredients(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		groups, err := svc.IngredientsByCategory(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, groups)
	}
}

// CatalogPackagings returns the available packaging options.
func CatalogPackagings(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		rows, err := svc.AvailablePackagings(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

type ingredientBody struct {
	Name                string          `json:"name" validate:"required,min=2,max=120"`
	Category            string          `json:"category" validate:"required,min=2,max=60"`
	Description         *string         `json:"description,omitempty"`
	PricePerGram        decimal.Decimal `json:"price_per_gram" validate:"required"`
	PricePointsPerGram  decimal.Decimal `json:"price_points_per_gram" validate:"required"`
	PointsEarnedPerGram decimal.Decimal `json:"points_earned_per_gram" validate:"required"`
	StockGrams          int             `json:"stock_grams"`
	Visible             *bool           `json:"visible,omitempty"`
}

func (b ingredientBody) toModel() *models.Ingredient {
	row := &models.Ingredient{
		Name:                b.Name,
		Category:            b.Category,
		Description:         b.Description,
		PricePerGram:        b.PricePerGram,
		PricePointsPerGram:  b.PricePointsPerGram,
		PointsEarnedPerGram: b.PointsEarnedPerGram,
		StockGrams:          b.StockGrams,
		Visible:             true,
	}
	if b.Visible != nil {
		row.Visible = *b.Visible
	}
	return row
}

// AdminCreateIngredient registers a new catalog ingredient.
func AdminCreateIngredient(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		var body ingredientBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row := body.toModel()
		if err := svc.CreateIngredient(r.Context(), row); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

// AdminUpdateIngredient replaces an ingredient's catalog row.
func AdminUpdateIngredient(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		ingredientID, err := uuid.Parse(chi.URLParam(r, "ingredientId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid ingredient id"))
			return
		}
		var body ingredientBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row := body.toModel()
		row.ID = ingredientID
		if err := svc.UpdateIngredient(r.Context(), row); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

type packagingBody struct {
	Name          string          `json:"name" validate:"required,min=2,max=120"`
	CapacityGrams int             `json:"capacity_grams" validate:"required,min=1"`
	Price         decimal.Decimal `json:"price" validate:"required"`
	PricePoints   decimal.Decimal `json:"price_points" validate:"required"`
	PointsEarned  decimal.Decimal `json:"points_earned" validate:"required"`
	Available     *bool           `json:"available,omitempty"`
}

func (b packagingBody) toModel() *models.Packaging {
	row := &models.Packaging{
		Name:          b.Name,
		CapacityGrams: b.CapacityGrams,
		Price:         b.Price,
		PricePoints:   b.PricePoints,
		PointsEarned:  b.PointsEarned,
		Available:     true,
	}
	if b.Available != nil {
		row.Available = *b.Available
	}
	return row
}

// AdminCreatePackaging registers a new packaging option.
func AdminCreatePackaging(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		var body packagingBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row := body.toModel()
		if err := svc.CreatePackaging(r.Context(), row); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

// AdminUpdatePackaging replaces a packaging option.
func AdminUpdatePackaging(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		packagingID, err := uuid.Parse(chi.URLParam(r, "packagingId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid packaging id"))
			return
		}
		var body packagingBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row := body.toModel()
		row.ID = packagingID
		if err := svc.UpdatePackaging(r.Context(), row); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}
