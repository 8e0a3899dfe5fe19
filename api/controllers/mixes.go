package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sofiaibarra/blendery-backend/api/responses"
	"github.com/sofiaibarra/blendery-backend/api/validators"
	"github.com/sofiaibarra/blendery-backend/internal/mixes"
	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	pkgerrors "github.com/sofiaibarra/blendery-backend/pkg/errors"
	"github.com/sofiaibarra/blendery-backend/pkg/logger"
	"github.com/sofiaibarra/blendery-backend/pkg/pagination"
)

type mixItemBody struct {
	IngredientID uuid.UUID `json:"ingredient_id" validate:"required"`
	WeightGrams  int       `json:"weight_grams" validate:"required,min=1"`
}

type createMixBody struct {
	Name        string        `json:"name" validate:"required,min=2,max=120"`
	Description *string       `json:"description,omitempty"`
	Story       *string       `json:"story,omitempty"`
	ImageURL    *string       `json:"image_url,omitempty" validate:"omitempty,url"`
	PackagingID uuid.UUID     `json:"packaging_id" validate:"required"`
	Items       []mixItemBody `json:"items" validate:"required,min=1,dive"`
}

type updateMixBody struct {
	Name        *string       `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Description *string       `json:"description,omitempty"`
	Story       *string       `json:"story,omitempty"`
	ImageURL    *string       `json:"image_url,omitempty" validate:"omitempty,url"`
	PackagingID *uuid.UUID    `json:"packaging_id,omitempty"`
	Items       []mixItemBody `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

type setItemWeightBody struct {
	WeightGrams int `json:"weight_grams" validate:"min=0"`
}

func itemsFromBody(items []mixItemBody) []models.MixItem {
	if items == nil {
		return nil
	}
	out := make([]models.MixItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.MixItem{IngredientID: item.IngredientID, WeightGrams: item.WeightGrams})
	}
	return out
}

func mixIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "mixId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid mix id")
	}
	return id, nil
}

// MixCreate starts a new favorite mix for the caller.
func MixCreate(svc mixes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body createMixBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Create(r.Context(), userID, mixes.CreateMixInput{
			Name:        body.Name,
			Description: body.Description,
			Story:       body.Story,
			ImageURL:    body.ImageURL,
			PackagingID: body.PackagingID,
			Items:       itemsFromBody(body.Items),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// MixUpdate patches an existing mix owned by the caller.
func MixUpdate(svc mixes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mixID, err := mixIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updateMixBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Update(r.Context(), userID, mixID, mixes.UpdateMixInput{
			Name:        body.Name,
			Description: body.Description,
			Story:       body.Story,
			ImageURL:    body.ImageURL,
			PackagingID: body.PackagingID,
			Items:       itemsFromBody(body.Items),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// MixDetail returns one mix visible to the caller.
func MixDetail(svc mixes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mixID, err := mixIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Get(r.Context(), userID, mixID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// MixListMine returns the caller's favorites and published mixes.
func MixListMine(svc mixes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := svc.ListMine(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// MixListPublished pages through the community's published mixes.
func MixListPublished(svc mixes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))
		result, err := svc.ListPublished(r.Context(), limit, cursor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// MixQuote prices a mix from the current catalog.
func MixQuote(svc mixes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mixID, err := mixIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quote, err := svc.Quote(r.Context(), userID, mixID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// MixSetItemWeight adjusts one ingredient's weight, clamping to the
// packaging capacity.
func MixSetItemWeight(svc mixes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mixID, err := mixIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ingredientID, err := uuid.Parse(chi.URLParam(r, "ingredientId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid ingredient id"))
			return
		}
		var body setItemWeightBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.SetItemWeight(r.Context(), userID, mixID, ingredientID, body.WeightGrams)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// MixPublish shares a favorite mix to the public shop.
func MixPublish(svc mixes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mixID, err := mixIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Publish(r.Context(), userID, mixID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// MixDelete removes a mix the caller owns.
func MixDelete(svc mixes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mixID, err := mixIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), userID, mixID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// MixLike records the caller's like on a published mix.
func MixLike(svc mixes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mixID, err := mixIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Like(r.Context(), userID, mixID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "liked"})
	}
}

// MixUnlike removes the caller's like.
func MixUnlike(svc mixes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mixID, err := mixIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Unlike(r.Context(), userID, mixID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "unliked"})
	}
}
