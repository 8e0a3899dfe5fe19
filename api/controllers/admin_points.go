package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sofiaibarra/blendery-backend/api/responses"
	"github.com/sofiaibarra/blendery-backend/api/validators"
	"github.com/sofiaibarra/blendery-backend/internal/points"
	"github.com/sofiaibarra/blendery-backend/pkg/enums"
	pkgerrors "github.com/sofiaibarra/blendery-backend/pkg/errors"
	"github.com/sofiaibarra/blendery-backend/pkg/logger"
)

type adminAdjustBody struct {
	UserID uuid.UUID       `json:"user_id" validate:"required"`
	Delta  decimal.Decimal `json:"delta" validate:"required"`
	Notes  string          `json:"notes,omitempty" validate:"max=500"`
}

type adminBulkAdjustBody struct {
	UserIDs []uuid.UUID     `json:"user_ids" validate:"required,min=1,max=500,dive,required"`
	Delta   decimal.Decimal `json:"delta" validate:"required"`
	Notes   string          `json:"notes,omitempty" validate:"max=500"`
}

// AdminAdjustPoints applies a manual balance adjustment to one user.
func AdminAdjustPoints(svc points.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "points service unavailable"))
			return
		}
		var body adminAdjustBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		balance, err := svc.Adjust(r.Context(), points.AdjustInput{
			UserID: body.UserID,
			Delta:  body.Delta,
			Type:   enums.PointsTxAdminAdjustment,
			Notes:  body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"balance": balance.String()})
	}
}

// AdminBulkAdjustPoints applies the same delta to many users.
func AdminBulkAdjustPoints(svc points.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "points service unavailable"))
			return
		}
		var body adminBulkAdjustBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.BulkAdjust(r.Context(), body.UserIDs, body.Delta, body.Notes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"updated": updated})
	}
}
