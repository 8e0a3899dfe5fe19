package mixes

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	pkgerrors "github.com/sofiaibarra/blendery-backend/pkg/errors"
)

// TotalWeight sums the composition's grams.
func TotalWeight(items []models.MixItem) int {
	total := 0
	for _, item := range items {
		total += item.WeightGrams
	}
	return total
}

// ValidateComposition checks a full composition against the packaging
// capacity. All problems are reported together.
func ValidateComposition(items []models.MixItem, capacityGrams int) error {
	var errs error
	seen := make(map[uuid.UUID]struct{}, len(items))
	for i, item := range items {
		if item.IngredientID == uuid.Nil {
			errs = multierr.Append(errs, fmt.Errorf("item %d: ingredient id required", i))
		}
		if item.WeightGrams < 1 {
			errs = multierr.Append(errs, fmt.Errorf("item %d: weight must be at least 1g", i))
		}
		if _, dup := seen[item.IngredientID]; dup {
			errs = multierr.Append(errs, fmt.Errorf("item %d: duplicate ingredient %s", i, item.IngredientID))
		}
		seen[item.IngredientID] = struct{}{}
	}
	if total := TotalWeight(items); total > capacityGrams {
		errs = multierr.Append(errs, fmt.Errorf("total weight %dg exceeds packaging capacity %dg", total, capacityGrams))
	}
	if errs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "invalid composition")
	}
	return nil
}

// SetItemWeight applies a single weight edit to the composition. A weight
// that would overflow the packaging is clamped down so the total lands
// exactly on capacity; the other items keep their weights. Weight 0 removes
// the ingredient. Returns the updated items and the weight actually stored.
func SetItemWeight(items []models.MixItem, ingredientID uuid.UUID, weightGrams, capacityGrams int) ([]models.MixItem, int, error) {
	if ingredientID == uuid.Nil {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "ingredient id required")
	}
	if weightGrams < 0 {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "weight cannot be negative")
	}

	if weightGrams == 0 {
		out := make([]models.MixItem, 0, len(items))
		for _, item := range items {
			if item.IngredientID != ingredientID {
				out = append(out, item)
			}
		}
		return out, 0, nil
	}

	rest := 0
	found := false
	out := make([]models.MixItem, len(items))
	copy(out, items)
	for _, item := range out {
		if item.IngredientID != ingredientID {
			rest += item.WeightGrams
		}
	}

	if rest >= capacityGrams {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "no capacity left for this ingredient")
	}

	stored := weightGrams
	if rest+stored > capacityGrams {
		stored = capacityGrams - rest
	}

	for i := range out {
		if out[i].IngredientID == ingredientID {
			out[i].WeightGrams = stored
			found = true
			break
		}
	}
	if !found {
		out = append(out, models.MixItem{IngredientID: ingredientID, WeightGrams: stored})
	}
	return out, stored, nil
}
