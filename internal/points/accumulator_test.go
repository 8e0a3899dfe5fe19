package points

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
)

func TestComputeTotalsHandComputed(t *testing.T) {
	ingredientID := uuid.New()
	packaging := &models.Packaging{
		Price:        decimal.RequireFromString("2.00"),
		PricePoints:  decimal.RequireFromString("200"),
		PointsEarned: decimal.RequireFromString("20"),
	}
	ingredients := map[uuid.UUID]models.Ingredient{
		ingredientID: {
			ID:                  ingredientID,
			PricePerGram:        decimal.RequireFromString("0.15"),
			PricePointsPerGram:  decimal.RequireFromString("15"),
			PointsEarnedPerGram: decimal.RequireFromString("2"),
		},
	}
	items := []models.MixItem{{IngredientID: ingredientID, WeightGrams: 50}}

	totals := ComputeTotals(items, packaging, ingredients)

	if got := totals.Price.StringFixed(2); got != "9.50" {
		t.Fatalf("expected price 9.50, got %s", got)
	}
	if !totals.PricePoints.Equal(decimal.RequireFromString("950")) {
		t.Fatalf("expected points cost 950, got %s", totals.PricePoints)
	}
	if !totals.PointsEarned.Equal(decimal.RequireFromString("120")) {
		t.Fatalf("expected points earned 120, got %s", totals.PointsEarned)
	}
}

func TestComputeTotalsSkipsMissingIngredients(t *testing.T) {
	present := uuid.New()
	removed := uuid.New()
	ingredients := map[uuid.UUID]models.Ingredient{
		present: {
			ID:                  present,
			PricePerGram:        decimal.RequireFromString("0.10"),
			PricePointsPerGram:  decimal.RequireFromString("10"),
			PointsEarnedPerGram: decimal.RequireFromString("1"),
		},
	}
	items := []models.MixItem{
		{IngredientID: present, WeightGrams: 20},
		{IngredientID: removed, WeightGrams: 30},
	}

	totals := ComputeTotals(items, nil, ingredients)

	if got := totals.Price.StringFixed(2); got != "2.00" {
		t.Fatalf("expected price 2.00 with removed ingredient skipped, got %s", got)
	}
	if !totals.PricePoints.Equal(decimal.RequireFromString("200")) {
		t.Fatalf("expected points cost 200, got %s", totals.PricePoints)
	}
}

func TestComputeTotalsRoundsPointsHalfUp(t *testing.T) {
	ingredientID := uuid.New()
	ingredients := map[uuid.UUID]models.Ingredient{
		ingredientID: {
			ID:                  ingredientID,
			PricePerGram:        decimal.RequireFromString("0.333"),
			PricePointsPerGram:  decimal.RequireFromString("0.5"),
			PointsEarnedPerGram: decimal.RequireFromString("0.45"),
		},
	}
	items := []models.MixItem{{IngredientID: ingredientID, WeightGrams: 1}}

	totals := ComputeTotals(items, nil, ingredients)

	if got := totals.Price.StringFixed(2); got != "0.33" {
		t.Fatalf("expected price rounded to 0.33, got %s", got)
	}
	if !totals.PricePoints.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected 0.5 points to round up to 1, got %s", totals.PricePoints)
	}
	if !totals.PointsEarned.Equal(decimal.Zero) {
		t.Fatalf("expected 0.45 points to round down to 0, got %s", totals.PointsEarned)
	}
}

func TestComputeTotalsEmptyComposition(t *testing.T) {
	totals := ComputeTotals(nil, nil, nil)
	if !totals.Price.IsZero() || !totals.PricePoints.IsZero() || !totals.PointsEarned.IsZero() {
		t.Fatalf("expected zero totals, got %+v", totals)
	}
}
