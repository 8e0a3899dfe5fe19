package points

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
)

// Totals is the priced-out result of a mix composition against the current
// catalog. Price carries two decimals; point figures are whole numbers.
type Totals struct {
	Price        decimal.Decimal `json:"price"`
	PricePoints  decimal.Decimal `json:"price_points"`
	PointsEarned decimal.Decimal `json:"points_earned"`
}

// ComputeTotals prices a composition from current catalog rows. Items whose
// ingredient is absent from the lookup (missing or hidden) contribute nothing;
// client-side prices never enter this computation.
func ComputeTotals(items []models.MixItem, packaging *models.Packaging, ingredients map[uuid.UUID]models.Ingredient) Totals {
	price := decimal.Zero
	pricePoints := decimal.Zero
	pointsEarned := decimal.Zero

	if packaging != nil {
		price = price.Add(packaging.Price)
		pricePoints = pricePoints.Add(packaging.PricePoints)
		pointsEarned = pointsEarned.Add(packaging.PointsEarned)
	}

	for _, item := range items {
		row, ok := ingredients[item.IngredientID]
		if !ok {
			continue
		}
		weight := decimal.NewFromInt(int64(item.WeightGrams))
		price = price.Add(row.PricePerGram.Mul(weight))
		pricePoints = pricePoints.Add(row.PricePointsPerGram.Mul(weight))
		pointsEarned = pointsEarned.Add(row.PointsEarnedPerGram.Mul(weight))
	}

	return Totals{
		Price:        price.Round(2),
		PricePoints:  roundHalfUp(pricePoints),
		PointsEarned: roundHalfUp(pointsEarned),
	}
}

// roundHalfUp rounds to a whole number with .5 going up, matching how point
// figures are displayed and stored.
func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Add(decimal.New(5, -1)).Floor()
}
