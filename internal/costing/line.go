package costing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/model"
)

// LineResult is the derived costing of a single recipe line. It is never
// persisted; the convergence driver recomputes it on every pass.
type LineResult struct {
	NetQty       float64
	GrossQty     float64
	YieldPercent float64
	UnitCost     decimal.Decimal
	LineCost     decimal.Decimal
	Warnings     []string
}

// ResolveLine computes net/gross quantities and cost for one line against
// the current sub-recipe cost table. It is a pure function: incomplete or
// inconsistent data surfaces as warnings on the result, never as an error.
func ResolveLine(
	line model.RecipeLine,
	ingredients map[uuid.UUID]model.Ingredient,
	recipes map[uuid.UUID]model.Recipe,
	costs map[uuid.UUID]decimal.Decimal,
) LineResult {
	res := LineResult{
		YieldPercent: clampYieldPercent(line.YieldPercent),
		UnitCost:     decimal.Zero,
		LineCost:     decimal.Zero,
	}

	res.NetQty = safeFloat(line.Qty)
	if res.NetQty < 0 {
		res.NetQty = 0
	}

	if line.GrossQtyOverride != nil && safeFloat(*line.GrossQtyOverride) > 0 {
		res.GrossQty = safeFloat(*line.GrossQtyOverride)
	} else {
		res.GrossQty = res.NetQty / (res.YieldPercent / 100)
	}

	switch line.LineType {
	case model.LineTypeIngredient:
		resolveIngredientLine(&res, line, ingredients)
	case model.LineTypeSubrecipe:
		resolveSubrecipeLine(&res, line, recipes, costs)
	default:
		// Group headers are organizational and cost nothing.
	}
	return res
}

func resolveIngredientLine(res *LineResult, line model.RecipeLine, ingredients map[uuid.UUID]model.Ingredient) {
	if line.IngredientID == nil {
		res.Warnings = append(res.Warnings, WarnMissingIngredient)
		return
	}
	ing, ok := ingredients[*line.IngredientID]
	if !ok {
		res.Warnings = append(res.Warnings, WarnMissingIngredient)
		return
	}

	if ing.NetUnitCost != nil {
		res.UnitCost = *ing.NetUnitCost
	}
	if res.UnitCost.IsZero() {
		res.Warnings = append(res.Warnings, WarnIngredientWithoutPrice)
	}

	// Price is per pack unit, so the gross quantity must be expressed in
	// pack units first. A family mismatch passes the quantity through
	// unchanged and is flagged, but the line still contributes.
	conv := convertForIngredient(res.GrossQty, line.Unit, ing.PackUnit, &ing)
	if conv.Status != ConvConverted {
		res.Warnings = append(res.Warnings, WarnUnitFamilyMismatch)
	}
	res.LineCost = decimal.NewFromFloat(safeFloat(conv.Qty)).Mul(res.UnitCost)
}

func resolveSubrecipeLine(res *LineResult, line model.RecipeLine, recipes map[uuid.UUID]model.Recipe, costs map[uuid.UUID]decimal.Decimal) {
	if line.SubRecipeID == nil {
		res.Warnings = append(res.Warnings, WarnMissingSubrecipeRef)
		return
	}
	sub, ok := recipes[*line.SubRecipeID]
	if !ok {
		res.Warnings = append(res.Warnings, WarnMissingSubrecipeRef)
		return
	}

	total := costs[sub.ID] // zero on the first pass, refined by iteration
	costPerPortion := total.Div(decimal.NewFromInt(int64(sub.EffectivePortions())))
	qty := decimal.NewFromFloat(safeFloat(res.GrossQty))

	unit := NormalizeUnit(line.Unit)
	if unit == "portion" {
		res.UnitCost = costPerPortion
		res.LineCost = qty.Mul(costPerPortion)
		return
	}

	// Cost by yield when the sub-recipe declares a yield compatible with
	// the line's unit (e.g. line uses 250 g of a 1000 g batch).
	if sub.YieldQty != nil && safeFloat(*sub.YieldQty) > 0 {
		yieldUnit := NormalizeUnit(sub.YieldUnit)
		if yieldUnit != "" && unitFamily(unit) != famUnknown && unitFamily(unit) == unitFamily(yieldUnit) {
			conv := Convert(res.GrossQty, unit, yieldUnit)
			perYieldUnit := total.Div(decimal.NewFromFloat(safeFloat(*sub.YieldQty)))
			res.UnitCost = perYieldUnit
			res.LineCost = decimal.NewFromFloat(safeFloat(conv.Qty)).Mul(perYieldUnit)
			return
		}
		// Yield exists but its unit does not match the line's family.
		res.Warnings = append(res.Warnings, WarnUnitFamilyMismatch)
	} else if sub.IsSubrecipe {
		// A declared sub-recipe used by quantity should carry yield data.
		res.Warnings = append(res.Warnings, WarnMissingYieldOnSubrecipe)
	}

	// Fallback: cost per portion.
	res.UnitCost = costPerPortion
	res.LineCost = qty.Mul(costPerPortion)
}
