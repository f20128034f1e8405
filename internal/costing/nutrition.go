package costing

import (
	"github.com/google/uuid"

	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/model"
)

// NutritionTotals holds the kcal/macro sums of one recipe, rounded to two
// decimal places.
type NutritionTotals struct {
	Kcal    float64 `json:"kcal"`
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// LineSkip records why a line contributed nothing.
type LineSkip struct {
	LineID uuid.UUID `json:"line_id"`
	Reason string    `json:"reason"`
}

// NutritionDiagnostics audits which lines were usable.
type NutritionDiagnostics struct {
	TotalLines   int        `json:"total_lines"`
	UsedLines    int        `json:"used_lines"`
	SkippedLines int        `json:"skipped_lines"`
	Skips        []LineSkip `json:"skips,omitempty"`
}

// RecipeNutrition sums kcal, protein, carbs and fat over a recipe's lines.
// It runs independently of cost convergence: only direct ingredient lines
// contribute, sub-recipe and group lines always skip with NO_INGREDIENT_ID.
// Each unusable line is skipped with a typed reason rather than failing
// the recipe.
func RecipeNutrition(lines []model.RecipeLine, ingredients map[uuid.UUID]model.Ingredient) (NutritionTotals, NutritionDiagnostics) {
	var totals NutritionTotals
	diag := NutritionDiagnostics{TotalLines: len(lines)}

	skip := func(line model.RecipeLine, reason string) {
		diag.SkippedLines++
		diag.Skips = append(diag.Skips, LineSkip{LineID: line.ID, Reason: reason})
	}

	for _, line := range lines {
		if line.LineType != model.LineTypeIngredient || line.IngredientID == nil {
			skip(line, SkipNoIngredientID)
			continue
		}
		ing, ok := ingredients[*line.IngredientID]
		if !ok {
			skip(line, SkipNoIngredientJoin)
			continue
		}
		qty := safeFloat(line.Qty)
		if qty <= 0 {
			skip(line, SkipBadQty)
			continue
		}
		if !ing.HasNutrition() {
			skip(line, SkipMissingNutrition)
			continue
		}
		grams, reason := toGrams(qty, line.Unit, &ing)
		if reason != "" {
			skip(line, reason)
			continue
		}

		factor := grams / 100
		totals.Kcal += per100(ing.KcalPer100g) * factor
		totals.Protein += per100(ing.ProteinPer100g) * factor
		totals.Carbs += per100(ing.CarbsPer100g) * factor
		totals.Fat += per100(ing.FatPer100g) * factor
		diag.UsedLines++
	}

	totals.Kcal = round2(totals.Kcal)
	totals.Protein = round2(totals.Protein)
	totals.Carbs = round2(totals.Carbs)
	totals.Fat = round2(totals.Fat)
	return totals, diag
}

func per100(v *float64) float64 {
	if v == nil {
		return 0
	}
	return safeFloat(*v)
}
