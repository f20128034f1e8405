// Package costing implements the recipe costing and convergence engine:
// unit conversion, per-line cost resolution, fixed-point aggregation of
// sub-recipe costs, and nutrition totals. The package is pure (no I/O,
// no shared state) and never fails on incomplete kitchen data: every
// problem degrades to a typed warning or skip reason below.
package costing

// Cost-side warning codes, attached to line results and recipe totals.
const (
	WarnMissingIngredient       = "MISSING_INGREDIENT"
	WarnIngredientWithoutPrice  = "INGREDIENT_WITHOUT_PRICE"
	WarnMissingSubrecipeRef     = "MISSING_SUBRECIPE_REFERENCE"
	WarnMissingYieldOnSubrecipe = "MISSING_YIELD_ON_SUBRECIPE"
	WarnUnitFamilyMismatch      = "UNIT_FAMILY_MISMATCH"
)

// Nutrition-side skip reasons. A skipped line contributes nothing but is
// reported in the diagnostics so incomplete data can be audited.
const (
	SkipNoIngredientID       = "NO_INGREDIENT_ID"
	SkipNoIngredientJoin     = "NO_INGREDIENT_JOIN"
	SkipBadQty               = "BAD_QTY"
	SkipUnsupportedUnit      = "UNSUPPORTED_UNIT"
	SkipMissingDensity       = "MISSING_DENSITY"
	SkipMissingGramsPerPiece = "MISSING_GRAMS_PER_PIECE"
	SkipMissingNutrition     = "MISSING_NUTRITION"
)

// maxRecipeWarnings caps the deduplicated warning list on RecipeTotals.
const maxRecipeWarnings = 4
