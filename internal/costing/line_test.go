package costing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/model"
)

func dptr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func uptr(id uuid.UUID) *uuid.UUID { return &id }

func TestResolveLine_IngredientHappyPath(t *testing.T) {
	ingID := uuid.New()
	ingredients := map[uuid.UUID]model.Ingredient{
		ingID: {ID: ingID, Name: "Flour", PackUnit: "g", NetUnitCost: dptr(0.002)},
	}

	res := ResolveLine(model.RecipeLine{
		LineType:     model.LineTypeIngredient,
		IngredientID: uptr(ingID),
		Qty:          500,
		Unit:         "g",
		YieldPercent: 100,
	}, ingredients, nil, nil)

	assert.Equal(t, 500.0, res.NetQty)
	assert.Equal(t, 500.0, res.GrossQty)
	assert.True(t, res.LineCost.Equal(decimal.NewFromFloat(1.0)), "got %s", res.LineCost)
	assert.Empty(t, res.Warnings)
}

func TestResolveLine_YieldAdjustsGross(t *testing.T) {
	ingID := uuid.New()
	ingredients := map[uuid.UUID]model.Ingredient{
		ingID: {ID: ingID, PackUnit: "g", NetUnitCost: dptr(0.01)},
	}

	// 80% usable yield: 400 g net needs 500 g gross.
	res := ResolveLine(model.RecipeLine{
		LineType:     model.LineTypeIngredient,
		IngredientID: uptr(ingID),
		Qty:          400,
		Unit:         "g",
		YieldPercent: 80,
	}, ingredients, nil, nil)

	assert.InDelta(t, 500, res.GrossQty, 1e-9)
	assert.True(t, res.LineCost.Equal(decimal.NewFromFloat(5.0)), "got %s", res.LineCost)
}

func TestResolveLine_GrossOverrideWins(t *testing.T) {
	ingID := uuid.New()
	ingredients := map[uuid.UUID]model.Ingredient{
		ingID: {ID: ingID, PackUnit: "g", NetUnitCost: dptr(1)},
	}

	res := ResolveLine(model.RecipeLine{
		LineType:         model.LineTypeIngredient,
		IngredientID:     uptr(ingID),
		Qty:              100,
		Unit:             "g",
		YieldPercent:     50,
		GrossQtyOverride: fptr(120),
	}, ingredients, nil, nil)

	assert.Equal(t, 120.0, res.GrossQty)
}

func TestResolveLine_IngredientWithoutPrice(t *testing.T) {
	ingID := uuid.New()
	ingredients := map[uuid.UUID]model.Ingredient{
		ingID: {ID: ingID, PackUnit: "g"}, // no cost captured yet
	}

	res := ResolveLine(model.RecipeLine{
		LineType:     model.LineTypeIngredient,
		IngredientID: uptr(ingID),
		Qty:          200,
		Unit:         "g",
	}, ingredients, nil, nil)

	assert.True(t, res.LineCost.IsZero())
	assert.Contains(t, res.Warnings, WarnIngredientWithoutPrice)
}

func TestResolveLine_MissingIngredient(t *testing.T) {
	res := ResolveLine(model.RecipeLine{
		LineType:     model.LineTypeIngredient,
		IngredientID: uptr(uuid.New()),
		Qty:          10,
		Unit:         "g",
	}, map[uuid.UUID]model.Ingredient{}, nil, nil)

	assert.True(t, res.LineCost.IsZero())
	assert.Contains(t, res.Warnings, WarnMissingIngredient)
}

func TestResolveLine_PackUnitMismatchFlaggedNotFatal(t *testing.T) {
	ingID := uuid.New()
	// Priced per piece, used by weight, no grams-per-piece bridge.
	ingredients := map[uuid.UUID]model.Ingredient{
		ingID: {ID: ingID, PackUnit: "pcs", NetUnitCost: dptr(0.5)},
	}

	res := ResolveLine(model.RecipeLine{
		LineType:     model.LineTypeIngredient,
		IngredientID: uptr(ingID),
		Qty:          300,
		Unit:         "g",
	}, ingredients, nil, nil)

	// Lenient passthrough: 300 × 0.5. Flagged so callers can see it.
	assert.Contains(t, res.Warnings, WarnUnitFamilyMismatch)
	assert.True(t, res.LineCost.Equal(decimal.NewFromInt(150)), "got %s", res.LineCost)
}

func TestResolveLine_SubrecipeByPortion(t *testing.T) {
	subID := uuid.New()
	recipes := map[uuid.UUID]model.Recipe{
		subID: {ID: subID, Portions: 4, IsSubrecipe: true},
	}
	costs := map[uuid.UUID]decimal.Decimal{subID: decimal.NewFromInt(8)}

	res := ResolveLine(model.RecipeLine{
		LineType:    model.LineTypeSubrecipe,
		SubRecipeID: uptr(subID),
		Qty:         2,
		Unit:        "portion",
	}, nil, recipes, costs)

	require.Empty(t, res.Warnings)
	assert.True(t, res.LineCost.Equal(decimal.NewFromInt(4)), "got %s", res.LineCost)
}

func TestResolveLine_SubrecipeByYield(t *testing.T) {
	subID := uuid.New()
	recipes := map[uuid.UUID]model.Recipe{
		subID: {ID: subID, Portions: 1, IsSubrecipe: true, YieldQty: fptr(1000), YieldUnit: "g"},
	}
	costs := map[uuid.UUID]decimal.Decimal{subID: decimal.NewFromInt(10)}

	// 250 g of a 1000 g batch costing 10.00 → 2.50.
	res := ResolveLine(model.RecipeLine{
		LineType:    model.LineTypeSubrecipe,
		SubRecipeID: uptr(subID),
		Qty:         250,
		Unit:        "g",
	}, nil, recipes, costs)

	require.Empty(t, res.Warnings)
	assert.True(t, res.LineCost.Equal(decimal.NewFromFloat(2.5)), "got %s", res.LineCost)
}

func TestResolveLine_SubrecipeYieldUnitConversion(t *testing.T) {
	subID := uuid.New()
	recipes := map[uuid.UUID]model.Recipe{
		subID: {ID: subID, Portions: 1, IsSubrecipe: true, YieldQty: fptr(1000), YieldUnit: "g"},
	}
	costs := map[uuid.UUID]decimal.Decimal{subID: decimal.NewFromInt(10)}

	// Same family, different unit: 0.25 kg = 250 g.
	res := ResolveLine(model.RecipeLine{
		LineType:    model.LineTypeSubrecipe,
		SubRecipeID: uptr(subID),
		Qty:         0.25,
		Unit:        "kg",
	}, nil, recipes, costs)

	assert.True(t, res.LineCost.Equal(decimal.NewFromFloat(2.5)), "got %s", res.LineCost)
}

func TestResolveLine_SubrecipeMissingYieldFallsBackToPortion(t *testing.T) {
	subID := uuid.New()
	recipes := map[uuid.UUID]model.Recipe{
		subID: {ID: subID, Portions: 2, IsSubrecipe: true}, // no yield declared
	}
	costs := map[uuid.UUID]decimal.Decimal{subID: decimal.NewFromInt(6)}

	res := ResolveLine(model.RecipeLine{
		LineType:    model.LineTypeSubrecipe,
		SubRecipeID: uptr(subID),
		Qty:         1,
		Unit:        "g", // by quantity, but no yield to cost against
	}, nil, recipes, costs)

	assert.Contains(t, res.Warnings, WarnMissingYieldOnSubrecipe)
	// Falls back to cost per portion: 6 / 2 = 3.
	assert.True(t, res.LineCost.Equal(decimal.NewFromInt(3)), "got %s", res.LineCost)
}

func TestResolveLine_SubrecipeMissingReference(t *testing.T) {
	res := ResolveLine(model.RecipeLine{
		LineType:    model.LineTypeSubrecipe,
		SubRecipeID: uptr(uuid.New()),
		Qty:         1,
		Unit:        "portion",
	}, nil, map[uuid.UUID]model.Recipe{}, map[uuid.UUID]decimal.Decimal{})

	assert.True(t, res.LineCost.IsZero())
	assert.Contains(t, res.Warnings, WarnMissingSubrecipeRef)
}

func TestResolveLine_GroupContributesNothing(t *testing.T) {
	res := ResolveLine(model.RecipeLine{
		LineType: model.LineTypeGroup,
		Qty:      99,
		Unit:     "g",
	}, nil, nil, nil)

	assert.True(t, res.LineCost.IsZero())
	assert.Empty(t, res.Warnings)
}

func TestResolveLine_NegativeQtyClampedToZero(t *testing.T) {
	ingID := uuid.New()
	ingredients := map[uuid.UUID]model.Ingredient{
		ingID: {ID: ingID, PackUnit: "g", NetUnitCost: dptr(1)},
	}

	res := ResolveLine(model.RecipeLine{
		LineType:     model.LineTypeIngredient,
		IngredientID: uptr(ingID),
		Qty:          -50,
		Unit:         "g",
	}, ingredients, nil, nil)

	assert.Equal(t, 0.0, res.NetQty)
	assert.True(t, res.LineCost.IsZero())
}
