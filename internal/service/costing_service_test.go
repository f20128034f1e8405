package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/cache"
	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/costing"
	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/model"
)

// stubRepo implements repository.KitchenRepository over fixed slices and
// counts how often each list is hit, so cache behaviour is observable.
type stubRepo struct {
	ingredients []model.Ingredient
	recipes     []model.Recipe
	lines       []model.RecipeLine
	listCalls   int
	failListing bool
}

func (s *stubRepo) ListIngredients(context.Context) ([]model.Ingredient, error) {
	if s.failListing {
		return nil, errors.New("db down")
	}
	return s.ingredients, nil
}

func (s *stubRepo) ListRecipes(context.Context) ([]model.Recipe, error) {
	if s.failListing {
		return nil, errors.New("db down")
	}
	s.listCalls++
	return s.recipes, nil
}

func (s *stubRepo) ListLines(context.Context) ([]model.RecipeLine, error) {
	if s.failListing {
		return nil, errors.New("db down")
	}
	return s.lines, nil
}

func (s *stubRepo) DB() *gorm.DB { return nil }

func demoKitchen(t *testing.T) *stubRepo {
	t.Helper()
	cost := decimal.RequireFromString("0.002")
	kcal := 350.0
	ing := model.Ingredient{
		ID:          uuid.New(),
		Name:        "Flour",
		PackUnit:    "g",
		NetUnitCost: &cost,
		KcalPer100g: &kcal,
		Active:      true,
	}
	price := decimal.RequireFromString("5.00")
	recipe := model.Recipe{
		ID:           uuid.New(),
		Name:         "Bread",
		Portions:     10,
		SellingPrice: &price,
	}
	line := model.RecipeLine{
		ID:           uuid.New(),
		RecipeID:     recipe.ID,
		LineType:     model.LineTypeIngredient,
		IngredientID: &ing.ID,
		Qty:          500,
		Unit:         "g",
		YieldPercent: 100,
	}
	return &stubRepo{
		ingredients: []model.Ingredient{ing},
		recipes:     []model.Recipe{recipe},
		lines:       []model.RecipeLine{line},
	}
}

func newTestService(repo *stubRepo) (CostingService, cache.Cache) {
	store := cache.NewMemoryCache(time.Minute)
	engine := costing.New(costing.Options{})
	return NewCostingService(repo, store, engine, time.Minute), store
}

func TestCostKitchenComputesAndCaches(t *testing.T) {
	repo := demoKitchen(t)
	svc, store := newTestService(repo)
	ctx := context.Background()

	report, err := svc.CostKitchen(ctx)
	require.NoError(t, err)
	require.Len(t, report.Totals, 1)
	assert.Equal(t, 1, repo.listCalls)

	recipeID := repo.recipes[0].ID
	totals := report.Totals[recipeID]
	assert.True(t, totals.TotalCost.Equal(decimal.RequireFromString("1")), "got %s", totals.TotalCost)
	assert.True(t, totals.CostPerPortion.Equal(decimal.RequireFromString("0.1")))
	require.NotNil(t, totals.FoodCostPct)
	assert.True(t, totals.FoodCostPct.Equal(decimal.RequireFromString("2")))
	assert.True(t, report.Diagnostics.Converged)

	// Nutrition rides along: 500 g of a 350 kcal/100g ingredient.
	n, ok := report.Nutrition[recipeID]
	require.True(t, ok)
	assert.InDelta(t, 1750, n.Totals.Kcal, 1e-9)
	assert.Equal(t, 1, n.Diagnostics.UsedLines)

	// Second call is served from cache, not from the repo.
	again, err := svc.CostKitchen(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, report.GeneratedAt.Unix(), again.GeneratedAt.Unix())

	_, cached := store.Get(ctx, ReportCacheKey)
	assert.True(t, cached)
}

func TestInvalidateForcesRecompute(t *testing.T) {
	repo := demoKitchen(t)
	svc, _ := newTestService(repo)
	ctx := context.Background()

	_, err := svc.CostKitchen(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, repo.listCalls)

	svc.Invalidate(ctx)

	_, err = svc.CostKitchen(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestCostKitchenCorruptCacheEntryRecomputes(t *testing.T) {
	repo := demoKitchen(t)
	svc, store := newTestService(repo)
	ctx := context.Background()

	store.Set(ctx, ReportCacheKey, []byte("{not json"), time.Minute)

	report, err := svc.CostKitchen(ctx)
	require.NoError(t, err)
	assert.Len(t, report.Totals, 1)
	assert.Equal(t, 1, repo.listCalls)
}

func TestCostKitchenRepoError(t *testing.T) {
	repo := demoKitchen(t)
	repo.failListing = true
	svc, _ := newTestService(repo)

	_, err := svc.CostKitchen(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestRecipeReportProjection(t *testing.T) {
	repo := demoKitchen(t)
	svc, _ := newTestService(repo)
	ctx := context.Background()

	recipeID := repo.recipes[0].ID
	report, err := svc.RecipeReport(ctx, recipeID)
	require.NoError(t, err)
	assert.Equal(t, recipeID, report.RecipeID)
	assert.True(t, report.Totals.CostPerPortion.Equal(decimal.RequireFromString("0.1")))
	require.NotNil(t, report.Nutrition)
	assert.InDelta(t, 1750, report.Nutrition.Totals.Kcal, 1e-9)

	_, err = svc.RecipeReport(ctx, uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in costing scope")
}
