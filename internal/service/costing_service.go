package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/cache"
	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/costing"
	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/model"
	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/repository"
)

// ReportCacheKey is where the serialized kitchen report lives.
const ReportCacheKey = "costing:kitchen"

// RecipeNutritionReport pairs a recipe's nutrition totals with the audit
// of which lines were usable.
type RecipeNutritionReport struct {
	Totals      costing.NutritionTotals      `json:"totals"`
	Diagnostics costing.NutritionDiagnostics `json:"diagnostics"`
}

// KitchenReport is the full output of one costing run, as consumed by
// presentation collaborators (dashboards, exports) and the recost worker.
type KitchenReport struct {
	GeneratedAt time.Time                           `json:"generated_at"`
	Totals      map[uuid.UUID]costing.RecipeTotals  `json:"totals"`
	Nutrition   map[uuid.UUID]RecipeNutritionReport `json:"nutrition"`
	Diagnostics costing.CostDiagnostics             `json:"diagnostics"`
}

// RecipeReport projects a single recipe out of the kitchen report.
type RecipeReport struct {
	RecipeID    uuid.UUID               `json:"recipe_id"`
	GeneratedAt time.Time               `json:"generated_at"`
	Totals      costing.RecipeTotals    `json:"totals"`
	Nutrition   *RecipeNutritionReport  `json:"nutrition,omitempty"`
	Diagnostics costing.CostDiagnostics `json:"diagnostics"`
}

// CostingService orchestrates one convergence run: load the kitchen
// snapshot, run the engine and the nutrition pass, cache the report.
// The cache is read-through; Invalidate drops the snapshot after data
// changes so the next call recomputes.
type CostingService interface {
	CostKitchen(ctx context.Context) (*KitchenReport, error)
	RecipeReport(ctx context.Context, recipeID uuid.UUID) (*RecipeReport, error)
	Invalidate(ctx context.Context)
}

type costingService struct {
	repo   repository.KitchenRepository
	cache  cache.Cache
	engine *costing.Engine
	ttl    time.Duration
}

func NewCostingService(repo repository.KitchenRepository, c cache.Cache, engine *costing.Engine, ttl time.Duration) CostingService {
	return &costingService{repo: repo, cache: c, engine: engine, ttl: ttl}
}

func (s *costingService) CostKitchen(ctx context.Context) (*KitchenReport, error) {
	if data, ok := s.cache.Get(ctx, ReportCacheKey); ok {
		var report KitchenReport
		if err := json.Unmarshal(data, &report); err == nil {
			return &report, nil
		}
		// Corrupt entry: fall through and recompute.
		s.cache.Delete(ctx, ReportCacheKey)
	}

	recipes, err := s.repo.ListRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading recipes: %w", err)
	}
	lines, err := s.repo.ListLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading recipe lines: %w", err)
	}
	ingredients, err := s.repo.ListIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading ingredients: %w", err)
	}

	res := s.engine.Cost(costing.Input{
		Recipes:     recipes,
		Lines:       lines,
		Ingredients: ingredients,
	})

	ingredientIdx := make(map[uuid.UUID]model.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		ingredientIdx[ing.ID] = ing
	}
	linesByRecipe := make(map[uuid.UUID][]model.RecipeLine, len(recipes))
	for _, l := range lines {
		linesByRecipe[l.RecipeID] = append(linesByRecipe[l.RecipeID], l)
	}

	nutrition := make(map[uuid.UUID]RecipeNutritionReport, len(recipes))
	for _, r := range recipes {
		totals, diag := costing.RecipeNutrition(linesByRecipe[r.ID], ingredientIdx)
		nutrition[r.ID] = RecipeNutritionReport{Totals: totals, Diagnostics: diag}
	}

	report := &KitchenReport{
		GeneratedAt: time.Now().UTC(),
		Totals:      res.Totals,
		Nutrition:   nutrition,
		Diagnostics: res.Diagnostics,
	}

	log.Info().
		Int("recipes", len(recipes)).
		Int("passes", report.Diagnostics.Passes).
		Bool("converged", report.Diagnostics.Converged).
		Str("last_delta", report.Diagnostics.LastDelta.String()).
		Msg("kitchen costing completed")

	if data, err := json.Marshal(report); err == nil {
		s.cache.Set(ctx, ReportCacheKey, data, s.ttl)
	}
	return report, nil
}

func (s *costingService) RecipeReport(ctx context.Context, recipeID uuid.UUID) (*RecipeReport, error) {
	kitchen, err := s.CostKitchen(ctx)
	if err != nil {
		return nil, err
	}
	totals, ok := kitchen.Totals[recipeID]
	if !ok {
		return nil, fmt.Errorf("recipe %s not in costing scope", recipeID)
	}
	report := &RecipeReport{
		RecipeID:    recipeID,
		GeneratedAt: kitchen.GeneratedAt,
		Totals:      totals,
		Diagnostics: kitchen.Diagnostics,
	}
	if n, ok := kitchen.Nutrition[recipeID]; ok {
		report.Nutrition = &n
	}
	return report, nil
}

func (s *costingService) Invalidate(ctx context.Context) {
	s.cache.Delete(ctx, ReportCacheKey)
}
