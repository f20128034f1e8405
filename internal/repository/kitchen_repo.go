package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/model"
)

// KitchenRepository is the read-only storage boundary of the costing
// engine: it materializes a consistent snapshot of recipes, lines and
// ingredients. Services depend on this interface, not on the concrete
// GORM implementation, enabling clean unit testing via stubs.
//
// Archived recipes and inactive ingredients are filtered here; lines that
// still reference them degrade to MISSING_* warnings inside the engine.
type KitchenRepository interface {
	ListIngredients(ctx context.Context) ([]model.Ingredient, error)
	ListRecipes(ctx context.Context) ([]model.Recipe, error)
	ListLines(ctx context.Context) ([]model.RecipeLine, error)

	// DB exposes the underlying *gorm.DB for seeding tools.
	DB() *gorm.DB
}

type kitchenRepo struct{ db *gorm.DB }

func NewKitchenRepository(db *gorm.DB) KitchenRepository { return &kitchenRepo{db: db} }

func (r *kitchenRepo) ListIngredients(ctx context.Context) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&ingredients).Error
	return ingredients, err
}

func (r *kitchenRepo) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	var recipes []model.Recipe
	err := r.db.WithContext(ctx).Where("archived = false").Order("name ASC").Find(&recipes).Error
	return recipes, err
}

func (r *kitchenRepo) ListLines(ctx context.Context) ([]model.RecipeLine, error) {
	var lines []model.RecipeLine
	err := r.db.WithContext(ctx).Order("recipe_id ASC, position ASC").Find(&lines).Error
	return lines, err
}

func (r *kitchenRepo) DB() *gorm.DB { return r.db }
