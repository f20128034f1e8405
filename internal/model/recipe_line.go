package model

import (
	"time"

	"github.com/google/uuid"
)

// Line types. Group lines are section headers inside a recipe and never
// contribute cost or nutrition.
const (
	LineTypeIngredient = "ingredient"
	LineTypeSubrecipe  = "subrecipe"
	LineTypeGroup      = "group"
)

// RecipeLine is one row of a recipe: an ingredient usage, a sub-recipe
// usage, or a group header. Exactly one of IngredientID / SubRecipeID is
// set for the first two types; group lines reference neither.
type RecipeLine struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RecipeID uuid.UUID `gorm:"type:uuid;index;not null"`

	LineType     string     `gorm:"not null;default:'ingredient'"`
	IngredientID *uuid.UUID `gorm:"type:uuid;index"`
	SubRecipeID  *uuid.UUID `gorm:"type:uuid;index"`

	Qty  float64
	Unit string

	// YieldPercent is the usable fraction after trimming/cooking loss,
	// default 100, valid domain (0, 100].
	YieldPercent float64 `gorm:"not null;default:100"`

	// GrossQtyOverride, when set and positive, replaces the yield-derived
	// gross quantity.
	GrossQtyOverride *float64

	// Position orders lines within a recipe.
	Position int `gorm:"not null;default:0"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
	SubRecipe  *Recipe     `gorm:"foreignKey:SubRecipeID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
