package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recipe is a dish or a sub-recipe (a preparation used by other recipes).
// Sub-recipes are usually costed per yield unit (e.g. 1000 g of stock);
// when yield data is missing the engine falls back to cost per portion.
type Recipe struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"index;not null"`

	// Portions the recipe produces. Values ≤ 0 are treated as 1.
	Portions int `gorm:"not null;default:1"`

	// Yield of the whole batch, used to cost sub-recipe usage by weight
	// or volume ("250 g of the 1000 g batch").
	YieldQty  *float64
	YieldUnit string

	SellingPrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Currency     string           `gorm:"not null;default:'EUR'"`

	IsSubrecipe bool `gorm:"not null;default:false"`
	Archived    bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectivePortions never returns less than 1 so per-portion math is safe.
func (r *Recipe) EffectivePortions() int {
	if r.Portions < 1 {
		return 1
	}
	return r.Portions
}
