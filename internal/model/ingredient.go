package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ingredient is a purchasable raw material. Nutrition fields are per 100 g;
// any of them may be nil during onboarding, as may density, piece weight and
// net unit cost. The costing engine treats nil as "data not captured yet"
// and degrades with a warning instead of failing.
type Ingredient struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"index;not null"`

	// PackUnit is the unit the supplier price refers to (e.g. "g", "kg",
	// "l", "pcs"). NetUnitCost is the cost of ONE pack unit.
	PackUnit    string           `gorm:"not null;default:'g'"`
	NetUnitCost *decimal.Decimal `gorm:"type:decimal(14,6)"`

	// Conversion bridges between unit families.
	DensityGPerML *float64 // volume ↔ mass
	GramsPerPiece *float64 // pieces ↔ mass

	// Nutrition per 100 g of the ingredient.
	KcalPer100g    *float64
	ProteinPer100g *float64
	CarbsPer100g   *float64
	FatPer100g     *float64

	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasNutrition reports whether at least one nutrition field carries a
// non-zero value. All four absent or zero counts as "no nutrition data".
func (i *Ingredient) HasNutrition() bool {
	for _, v := range []*float64{i.KcalPer100g, i.ProteinPer100g, i.CarbsPer100g, i.FatPer100g} {
		if v != nil && *v != 0 {
			return true
		}
	}
	return false
}
