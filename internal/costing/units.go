package costing

import (
	"strings"

	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/model"
)

// Unit families. Conversions inside a family use fixed multipliers;
// crossing families needs an ingredient-specific bridge (density or
// piece weight).
const (
	famMass    = "mass"
	famVolume  = "volume"
	famPiece   = "piece"
	famPortion = "portion"
	famUnknown = "unknown"
)

// unitSynonyms folds spelled-out and plural unit strings onto canonical
// short names. Unknown strings pass through NormalizeUnit unchanged and
// are treated as unsupported downstream.
var unitSynonyms = map[string]string{
	"gram": "g", "grams": "g", "gr": "g",
	"kilogram": "kg", "kilograms": "kg", "kilo": "kg", "kilos": "kg", "kgs": "kg",
	"milligram": "mg", "milligrams": "mg",
	"ounce": "oz", "ounces": "oz",
	"pound": "lb", "pounds": "lb", "lbs": "lb",
	"milliliter": "ml", "milliliters": "ml", "millilitre": "ml", "millilitres": "ml",
	"liter": "l", "liters": "l", "litre": "l", "litres": "l", "lt": "l",
	"teaspoon": "tsp", "teaspoons": "tsp",
	"tablespoon": "tbsp", "tablespoons": "tbsp",
	"cups": "cup",
	"fl oz": "floz", "fl-oz": "floz", "fluid ounce": "floz", "fluid ounces": "floz",
	"each": "pcs", "ea": "pcs", "pc": "pcs", "piece": "pcs", "pieces": "pcs",
	"unit": "pcs", "units": "pcs", "stk": "pcs",
	"portions": "portion", "serving": "portion", "servings": "portion", "por": "portion",
}

// massToGrams: canonical mass unit factors (1 unit = N grams).
var massToGrams = map[string]float64{
	"g":  1,
	"kg": 1000,
	"mg": 0.001,
	"oz": 28.349523125,
	"lb": 453.59237,
}

// volumeToMl: canonical volume unit factors (1 unit = N milliliters).
var volumeToMl = map[string]float64{
	"ml":   1,
	"l":    1000,
	"tsp":  4.92892159375,
	"tbsp": 14.78676478125,
	"cup":  236.5882365,
	"floz": 29.5735295625,
}

// NormalizeUnit trims, lowercases and folds synonyms. Unknown unit
// strings come back unchanged (lowercased).
func NormalizeUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if canon, ok := unitSynonyms[u]; ok {
		return canon
	}
	return u
}

// unitFamily classifies a normalized unit.
func unitFamily(unit string) string {
	if _, ok := massToGrams[unit]; ok {
		return famMass
	}
	if _, ok := volumeToMl[unit]; ok {
		return famVolume
	}
	switch unit {
	case "pcs":
		return famPiece
	case "portion":
		return famPortion
	}
	return famUnknown
}

// ConvStatus tags the outcome of a conversion. The original behavior of
// passing quantities through unchanged on a family mismatch is kept, but
// made observable instead of a silent numeric no-op.
type ConvStatus int

const (
	// ConvConverted — a real conversion happened (or none was needed).
	ConvConverted ConvStatus = iota
	// ConvApproximated — both units are known but no bridge exists
	// between their families; the quantity passed through unchanged.
	// This is a deliberate lenient fallback, not a correctness claim.
	ConvApproximated
	// ConvUnsupported — at least one unit string is unknown; the
	// quantity passed through unchanged.
	ConvUnsupported
)

// Conversion is the tagged result of a unit conversion.
type Conversion struct {
	Qty    float64
	Status ConvStatus
}

// Convert translates qty between two units of the same family. Cross-family
// requests without an ingredient bridge, and unknown units, pass the
// quantity through unchanged with a non-Converted status.
func Convert(qty float64, fromUnit, toUnit string) Conversion {
	qty = safeFloat(qty)
	from := NormalizeUnit(fromUnit)
	to := NormalizeUnit(toUnit)
	if from == to {
		return Conversion{Qty: qty, Status: ConvConverted}
	}

	ff, tf := unitFamily(from), unitFamily(to)
	if ff == famUnknown || tf == famUnknown {
		return Conversion{Qty: qty, Status: ConvUnsupported}
	}
	if ff == tf {
		switch ff {
		case famMass:
			return Conversion{Qty: qty * massToGrams[from] / massToGrams[to], Status: ConvConverted}
		case famVolume:
			return Conversion{Qty: qty * volumeToMl[from] / volumeToMl[to], Status: ConvConverted}
		default:
			// piece↔piece and portion↔portion normalize to the same
			// string, so this is only reached for exotic future units.
			return Conversion{Qty: qty, Status: ConvConverted}
		}
	}
	return Conversion{Qty: qty, Status: ConvApproximated}
}

// convertForIngredient is Convert with the ingredient's bridges available:
// density (g/ml) links mass↔volume, grams-per-piece links pieces↔mass and,
// chained with density, pieces↔volume. A missing or non-positive bridge
// degrades to the same observable passthrough as Convert.
func convertForIngredient(qty float64, fromUnit, toUnit string, ing *model.Ingredient) Conversion {
	qty = safeFloat(qty)
	from := NormalizeUnit(fromUnit)
	to := NormalizeUnit(toUnit)
	ff, tf := unitFamily(from), unitFamily(to)

	if ff == tf || ff == famUnknown || tf == famUnknown {
		return Convert(qty, from, to)
	}

	grams, ok := bridgeToGrams(qty, from, ff, ing)
	if !ok {
		return Conversion{Qty: qty, Status: ConvApproximated}
	}
	out, ok := bridgeFromGrams(grams, to, tf, ing)
	if !ok {
		return Conversion{Qty: qty, Status: ConvApproximated}
	}
	return Conversion{Qty: out, Status: ConvConverted}
}

func bridgeToGrams(qty float64, unit, family string, ing *model.Ingredient) (float64, bool) {
	switch family {
	case famMass:
		return qty * massToGrams[unit], true
	case famVolume:
		if d := density(ing); d > 0 {
			return qty * volumeToMl[unit] * d, true
		}
	case famPiece:
		if g := gramsPerPiece(ing); g > 0 {
			return qty * g, true
		}
	}
	return 0, false
}

func bridgeFromGrams(grams float64, unit, family string, ing *model.Ingredient) (float64, bool) {
	switch family {
	case famMass:
		return grams / massToGrams[unit], true
	case famVolume:
		if d := density(ing); d > 0 {
			return grams / d / volumeToMl[unit], true
		}
	case famPiece:
		if g := gramsPerPiece(ing); g > 0 {
			return grams / g, true
		}
	}
	return 0, false
}

// toGrams resolves a quantity to grams for the nutrition pipeline. Unlike
// the cost path there is no lenient passthrough here: an unresolvable unit
// is a hard skip with the returned reason.
func toGrams(qty float64, unit string, ing *model.Ingredient) (float64, string) {
	u := NormalizeUnit(unit)
	switch unitFamily(u) {
	case famMass:
		return safeFloat(qty) * massToGrams[u], ""
	case famVolume:
		d := density(ing)
		if d <= 0 {
			return 0, SkipMissingDensity
		}
		return safeFloat(qty) * volumeToMl[u] * d, ""
	case famPiece:
		g := gramsPerPiece(ing)
		if g <= 0 {
			return 0, SkipMissingGramsPerPiece
		}
		return safeFloat(qty) * g, ""
	default:
		return 0, SkipUnsupportedUnit
	}
}

func density(ing *model.Ingredient) float64 {
	if ing == nil || ing.DensityGPerML == nil {
		return 0
	}
	return safeFloat(*ing.DensityGPerML)
}

func gramsPerPiece(ing *model.Ingredient) float64 {
	if ing == nil || ing.GramsPerPiece == nil {
		return 0
	}
	return safeFloat(*ing.GramsPerPiece)
}
