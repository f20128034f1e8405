package costing

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/model"
)

// Convergence defaults. Both are configurable via Options so callers can
// trade precision against worst-case work.
const DefaultMaxPasses = 12

// DefaultEpsilon is 1e-7: a recipe total moving by less than this between
// passes counts as stable.
var DefaultEpsilon = decimal.New(1, -7)

// Options tune the convergence driver. The zero value selects defaults.
type Options struct {
	MaxPasses int
	Epsilon   decimal.Decimal
}

// Engine runs the fixed-point costing over a kitchen snapshot. It holds
// no state between runs; a single Engine may be shared across goroutines
// as long as each call gets its own consistent input snapshot.
type Engine struct {
	opts Options
}

func New(opts Options) *Engine {
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = DefaultMaxPasses
	}
	if opts.Epsilon.Sign() <= 0 {
		opts.Epsilon = DefaultEpsilon
	}
	return &Engine{opts: opts}
}

// Input is the read-only kitchen snapshot supplied by the storage
// collaborator. The engine never mutates it.
type Input struct {
	Recipes     []model.Recipe
	Lines       []model.RecipeLine
	Ingredients []model.Ingredient
}

// RecipeTotals is the per-recipe costing outcome. FoodCostPct, Margin and
// MarginPct are nil when the recipe has no positive selling price.
type RecipeTotals struct {
	TotalCost      decimal.Decimal  `json:"total_cost"`
	CostPerPortion decimal.Decimal  `json:"cost_per_portion"`
	FoodCostPct    *decimal.Decimal `json:"food_cost_pct,omitempty"`
	Margin         *decimal.Decimal `json:"margin,omitempty"`
	MarginPct      *decimal.Decimal `json:"margin_pct,omitempty"`
	Warnings       []string         `json:"warnings,omitempty"`
}

// CostDiagnostics summarizes the run. LastDelta is the largest total
// movement observed in the final pass, so callers can detect
// non-convergence (Converged=false, LastDelta above epsilon) instead of
// inferring it.
type CostDiagnostics struct {
	Passes                 int             `json:"passes"`
	Converged              bool            `json:"converged"`
	LastDelta              decimal.Decimal `json:"last_delta"`
	UnitMismatches         int             `json:"unit_mismatches"`
	MissingYields          int             `json:"missing_yields"`
	MissingIngredientCosts int             `json:"missing_ingredient_costs"`
}

// Result maps every recipe in scope to its totals and raw batch cost.
type Result struct {
	Totals      map[uuid.UUID]RecipeTotals    `json:"totals"`
	Costs       map[uuid.UUID]decimal.Decimal `json:"costs"`
	Diagnostics CostDiagnostics               `json:"diagnostics"`
}

// Cost evaluates the whole snapshot to a fixed point. Sub-recipe costs
// depend on other recipes' costs (possibly cyclically), so the cost table
// starts at zero and recipes are re-evaluated until no total moves by more
// than epsilon or the pass cap is hit. There is no explicit cycle
// detection: a genuine cycle simply stops improving and keeps the values
// of the last pass, bounding worst-case work at MaxPasses × recipes ×
// lines.
//
// Within a pass every line reads the cost table snapshot taken at the
// start of that pass, so results do not depend on recipe iteration order.
func (e *Engine) Cost(in Input) Result {
	ingredients := make(map[uuid.UUID]model.Ingredient, len(in.Ingredients))
	for _, ing := range in.Ingredients {
		ingredients[ing.ID] = ing
	}
	recipes := make(map[uuid.UUID]model.Recipe, len(in.Recipes))
	for _, r := range in.Recipes {
		recipes[r.ID] = r
	}
	linesByRecipe := make(map[uuid.UUID][]model.RecipeLine, len(in.Recipes))
	for _, l := range in.Lines {
		linesByRecipe[l.RecipeID] = append(linesByRecipe[l.RecipeID], l)
	}

	// Deterministic evaluation order.
	order := make([]uuid.UUID, 0, len(in.Recipes))
	for _, r := range in.Recipes {
		order = append(order, r.ID)
	}
	sort.Slice(order, func(i, j int) bool {
		return bytes.Compare(order[i][:], order[j][:]) < 0
	})

	costs := make(map[uuid.UUID]decimal.Decimal, len(order))
	for _, id := range order {
		costs[id] = decimal.Zero
	}

	res := Result{Totals: make(map[uuid.UUID]RecipeTotals, len(order))}

	for pass := 1; pass <= e.opts.MaxPasses; pass++ {
		snapshot := make(map[uuid.UUID]decimal.Decimal, len(costs))
		for id, c := range costs {
			snapshot[id] = c
		}

		changed := false
		maxDelta := decimal.Zero
		diag := CostDiagnostics{Passes: pass}
		totals := make(map[uuid.UUID]RecipeTotals, len(order))

		for _, id := range order {
			recipe := recipes[id]
			total := decimal.Zero
			var warnings []string

			for _, line := range linesByRecipe[id] {
				lr := ResolveLine(line, ingredients, recipes, snapshot)
				total = total.Add(lr.LineCost)
				warnings = append(warnings, lr.Warnings...)
			}

			for _, w := range warnings {
				switch w {
				case WarnUnitFamilyMismatch:
					diag.UnitMismatches++
				case WarnMissingYieldOnSubrecipe:
					diag.MissingYields++
				case WarnIngredientWithoutPrice, WarnMissingIngredient:
					diag.MissingIngredientCosts++
				}
			}

			delta := total.Sub(costs[id]).Abs()
			if delta.Cmp(maxDelta) > 0 {
				maxDelta = delta
			}
			if delta.Cmp(e.opts.Epsilon) > 0 {
				changed = true
			}
			costs[id] = total
			totals[id] = buildTotals(recipe, total, warnings)
		}

		diag.LastDelta = maxDelta
		diag.Converged = !changed
		res.Totals = totals
		res.Diagnostics = diag

		if !changed {
			break
		}
	}

	res.Costs = costs
	return res
}

func buildTotals(r model.Recipe, total decimal.Decimal, warnings []string) RecipeTotals {
	t := RecipeTotals{
		TotalCost:      total,
		CostPerPortion: total.Div(decimal.NewFromInt(int64(r.EffectivePortions()))),
		Warnings:       dedupeWarnings(warnings),
	}
	if r.SellingPrice != nil && r.SellingPrice.IsPositive() {
		sp := *r.SellingPrice
		fc := t.CostPerPortion.Div(sp).Mul(decimal.NewFromInt(100))
		margin := sp.Sub(t.CostPerPortion)
		marginPct := margin.Div(sp).Mul(decimal.NewFromInt(100))
		t.FoodCostPct = &fc
		t.Margin = &margin
		t.MarginPct = &marginPct
	}
	return t
}

// dedupeWarnings keeps first-seen order and caps the list.
func dedupeWarnings(warnings []string) []string {
	if len(warnings) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(warnings))
	out := make([]string, 0, maxRecipeWarnings)
	for _, w := range warnings {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
		if len(out) == maxRecipeWarnings {
			break
		}
	}
	return out
}
