// cmd/recost — one-shot costing run.
// Loads the kitchen from Postgres, runs the convergence engine, prints a
// per-recipe summary and refreshes the shared Redis report cache.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/cache"
	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/config"
	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/costing"
	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/infra"
	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/repository"
	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/service"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	repo := repository.NewKitchenRepository(db)
	engine := costing.New(cfg.EngineOptions())

	// Prefer the shared Redis cache so the daemon and dashboards see the
	// refreshed report; fall back to in-process when Redis is unreachable.
	var store cache.Cache
	if rdb, err := infra.NewRedis(cfg.RedisURL); err == nil {
		store = cache.NewRedisCache(rdb)
	} else {
		log.Warn().Err(err).Msg("redis unavailable, using in-memory cache")
		store = cache.NewMemoryCache(cfg.ReportCacheTTL())
	}

	svc := service.NewCostingService(repo, store, engine, cfg.ReportCacheTTL())

	ctx := context.Background()
	svc.Invalidate(ctx) // force a fresh computation
	report, err := svc.CostKitchen(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("costing run failed")
	}

	printReport(report)

	if !report.Diagnostics.Converged {
		os.Exit(1)
	}
}

func printReport(report *service.KitchenReport) {
	ids := make([]uuid.UUID, 0, len(report.Totals))
	for id := range report.Totals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	fmt.Printf("%-38s %12s %12s %10s\n", "RECIPE", "TOTAL", "PER PORTION", "FC%")
	for _, id := range ids {
		t := report.Totals[id]
		fc := "-"
		if t.FoodCostPct != nil {
			fc = t.FoodCostPct.StringFixed(1)
		}
		fmt.Printf("%-38s %12s %12s %10s\n", id, t.TotalCost.StringFixed(2), t.CostPerPortion.StringFixed(2), fc)
		for _, w := range t.Warnings {
			fmt.Printf("    ! %s\n", w)
		}
	}

	d := report.Diagnostics
	fmt.Printf("\npasses=%d converged=%t last_delta=%s unit_mismatches=%d missing_yields=%d missing_costs=%d\n",
		d.Passes, d.Converged, d.LastDelta.String(), d.UnitMismatches, d.MissingYields, d.MissingIngredientCosts)
}
