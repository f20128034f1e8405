// cmd/recostd — recost worker daemon.
// Consumes recalculation jobs from Redis and keeps the cached kitchen
// report fresh. Runs until SIGINT/SIGTERM.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/cache"
	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/config"
	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/costing"
	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/infra"
	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/repository"
	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/service"
	"github.com/Gastrochef83/gastrochef-recipes-sub001/internal/worker"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	repo := repository.NewKitchenRepository(db)
	engine := costing.New(cfg.EngineOptions())
	svc := service.NewCostingService(repo, cache.NewRedisCache(rdb), engine, cfg.ReportCacheTTL())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker.StartPool(ctx, rdb, svc, cfg.WorkerPoolSize)
	log.Info().Msg("recostd running")

	// Graceful shutdown on SIGINT / SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down workers…")
	cancel()
	// Workers poll with a 5s BRPOP timeout; give them one cycle to drain.
	time.Sleep(time.Second)
	log.Info().Msg("recostd exited")
}
