package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"cineze/internal/adapter/repo"
	"cineze/internal/diagnostic"
	"cineze/internal/infra"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if err := cfg.RequireDatabase(); err != nil {
		logger.Fatal().Err(err).Msg("sweeper: invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("sweeper: db connection failed")
	}
	defer pool.Close()

	jobs := repo.NewDiagnosticRepository(infra.NewSQLRunner(pool, logger))
	sweeper := diagnostic.NewSweeper(jobs, cfg.StaleJobAfter, cfg.SweepInterval, logger)

	logger.Info().
		Dur("stale_after", cfg.StaleJobAfter).
		Dur("interval", cfg.SweepInterval).
		Msg("sweeper: started")
	if err := sweeper.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("sweeper: stopped with error")
	}
	logger.Info().Msg("sweeper: stopped")
}
