package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"cineze/internal/adapter/repo"
	"cineze/internal/diagnostic"
	"cineze/internal/http/handlers"
	httpapi "cineze/internal/http/httpapi"
	"cineze/internal/infra"
	"cineze/internal/infra/credentials"
	"cineze/internal/providers/textgen"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel)
	if err := cfg.RequireDatabase(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := cfg.RequireJWTSecret(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()
	runner := infra.NewSQLRunner(dbpool, logger)

	creds := credentials.NewStore(runner)
	geminiKey, err := creds.ResolveKey(ctx, credentials.ProviderGemini, cfg.GeminiAPIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load gemini api key from store")
	}
	openAIKey, err := creds.ResolveKey(ctx, credentials.ProviderOpenAI, cfg.OpenAIAPIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load openai api key from store")
	}

	gen, err := textgen.New(ctx, textgen.Options{
		Provider:      cfg.TextgenProvider,
		GeminiAPIKey:  geminiKey,
		GeminiBaseURL: cfg.GeminiBaseURL,
		OpenAIAPIKey:  openAIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIModel:   cfg.SynthesizerModel,
		HTTPClient:    &http.Client{Timeout: 120 * time.Second},
		OnWarning: func(reason, detail string) {
			logger.Warn().Str("reason", reason).Str("detail", detail).Msg("textgen model normalized")
		},
	})
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.TextgenProvider).Msg("failed to configure text generator")
	}

	catalog, err := diagnostic.DefaultRoles()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid role catalog")
	}
	roles, err := catalog.ForProvider(cfg.TextgenProvider, cfg.SpecialistModel, cfg.SynthesizerModel)
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.TextgenProvider).Msg("invalid model tiers")
	}
	logger.Info().
		Str("provider", cfg.TextgenProvider).
		Str("specialist_model", roles.SpecialistModel).
		Str("synthesizer_model", roles.SynthesizerModel).
		Msg("model tiers")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := diagnostic.NewMetrics(registry)

	jobs := repo.NewDiagnosticRepository(runner)
	app := &handlers.App{
		Diagnostics:  diagnostic.NewOrchestrator(gen, jobs, roles, logger, metrics),
		Jobs:         jobs,
		Entitlements: repo.NewProfileRepository(runner),
		DB:           dbpool,
		Logger:       logger,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:          cfg.JWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		StatusRateLimit:    cfg.StatusRateLimit,
		Gatherer:           registry,
		Logger:             logger,
	})
	server := infra.NewHTTPServer(cfg, router)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr()).Str("provider", cfg.TextgenProvider).Msg("API listening")
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}

	// in-flight generations can run for minutes; give them the write timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPWriteTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
