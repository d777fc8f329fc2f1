package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/brandlens/brandlens/internal/api"
	"github.com/brandlens/brandlens/internal/config"
	"github.com/brandlens/brandlens/internal/enrich"
	"github.com/brandlens/brandlens/internal/fetch"
	"github.com/brandlens/brandlens/internal/llm"
	"github.com/brandlens/brandlens/internal/observability"
	"github.com/brandlens/brandlens/internal/pipeline"
	"github.com/brandlens/brandlens/internal/repository/postgres"
	rediscache "github.com/brandlens/brandlens/internal/repository/redis"
	"github.com/brandlens/brandlens/internal/storage"
)

func main() {
	godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.App.Environment, cfg.App.LogLevel)
	defer logger.Sync()

	logger.Info("Starting BrandLens API",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// Connect to PostgreSQL
	db, err := postgres.New(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
	)

	// Connect to Redis (optional)
	var cache *rediscache.Cache
	cache, err = rediscache.New(cfg.Redis)
	if err != nil {
		logger.Warn("Failed to connect to Redis, caching disabled", zap.Error(err))
		cache = nil
	} else {
		defer cache.Close()
		logger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr()))
	}

	// Connect to object storage (optional)
	var store *storage.MinIOClient
	store, err = storage.NewMinIOClient(cfg.Storage)
	if err != nil {
		logger.Warn("Failed to create storage client, logo and report storage disabled", zap.Error(err))
		store = nil
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := store.EnsureBucket(ctx); err != nil {
			logger.Warn("Failed to reach object storage, logo and report storage disabled", zap.Error(err))
			store = nil
		}
		cancel()
	}

	// Claude client for AI enrichment
	claude, err := llm.NewClaudeClient(llm.Config{
		APIKey:       cfg.Claude.APIKey,
		Model:        cfg.Claude.Model,
		MaxTokens:    cfg.Claude.MaxTokens,
		Temperature:  cfg.Claude.Temperature,
		Timeout:      cfg.Claude.Timeout,
		RateLimitRPM: cfg.Claude.RateLimitRPM,
		CacheTTL:     cfg.Claude.CacheTTL,
		MaxRetries:   cfg.Claude.MaxRetries,
	})
	if err != nil {
		logger.Fatal("Failed to create Claude client", zap.Error(err))
	}

	// Page fetcher, rendered when playwright is available
	httpFetcher := fetch.NewHTTPFetcher(cfg.Fetch, logger)
	var fetcher fetch.Fetcher = httpFetcher
	if cfg.Fetch.RenderEnabled {
		rendered, err := fetch.NewRenderedFetcher(cfg.Fetch, httpFetcher, logger)
		if err != nil {
			logger.Warn("Failed to start browser, falling back to static fetching", zap.Error(err))
		} else {
			defer rendered.Close()
			fetcher = rendered
		}
	}

	metrics := observability.InitMetrics(cfg.App.Name)

	// Assemble the extraction pipeline
	opts := []pipeline.Option{pipeline.WithMetrics(metrics)}
	if cache != nil {
		opts = append(opts, pipeline.WithCache(cache))
	}
	if store != nil {
		opts = append(opts, pipeline.WithLogoStore(store))
	}
	pipe := pipeline.New(cfg.Pipeline, fetcher, enrich.NewEnricher(claude, logger), logger, opts...)

	// Initialize repositories
	repos := postgres.NewRepositories(db.DB)

	// Create router
	routerCfg := api.RouterConfig{
		DB:          db,
		Repos:       repos,
		Cache:       cache,
		Pipeline:    pipe,
		Metrics:     metrics,
		RunTimeout:  cfg.Pipeline.TotalTimeout,
		Logger:      logger,
		EnableCORS:  cfg.Security.CORSEnabled,
		RateLimit:   cfg.RateLimits.RequestsPerMin,
		Development: cfg.IsDevelopment(),
	}
	if store != nil {
		routerCfg.ReportStore = store
	}
	router := api.NewRouter(routerCfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", zap.String("addr", addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatal("Server error", zap.Error(err))

	case sig := <-shutdown:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Create shutdown context with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown failed, forcing close", zap.Error(err))
			server.Close()
		}

		logger.Info("Server stopped gracefully")
	}
}

// initLogger creates a configured zap logger
func initLogger(env, level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	var config zap.Config
	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := config.Build()
	if err != nil {
		// Fall back to basic logger
		logger, _ = zap.NewProduction()
	}

	return logger
}
