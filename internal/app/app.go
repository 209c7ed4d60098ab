// Package app wires configuration, storage, clients, and services into one
// shared core used by cmd/tenk-server and tests.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tenkhq/tenk/internal/clients/eodhd"
	"github.com/tenkhq/tenk/internal/clients/gemini"
	"github.com/tenkhq/tenk/internal/common"
	"github.com/tenkhq/tenk/internal/interfaces"
	"github.com/tenkhq/tenk/internal/services/ingest"
	"github.com/tenkhq/tenk/internal/services/insight"
	"github.com/tenkhq/tenk/internal/services/portfolio"
	"github.com/tenkhq/tenk/internal/services/prices"
	"github.com/tenkhq/tenk/internal/services/review"
	"github.com/tenkhq/tenk/internal/storage/surrealdb"
)

// App holds all initialized clients and services.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Storage     interfaces.StorageManager
	Prices      interfaces.PriceSource
	Portfolio   interfaces.PortfolioService
	Ingest      interfaces.IngestService
	Insight     interfaces.InsightService
	Review      interfaces.ReviewService
	StartupTime time.Time
}

// NewApp initializes all services, clients, and storage.
// configPath may be empty, in which case TENK_CONFIG and the default paths
// are tried in order.
func NewApp(configPath string) (*App, error) {
	if configPath == "" {
		configPath = os.Getenv("TENK_CONFIG")
	}
	if configPath == "" {
		configPath = "config/tenk.toml"
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx := context.Background()
	checkSchemaVersion(ctx, storageManager, logger)

	// API keys resolve from environment, then system KV, then config, so a
	// key stored at runtime survives config rollouts.
	kv := storageManager.Internal()

	eodhdKey, err := common.ResolveAPIKey(ctx, kv, "eodhd_api_key", config.Clients.EODHD.APIKey)
	if err != nil {
		logger.Warn().Msg("EODHD API key not configured - price fetches will fail")
	}
	eodhdClient := eodhd.NewClient(
		eodhdKey,
		eodhd.WithBaseURL(config.Clients.EODHD.BaseURL),
		eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
		eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
		eodhd.WithLogger(logger),
	)

	priceSource := prices.NewService(eodhdClient, logger)
	portfolioSvc := portfolio.NewService(storageManager, priceSource, config, logger)
	ingestSvc := ingest.NewService(storageManager, priceSource, portfolioSvc, logger)
	insightSvc := insight.NewService(storageManager, portfolioSvc, logger)

	// The review service is optional; everything else works without it.
	var reviewSvc interfaces.ReviewService
	geminiKey, err := common.ResolveAPIKey(ctx, kv, "gemini_api_key", config.Clients.Gemini.APIKey)
	if err != nil {
		logger.Info().Msg("Gemini API key not configured - review endpoint disabled")
	} else {
		geminiClient, err := gemini.NewClient(
			ctx,
			geminiKey,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Gemini client unavailable - review endpoint disabled")
		} else {
			reviewSvc = review.NewService(geminiClient, portfolioSvc, logger)
		}
	}

	app := &App{
		Config:      config,
		Logger:      logger,
		Storage:     storageManager,
		Prices:      priceSource,
		Portfolio:   portfolioSvc,
		Ingest:      ingestSvc,
		Insight:     insightSvc,
		Review:      reviewSvc,
		StartupTime: time.Now(),
	}

	logger.Info().
		Str("version", common.GetVersion()).
		Str("environment", config.Environment).
		Msg("Application initialized")

	return app, nil
}

// Close releases storage connections.
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
