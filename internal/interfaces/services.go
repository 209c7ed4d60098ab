package interfaces

import (
	"context"
	"io"

	"github.com/tenkhq/tenk/internal/models"
)

// PriceSource provides cached historical close series and point lookups.
type PriceSource interface {
	// Series returns the close series for a symbol over [from, to]. A cache
	// miss triggers exactly one upstream fetch; the result is cached before
	// return. Entries never expire; Clear is the only eviction.
	Series(ctx context.Context, symbol, from, to string) ([]models.ClosePrice, error)
	// Clear drops all cached series. Called on new data ingestion.
	Clear()
}

// PortfolioService reconstructs history and computes return metrics.
type PortfolioService interface {
	// RebuildHistory replays the user's transaction log into a valued
	// day-by-day snapshot series and persists it. Returns the number of
	// snapshot days produced.
	RebuildHistory(ctx context.Context, userID string) (int, error)

	History(ctx context.Context, userID string) ([]models.Snapshot, error)
	Weights(ctx context.Context, userID string) ([]models.Weight, error)
	RecentTrades(ctx context.Context, userID string, limit int) ([]models.Transaction, error)
	Performance(ctx context.Context, userID string) (map[string]models.PeriodMetric, error)

	// Comparison returns the growth-of-$10k series for the portfolio vs the
	// benchmark. baselineDate may be empty (portfolio start).
	Comparison(ctx context.Context, userID, baselineDate string) ([]models.ComparisonPoint, error)

	// Returns computes all four return metrics over the user's history.
	Returns(ctx context.Context, userID string) (*models.ReturnsReport, error)
}

// IngestService parses brokerage CSV exports into normalized transactions.
type IngestService interface {
	// Ingest parses, persists (replace-all), clears the price cache, and
	// triggers a history rebuild.
	Ingest(ctx context.Context, userID string, r io.Reader) (*models.IngestResult, error)
}

// InsightService derives badges from history and transactions.
type InsightService interface {
	Badges(ctx context.Context, userID string) ([]models.Badge, error)
}

// ReviewService produces an AI commentary over the return metrics.
type ReviewService interface {
	Review(ctx context.Context, userID string) (string, error)
}
