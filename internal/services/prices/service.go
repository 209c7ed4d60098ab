// Package prices provides cached historical close-price lookups.
package prices

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tenkhq/tenk/internal/common"
	"github.com/tenkhq/tenk/internal/interfaces"
	"github.com/tenkhq/tenk/internal/models"
)

// Service is a read-through cache over a PriceClient. Entries live for the
// process lifetime; Clear (called on new data ingestion) is the only
// eviction. Prices are not user-specific, so the cache is shared across all
// users and must tolerate concurrent readers.
type Service struct {
	client interfaces.PriceClient
	logger *common.Logger

	mu    sync.RWMutex
	cache map[string][]models.ClosePrice // keyed by symbol|from|to
}

// NewService creates a price service backed by the given client.
func NewService(client interfaces.PriceClient, logger *common.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
		cache:  make(map[string][]models.ClosePrice),
	}
}

func cacheKey(symbol, from, to string) string {
	return symbol + "|" + from + "|" + to
}

// Series returns the close series for symbol over [from, to] (both
// YYYY-MM-DD). A cache miss triggers exactly one upstream fetch and the
// result (including an empty one) is cached before return. Concurrent
// misses on the same key may both fetch; last writer wins, which is fine
// because price data is idempotent to refetch.
func (s *Service) Series(ctx context.Context, symbol, from, to string) ([]models.ClosePrice, error) {
	key := cacheKey(symbol, from, to)

	s.mu.RLock()
	series, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return series, nil
	}

	fromDate, err := time.Parse(models.DateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("invalid from date %q: %w", from, err)
	}
	toDate, err := time.Parse(models.DateLayout, to)
	if err != nil {
		return nil, fmt.Errorf("invalid to date %q: %w", to, err)
	}

	fetched, err := s.client.GetCloseSeries(ctx, symbol, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("price fetch for %s: %w", symbol, err)
	}

	s.mu.Lock()
	s.cache[key] = fetched
	s.mu.Unlock()

	s.logger.Debug().Str("symbol", symbol).Int("days", len(fetched)).Msg("Price series cached")
	return fetched, nil
}

// Clear drops all cached series.
func (s *Service) Clear() {
	s.mu.Lock()
	s.cache = make(map[string][]models.ClosePrice)
	s.mu.Unlock()
}

// CloseOnOrBefore returns the most recent close at or before date from an
// ascending series. This is how weekend and holiday gaps are filled with the
// last trading day's close. Returns false when the date predates the series.
func CloseOnOrBefore(series []models.ClosePrice, date string) (float64, bool) {
	if len(series) == 0 {
		return 0, false
	}

	// First index with series[i].Date > date; the bar before it is the answer.
	idx := sort.Search(len(series), func(i int) bool {
		return series[i].Date > date
	})
	if idx == 0 {
		return 0, false
	}
	return series[idx-1].Close, true
}

var _ interfaces.PriceSource = (*Service)(nil)
