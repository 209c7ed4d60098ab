// Package interfaces defines service contracts for tenk
package interfaces

import (
	"context"
	"time"

	"github.com/tenkhq/tenk/internal/models"
)

// PriceClient fetches historical close prices from the upstream data source.
// An unknown symbol or empty history yields an empty series, not an error;
// only genuine transport failures are surfaced.
type PriceClient interface {
	GetCloseSeries(ctx context.Context, symbol string, from, to time.Time) ([]models.ClosePrice, error)
}

// AIClient generates free-text content (portfolio commentary).
type AIClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
