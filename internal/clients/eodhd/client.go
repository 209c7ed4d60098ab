// Package eodhd provides a client for the EODHD historical price API
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/tenkhq/tenk/internal/common"
	"github.com/tenkhq/tenk/internal/models"
)

const (
	DefaultBaseURL   = "https://eodhd.com/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client implements the PriceClient interface against EODHD.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new EODHD client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// eodBar is the wire shape of one EOD row.
type eodBar struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// GetCloseSeries retrieves daily close prices for [from, to], ascending by
// date. Unknown symbols and empty histories return an empty slice, not an
// error; delisted tickers must not abort a reconstruction.
func (c *Client) GetCloseSeries(ctx context.Context, symbol string, from, to time.Time) ([]models.ClosePrice, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")
	params.Set("period", "d")
	params.Set("order", "a")
	params.Set("from", from.Format(models.DateLayout))
	params.Set("to", to.Format(models.DateLayout))

	endpoint := "/eod/" + url.PathEscape(symbol)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("symbol", symbol).Str("from", from.Format(models.DateLayout)).Str("to", to.Format(models.DateLayout)).Msg("EODHD price request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// EODHD answers 404 for unknown tickers: that's "no data", not a fault.
	if resp.StatusCode == http.StatusNotFound {
		c.logger.Warn().Str("symbol", symbol).Msg("No price data for symbol")
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   endpoint,
		}
	}

	var bars []eodBar
	if err := json.NewDecoder(resp.Body).Decode(&bars); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	series := make([]models.ClosePrice, 0, len(bars))
	for _, b := range bars {
		if len(b.Date) < 10 || b.Close <= 0 {
			continue
		}
		series = append(series, models.ClosePrice{Date: b.Date[:10], Close: b.Close})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })

	return series, nil
}
