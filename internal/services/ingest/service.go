// Package ingest parses brokerage CSV exports into normalized transactions.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tenkhq/tenk/internal/common"
	"github.com/tenkhq/tenk/internal/interfaces"
	"github.com/tenkhq/tenk/internal/models"
)

// Service implements IngestService
type Service struct {
	storage   interfaces.StorageManager
	prices    interfaces.PriceSource
	portfolio interfaces.PortfolioService
	logger    *common.Logger
}

// NewService creates a new ingest service
func NewService(storage interfaces.StorageManager, prices interfaces.PriceSource, portfolioSvc interfaces.PortfolioService, logger *common.Logger) *Service {
	return &Service{
		storage:   storage,
		prices:    prices,
		portfolio: portfolioSvc,
		logger:    logger,
	}
}

// Ingest parses a Fidelity or Schwab CSV export, replaces the user's stored
// transaction log wholesale, clears the price cache, and rebuilds the
// snapshot history. Re-uploading the same file is idempotent.
func (s *Service) Ingest(ctx context.Context, userID string, r io.Reader) (*models.IngestResult, error) {
	format, txs, err := parseCSV(userID, r)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, fmt.Errorf("no usable transactions in upload")
	}

	sort.SliceStable(txs, func(i, j int) bool { return models.SortTransactions(txs[i], txs[j]) })

	if err := s.storage.Transactions().ReplaceAll(ctx, userID, txs); err != nil {
		return nil, fmt.Errorf("failed to save transactions: %w", err)
	}

	// Stale cached series would poison the rebuild.
	s.prices.Clear()

	days, err := s.portfolio.RebuildHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &models.IngestResult{
		Format:           format,
		TransactionCount: len(txs),
		Symbols:          tradedSymbols(txs),
		StartDate:        txs[0].Date,
		EndDate:          txs[len(txs)-1].Date,
		SnapshotDays:     days,
	}

	s.logger.Info().
		Str("user", userID).
		Str("format", format).
		Int("transactions", result.TransactionCount).
		Int("days", days).
		Msg("Ingested transaction upload")

	return result, nil
}

func tradedSymbols(txs []models.Transaction) []string {
	seen := make(map[string]bool)
	var symbols []string
	for _, t := range txs {
		if t.Symbol == "" || t.Symbol == models.CashSymbol || seen[t.Symbol] {
			continue
		}
		seen[t.Symbol] = true
		symbols = append(symbols, t.Symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// parseCSV detects the export format from the header row and normalizes
// every data row. Fidelity exports are keyed by "Run Date" and drop rows
// without a symbol; Schwab exports are keyed by "Date" and keep cash rows.
func parseCSV(userID string, r io.Reader) (string, []models.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return "", nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	_, hasRunDate := cols["Run Date"]
	_, hasDate := cols["Date"]
	_, hasAction := cols["Action"]
	_, hasSymbol := cols["Symbol"]
	_, hasAmount := cols["Amount"]
	_, hasAmountDollar := cols["Amount ($)"]

	switch {
	case hasRunDate && hasAction && hasSymbol:
		txs, err := parseRows(userID, reader, cols, fidelityLayout)
		return "fidelity", txs, err
	case hasDate && hasAction && hasSymbol && (hasAmount || hasAmountDollar):
		txs, err := parseRows(userID, reader, cols, schwabLayout)
		return "schwab", txs, err
	default:
		return "", nil, fmt.Errorf("unsupported CSV format: expected Fidelity columns [Run Date, Action, Symbol] or Schwab columns [Date, Action, Symbol, Amount]")
	}
}

// rowLayout names the columns one export format uses and whether rows
// without a symbol are kept.
type rowLayout struct {
	dateCols     []string // first non-empty wins
	quantityCols []string
	priceCols    []string
	amountCols   []string
	keepCashRows bool
}

var fidelityLayout = rowLayout{
	dateCols:     []string{"Settlement Date", "Run Date"},
	quantityCols: []string{"Quantity"},
	priceCols:    []string{"Price ($)", "Price"},
	amountCols:   []string{"Amount ($)", "Amount"},
	keepCashRows: false,
}

var schwabLayout = rowLayout{
	dateCols:     []string{"Date"},
	quantityCols: []string{"Quantity", "Qty"},
	priceCols:    []string{"Price", "Price ($)"},
	amountCols:   []string{"Amount", "Amount ($)"},
	keepCashRows: true,
}

func parseRows(userID string, reader *csv.Reader, cols map[string]int, layout rowLayout) ([]models.Transaction, error) {
	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	first := func(row []string, names []string) string {
		for _, name := range names {
			if v := field(row, name); v != "" {
				return v
			}
		}
		return ""
	}

	var txs []models.Transaction
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		symbol := field(row, "Symbol")
		if symbol == "" && !layout.keepCashRows {
			continue
		}

		date, ok := parseDate(first(row, layout.dateCols))
		if !ok {
			// Footer and disclaimer lines in brokerage exports land here.
			continue
		}

		action := field(row, "Action")
		amount := parseNumber(first(row, layout.amountCols))

		t := models.Transaction{
			UserID:   userID,
			Date:     date,
			Action:   action,
			Symbol:   symbol,
			Quantity: parseNumber(first(row, layout.quantityCols)),
			Price:    parseNumber(first(row, layout.priceCols)),
			Amount:   amount,
		}
		t.Kind = models.NormalizeAction(action, symbol, amount)
		txs = append(txs, t)
	}
	return txs, nil
}

var dateLayouts = []string{
	models.DateLayout,
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"Jan-02-2006",
	"2006-01-02 15:04:05",
}

// parseDate handles the date shapes both brokerages emit, including
// Schwab's "07/01/2024 as of 06/30/2024" settlement annotation.
func parseDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, " as of "); idx > 0 {
		s = s[:idx]
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format(models.DateLayout), true
		}
	}
	return "", false
}

// parseNumber strips currency formatting ($, commas, leading +) and treats
// a parenthesized value as negative. Unparseable input becomes zero rather
// than failing the whole upload.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	replacer := strings.NewReplacer("$", "", ",", "", "+", "", " ", "")
	s = replacer.Replace(s)
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if negative {
		return -n
	}
	return n
}

var _ interfaces.IngestService = (*Service)(nil)
