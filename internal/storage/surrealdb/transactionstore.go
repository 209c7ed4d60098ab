package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/tenkhq/tenk/internal/common"
	"github.com/tenkhq/tenk/internal/interfaces"
	"github.com/tenkhq/tenk/internal/models"
)

type TransactionStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewTransactionStore(db *surrealdb.DB, logger *common.Logger) *TransactionStore {
	return &TransactionStore{
		db:     db,
		logger: logger,
	}
}

// ReplaceAll deletes the user's existing log and inserts the new one in a
// single transaction, so a re-upload never leaves a partial mix of old and
// new rows.
func (s *TransactionStore) ReplaceAll(ctx context.Context, userID string, txs []models.Transaction) error {
	sql := `BEGIN TRANSACTION;
DELETE transactions WHERE user_id = $user_id;
INSERT INTO transactions $batch;
COMMIT TRANSACTION;`
	vars := map[string]any{
		"user_id": userID,
		"batch":   txs,
	}
	if len(txs) == 0 {
		sql = "DELETE transactions WHERE user_id = $user_id"
		vars = map[string]any{"user_id": userID}
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to replace transactions: %w", err)
	}

	s.logger.Debug().Str("user", userID).Int("count", len(txs)).Msg("Replaced transaction log")
	return nil
}

func (s *TransactionStore) List(ctx context.Context, userID string) ([]models.Transaction, error) {
	sql := "SELECT * FROM transactions WHERE user_id = $user_id ORDER BY date ASC"
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]models.Transaction](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return nil, nil
}

// Compile-time check
var _ interfaces.TransactionStore = (*TransactionStore)(nil)
