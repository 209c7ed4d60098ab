package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/tenkhq/tenk/internal/common"
	"github.com/tenkhq/tenk/internal/interfaces"
	"github.com/tenkhq/tenk/internal/models"
)

type SnapshotStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewSnapshotStore(db *surrealdb.DB, logger *common.Logger) *SnapshotStore {
	return &SnapshotStore{
		db:     db,
		logger: logger,
	}
}

// ReplaceAll swaps the user's materialized snapshot series wholesale.
func (s *SnapshotStore) ReplaceAll(ctx context.Context, userID string, snaps []models.Snapshot) error {
	sql := `BEGIN TRANSACTION;
DELETE snapshots WHERE user_id = $user_id;
INSERT INTO snapshots $batch;
COMMIT TRANSACTION;`
	vars := map[string]any{
		"user_id": userID,
		"batch":   snaps,
	}
	if len(snaps) == 0 {
		sql = "DELETE snapshots WHERE user_id = $user_id"
		vars = map[string]any{"user_id": userID}
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to replace snapshots: %w", err)
	}

	s.logger.Debug().Str("user", userID).Int("count", len(snaps)).Msg("Replaced snapshot series")
	return nil
}

func (s *SnapshotStore) List(ctx context.Context, userID string) ([]models.Snapshot, error) {
	sql := "SELECT * FROM snapshots WHERE user_id = $user_id ORDER BY date ASC"
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]models.Snapshot](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	if results != nil && len(*results) > 0 {
		return (*results)[0].Result, nil
	}
	return nil, nil
}

// PurgeAll drops every user's snapshot series.
func (s *SnapshotStore) PurgeAll(ctx context.Context) error {
	if _, err := surrealdb.Query[any](ctx, s.db, "DELETE snapshots", nil); err != nil {
		return fmt.Errorf("failed to purge snapshots: %w", err)
	}
	s.logger.Info().Msg("Purged all snapshot series")
	return nil
}

// Compile-time check
var _ interfaces.SnapshotStore = (*SnapshotStore)(nil)
