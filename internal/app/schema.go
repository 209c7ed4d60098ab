package app

import (
	"context"

	"github.com/tenkhq/tenk/internal/common"
	"github.com/tenkhq/tenk/internal/interfaces"
)

const schemaVersionKey = "tenk_schema_version"

// checkSchemaVersion compares the stored schema version against the code's
// SchemaVersion constant. On mismatch (or missing version), it purges every
// stored snapshot series and records the new version; transactions are the
// source of truth and survive, so the next upload rebuilds cleanly. Returns
// true if a purge occurred.
func checkSchemaVersion(ctx context.Context, sm interfaces.StorageManager, logger *common.Logger) bool {
	kv := sm.Internal()

	stored, err := kv.GetSystemKV(ctx, schemaVersionKey)
	if err == nil && stored == common.SchemaVersion {
		return false
	}

	if err != nil {
		logger.Info().
			Str("current", common.SchemaVersion).
			Msg("Schema version not found - initializing")
	} else {
		logger.Warn().
			Str("stored", stored).
			Str("current", common.SchemaVersion).
			Msg("Schema version mismatch - purging snapshot series")
	}

	if purgeErr := sm.Snapshots().PurgeAll(ctx); purgeErr != nil {
		logger.Error().Err(purgeErr).Msg("Failed to purge snapshots during schema migration")
		return false
	}

	if err := kv.SetSystemKV(ctx, schemaVersionKey, common.SchemaVersion); err != nil {
		logger.Error().Err(err).Msg("Failed to store new schema version")
	}

	return true
}
