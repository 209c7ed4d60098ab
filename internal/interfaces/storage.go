package interfaces

import (
	"context"

	"github.com/tenkhq/tenk/internal/models"
)

// StorageManager coordinates all storage backends.
type StorageManager interface {
	Internal() InternalStore
	Transactions() TransactionStore
	Snapshots() SnapshotStore
	Close() error
}

// InternalStore manages user accounts and system-level KV (API keys etc).
type InternalStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, userID string) error

	GetSystemKV(ctx context.Context, key string) (string, error)
	SetSystemKV(ctx context.Context, key, value string) error
}

// TransactionStore persists raw transaction logs, one set per user.
// ReplaceAll implements the idempotent replace-all-on-upload semantics.
type TransactionStore interface {
	ReplaceAll(ctx context.Context, userID string, txs []models.Transaction) error
	List(ctx context.Context, userID string) ([]models.Transaction, error)
}

// SnapshotStore persists the materialized snapshot series, one per user.
type SnapshotStore interface {
	ReplaceAll(ctx context.Context, userID string, snaps []models.Snapshot) error
	List(ctx context.Context, userID string) ([]models.Snapshot, error)
	// PurgeAll drops every user's snapshot series. Used when the snapshot
	// schema changes; the series are derived data and rebuild from the
	// transaction log.
	PurgeAll(ctx context.Context) error
}
