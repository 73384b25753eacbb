package storage

import (
	"context"

	"wallet-behavior-lab/internal/domain"
)

// SwapStore provides access to the swap_analysis_inputs rows the analyzer
// reads. Rows are append-only.
type SwapStore interface {
	// Insert adds one swap row.
	Insert(ctx context.Context, s *domain.SwapRecord) error

	// InsertBulk adds multiple swap rows atomically.
	InsertBulk(ctx context.Context, swaps []*domain.SwapRecord) error

	// GetByWallet retrieves all swaps for a wallet, ordered by timestamp ASC.
	GetByWallet(ctx context.Context, walletAddress string) ([]*domain.SwapRecord, error)

	// GetByWalletTimeRange retrieves a wallet's swaps within [start, end]
	// (inclusive), ordered by timestamp ASC.
	GetByWalletTimeRange(ctx context.Context, walletAddress string, start, end int64) ([]*domain.SwapRecord, error)
}

// SnapshotStore persists BehavioralMetrics snapshots. Snapshot IDs are
// deterministic, so re-inserting an identical analysis yields
// ErrDuplicateKey, which callers may treat as "already persisted".
type SnapshotStore interface {
	// Insert adds a snapshot. Returns ErrDuplicateKey if snapshot_id exists.
	Insert(ctx context.Context, s *domain.MetricsSnapshot) error

	// GetByID retrieves a snapshot by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, snapshotID string) (*domain.MetricsSnapshot, error)

	// GetLatestByWallet retrieves the snapshot with the highest analysis
	// timestamp for a wallet. Returns ErrNotFound if the wallet has none.
	GetLatestByWallet(ctx context.Context, walletAddress string) (*domain.MetricsSnapshot, error)

	// ListWallets returns the distinct wallet addresses with at least one
	// snapshot, sorted ascending.
	ListWallets(ctx context.Context) ([]string, error)
}

// SwapArchiveStore is the high-volume archive of raw swaps, kept in
// ClickHouse. Inserts are best-effort idempotent via ReplacingMergeTree;
// duplicates are deduplicated at merge time, not insert time.
type SwapArchiveStore interface {
	// InsertBulk appends a batch of swaps to the archive.
	InsertBulk(ctx context.Context, swaps []*domain.SwapRecord) error

	// GetByWallet retrieves a wallet's archived swaps, ordered by timestamp ASC.
	GetByWallet(ctx context.Context, walletAddress string) ([]*domain.SwapRecord, error)

	// CountByWallet returns the number of archived swaps for a wallet.
	CountByWallet(ctx context.Context, walletAddress string) (uint64, error)
}
