package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"wallet-behavior-lab/internal/domain"
	"wallet-behavior-lab/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using PostgreSQL. Metrics
// are stored as JSONB so the schema does not chase every metrics field.
type SnapshotStore struct {
	pool *Pool
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(pool *Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// Insert adds a snapshot. Returns ErrDuplicateKey if snapshot_id exists,
// which callers treat as "already persisted" since IDs are deterministic.
func (s *SnapshotStore) Insert(ctx context.Context, snap *domain.MetricsSnapshot) error {
	if snap == nil || snap.SnapshotID == "" || snap.Metrics == nil {
		return storage.ErrInvalidInput
	}

	metricsJSON, err := json.Marshal(snap.Metrics)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}

	query := `
		INSERT INTO metrics_snapshots (
			snapshot_id, wallet_address, analysis_timestamp, trade_count, metrics
		) VALUES ($1, $2, $3, $4, $5)
	`

	_, err = s.pool.Exec(ctx, query,
		snap.SnapshotID,
		snap.WalletAddress,
		snap.AnalysisTimestamp,
		snap.TradeCount,
		metricsJSON,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// GetByID retrieves a snapshot by its ID. Returns ErrNotFound if not exists.
func (s *SnapshotStore) GetByID(ctx context.Context, snapshotID string) (*domain.MetricsSnapshot, error) {
	query := `
		SELECT snapshot_id, wallet_address, analysis_timestamp, trade_count, metrics
		FROM metrics_snapshots
		WHERE snapshot_id = $1
	`

	return s.scanOne(s.pool.QueryRow(ctx, query, snapshotID))
}

// GetLatestByWallet retrieves the snapshot with the highest analysis
// timestamp for a wallet. Returns ErrNotFound if the wallet has none.
func (s *SnapshotStore) GetLatestByWallet(ctx context.Context, walletAddress string) (*domain.MetricsSnapshot, error) {
	query := `
		SELECT snapshot_id, wallet_address, analysis_timestamp, trade_count, metrics
		FROM metrics_snapshots
		WHERE wallet_address = $1
		ORDER BY analysis_timestamp DESC, snapshot_id ASC
		LIMIT 1
	`

	return s.scanOne(s.pool.QueryRow(ctx, query, walletAddress))
}

// ListWallets returns the distinct wallet addresses with at least one
// snapshot, sorted ascending.
func (s *SnapshotStore) ListWallets(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT wallet_address
		FROM metrics_snapshots
		ORDER BY wallet_address ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan wallet row: %w", err)
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet rows: %w", err)
	}

	return wallets, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SnapshotStore) scanOne(row rowScanner) (*domain.MetricsSnapshot, error) {
	var (
		snap        domain.MetricsSnapshot
		metricsJSON []byte
	)

	err := row.Scan(
		&snap.SnapshotID,
		&snap.WalletAddress,
		&snap.AnalysisTimestamp,
		&snap.TradeCount,
		&metricsJSON,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("scan snapshot row: %w", err)
	}

	var metrics domain.BehavioralMetrics
	if err := json.Unmarshal(metricsJSON, &metrics); err != nil {
		return nil, fmt.Errorf("unmarshal metrics: %w", err)
	}
	snap.Metrics = &metrics

	return &snap, nil
}
