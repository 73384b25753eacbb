package clickhouse

import (
	"context"
	"fmt"

	"wallet-behavior-lab/internal/domain"
	"wallet-behavior-lab/internal/storage"
)

// SwapArchiveStore implements storage.SwapArchiveStore using ClickHouse.
// The backing table is a ReplacingMergeTree keyed on (wallet, timestamp,
// mint, direction), so replayed imports converge after merges instead of
// failing at insert time.
type SwapArchiveStore struct {
	conn *Conn
}

// NewSwapArchiveStore creates a new SwapArchiveStore.
func NewSwapArchiveStore(conn *Conn) *SwapArchiveStore {
	return &SwapArchiveStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SwapArchiveStore = (*SwapArchiveStore)(nil)

// InsertBulk appends a batch of swaps to the archive.
func (s *SwapArchiveStore) InsertBulk(ctx context.Context, swaps []*domain.SwapRecord) error {
	if len(swaps) == 0 {
		return nil
	}

	for _, swap := range swaps {
		if swap == nil || swap.WalletAddress == "" || swap.Mint == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO swap_archive (
			wallet_address, mint, timestamp, direction, amount, sol_value, usdc_value
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, swap := range swaps {
		err = batch.Append(
			swap.WalletAddress,
			swap.Mint,
			swap.Timestamp,
			swap.Direction,
			swap.Amount,
			swap.SOLValue,
			swap.USDCValue,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByWallet retrieves a wallet's archived swaps, ordered by timestamp ASC.
// FINAL collapses rows the merge has not deduplicated yet.
func (s *SwapArchiveStore) GetByWallet(ctx context.Context, walletAddress string) ([]*domain.SwapRecord, error) {
	query := `
		SELECT wallet_address, mint, timestamp, direction, amount, sol_value, usdc_value
		FROM swap_archive FINAL
		WHERE wallet_address = ?
		ORDER BY timestamp ASC, mint ASC, direction ASC
	`

	rows, err := s.conn.Query(ctx, query, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("get archived swaps by wallet: %w", err)
	}
	defer rows.Close()

	var swaps []*domain.SwapRecord
	for rows.Next() {
		var swap domain.SwapRecord

		err := rows.Scan(
			&swap.WalletAddress,
			&swap.Mint,
			&swap.Timestamp,
			&swap.Direction,
			&swap.Amount,
			&swap.SOLValue,
			&swap.USDCValue,
		)
		if err != nil {
			return nil, fmt.Errorf("scan archived swap row: %w", err)
		}

		swaps = append(swaps, &swap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archived swap rows: %w", err)
	}

	return swaps, nil
}

// CountByWallet returns the number of archived swaps for a wallet.
func (s *SwapArchiveStore) CountByWallet(ctx context.Context, walletAddress string) (uint64, error) {
	query := `
		SELECT count()
		FROM swap_archive FINAL
		WHERE wallet_address = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, walletAddress).Scan(&count); err != nil {
		return 0, fmt.Errorf("count archived swaps: %w", err)
	}

	return count, nil
}
