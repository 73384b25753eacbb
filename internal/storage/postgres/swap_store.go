package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wallet-behavior-lab/internal/domain"
	"wallet-behavior-lab/internal/storage"
)

// SwapStore implements storage.SwapStore using PostgreSQL.
type SwapStore struct {
	pool *Pool
}

// NewSwapStore creates a new SwapStore.
func NewSwapStore(pool *Pool) *SwapStore {
	return &SwapStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SwapStore = (*SwapStore)(nil)

// Insert adds one swap row.
func (s *SwapStore) Insert(ctx context.Context, swap *domain.SwapRecord) error {
	if swap == nil || swap.WalletAddress == "" || swap.Mint == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO swap_analysis_inputs (
			wallet_address, mint, timestamp, direction, amount, sol_value, usdc_value
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		swap.WalletAddress,
		swap.Mint,
		swap.Timestamp,
		swap.Direction,
		swap.Amount,
		swap.SOLValue,
		swap.USDCValue,
	)
	if err != nil {
		return fmt.Errorf("insert swap: %w", err)
	}
	return nil
}

// InsertBulk adds multiple swap rows atomically. Fails the entire batch on
// any invalid row.
func (s *SwapStore) InsertBulk(ctx context.Context, swaps []*domain.SwapRecord) error {
	if len(swaps) == 0 {
		return nil
	}

	for _, swap := range swaps {
		if swap == nil || swap.WalletAddress == "" || swap.Mint == "" {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO swap_analysis_inputs (
			wallet_address, mint, timestamp, direction, amount, sol_value, usdc_value
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, swap := range swaps {
		_, err := tx.Exec(ctx, query,
			swap.WalletAddress,
			swap.Mint,
			swap.Timestamp,
			swap.Direction,
			swap.Amount,
			swap.SOLValue,
			swap.USDCValue,
		)
		if err != nil {
			return fmt.Errorf("insert swap in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByWallet retrieves all swaps for a wallet, ordered by timestamp ASC.
func (s *SwapStore) GetByWallet(ctx context.Context, walletAddress string) ([]*domain.SwapRecord, error) {
	query := `
		SELECT id, wallet_address, mint, timestamp, direction, amount, sol_value, usdc_value
		FROM swap_analysis_inputs
		WHERE wallet_address = $1
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("get swaps by wallet: %w", err)
	}
	defer rows.Close()

	return scanSwaps(rows)
}

// GetByWalletTimeRange retrieves a wallet's swaps within [start, end] (inclusive).
func (s *SwapStore) GetByWalletTimeRange(ctx context.Context, walletAddress string, start, end int64) ([]*domain.SwapRecord, error) {
	query := `
		SELECT id, wallet_address, mint, timestamp, direction, amount, sol_value, usdc_value
		FROM swap_analysis_inputs
		WHERE wallet_address = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, walletAddress, start, end)
	if err != nil {
		return nil, fmt.Errorf("get swaps by time range: %w", err)
	}
	defer rows.Close()

	return scanSwaps(rows)
}

// scanSwaps scans multiple rows into a slice of SwapRecord.
func scanSwaps(rows pgx.Rows) ([]*domain.SwapRecord, error) {
	var swaps []*domain.SwapRecord

	for rows.Next() {
		var swap domain.SwapRecord

		err := rows.Scan(
			&swap.ID,
			&swap.WalletAddress,
			&swap.Mint,
			&swap.Timestamp,
			&swap.Direction,
			&swap.Amount,
			&swap.SOLValue,
			&swap.USDCValue,
		)
		if err != nil {
			return nil, fmt.Errorf("scan swap row: %w", err)
		}

		swaps = append(swaps, &swap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swap rows: %w", err)
	}

	return swaps, nil
}
