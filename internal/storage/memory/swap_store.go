// Package memory provides in-memory store implementations, used by tests
// and by the single-shot CLI when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"wallet-behavior-lab/internal/domain"
	"wallet-behavior-lab/internal/storage"
)

// SwapStore is an in-memory implementation of storage.SwapStore. IDs are
// assigned sequentially on insert, mirroring the BIGSERIAL column.
type SwapStore struct {
	mu     sync.RWMutex
	rows   []*domain.SwapRecord
	nextID int64
}

// NewSwapStore creates a new in-memory swap store.
func NewSwapStore() *SwapStore {
	return &SwapStore{nextID: 1}
}

var _ storage.SwapStore = (*SwapStore)(nil)

// Insert adds one swap row.
func (s *SwapStore) Insert(_ context.Context, swap *domain.SwapRecord) error {
	if swap == nil || swap.WalletAddress == "" || swap.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.insertLocked(swap)
	return nil
}

// InsertBulk adds multiple swap rows atomically.
func (s *SwapStore) InsertBulk(_ context.Context, swaps []*domain.SwapRecord) error {
	if len(swaps) == 0 {
		return nil
	}

	for _, swap := range swaps {
		if swap == nil || swap.WalletAddress == "" || swap.Mint == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, swap := range swaps {
		s.insertLocked(swap)
	}
	return nil
}

func (s *SwapStore) insertLocked(swap *domain.SwapRecord) {
	stored := *swap
	stored.ID = s.nextID
	s.nextID++
	s.rows = append(s.rows, &stored)
}

// GetByWallet retrieves all swaps for a wallet, ordered by timestamp ASC.
func (s *SwapStore) GetByWallet(_ context.Context, walletAddress string) ([]*domain.SwapRecord, error) {
	return s.collect(func(r *domain.SwapRecord) bool {
		return r.WalletAddress == walletAddress
	}), nil
}

// GetByWalletTimeRange retrieves a wallet's swaps within [start, end] inclusive.
func (s *SwapStore) GetByWalletTimeRange(_ context.Context, walletAddress string, start, end int64) ([]*domain.SwapRecord, error) {
	return s.collect(func(r *domain.SwapRecord) bool {
		return r.WalletAddress == walletAddress && r.Timestamp >= start && r.Timestamp <= end
	}), nil
}

func (s *SwapStore) collect(match func(*domain.SwapRecord) bool) []*domain.SwapRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SwapRecord
	for _, row := range s.rows {
		if match(row) {
			stored := *row
			result = append(result, &stored)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp < result[j].Timestamp
		}
		return result[i].ID < result[j].ID
	})

	return result
}
