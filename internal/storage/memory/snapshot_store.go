package memory

import (
	"context"
	"sort"
	"sync"

	"wallet-behavior-lab/internal/domain"
	"wallet-behavior-lab/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.SnapshotStore.
type SnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.MetricsSnapshot // keyed by snapshot_id
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{data: make(map[string]*domain.MetricsSnapshot)}
}

var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// Insert adds a snapshot. Returns ErrDuplicateKey if snapshot_id exists.
func (s *SnapshotStore) Insert(_ context.Context, snap *domain.MetricsSnapshot) error {
	if snap == nil || snap.SnapshotID == "" || snap.Metrics == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[snap.SnapshotID]; exists {
		return storage.ErrDuplicateKey
	}

	stored := *snap
	s.data[snap.SnapshotID] = &stored
	return nil
}

// GetByID retrieves a snapshot by its ID. Returns ErrNotFound if not exists.
func (s *SnapshotStore) GetByID(_ context.Context, snapshotID string) (*domain.MetricsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[snapshotID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	stored := *snap
	return &stored, nil
}

// GetLatestByWallet retrieves the snapshot with the highest analysis
// timestamp for a wallet. Returns ErrNotFound if the wallet has none.
func (s *SnapshotStore) GetLatestByWallet(_ context.Context, walletAddress string) (*domain.MetricsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.MetricsSnapshot
	for _, snap := range s.data {
		if snap.WalletAddress != walletAddress {
			continue
		}
		if latest == nil || snap.AnalysisTimestamp > latest.AnalysisTimestamp {
			latest = snap
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}
	stored := *latest
	return &stored, nil
}

// ListWallets returns the distinct wallet addresses with at least one
// snapshot, sorted ascending.
func (s *SnapshotStore) ListWallets(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, snap := range s.data {
		seen[snap.WalletAddress] = struct{}{}
	}

	wallets := make([]string, 0, len(seen))
	for w := range seen {
		wallets = append(wallets, w)
	}
	sort.Strings(wallets)
	return wallets, nil
}
