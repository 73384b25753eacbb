package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-behavior-lab/internal/domain"
	"wallet-behavior-lab/internal/storage"
)

func TestSwapArchiveStore_InsertBulkAndGetByWallet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSwapArchiveStore(conn)

	swaps := []*domain.SwapRecord{
		{WalletAddress: "WalletArc", Mint: "MintA", Timestamp: 2000, Direction: domain.DirectionOut, Amount: 50, SOLValue: 0.6},
		{WalletAddress: "WalletArc", Mint: "MintA", Timestamp: 1000, Direction: domain.DirectionIn, Amount: 100, SOLValue: 1.2, USDCValue: ptr(168.0)},
		{WalletAddress: "WalletOther", Mint: "MintB", Timestamp: 1500, Direction: domain.DirectionIn, Amount: 10, SOLValue: 0.1},
	}

	err := store.InsertBulk(ctx, swaps)
	require.NoError(t, err)

	result, err := store.GetByWallet(ctx, "WalletArc")
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, int64(1000), result[0].Timestamp)
	assert.Equal(t, domain.DirectionIn, result[0].Direction)
	require.NotNil(t, result[0].USDCValue)
	assert.InDelta(t, 168.0, *result[0].USDCValue, 0.0001)
	assert.Equal(t, int64(2000), result[1].Timestamp)
	assert.Nil(t, result[1].USDCValue)
}

func TestSwapArchiveStore_ReplayedImportConverges(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSwapArchiveStore(conn)

	swaps := []*domain.SwapRecord{
		{WalletAddress: "WalletReplay", Mint: "MintA", Timestamp: 1000, Direction: domain.DirectionIn, Amount: 100, SOLValue: 1.2},
		{WalletAddress: "WalletReplay", Mint: "MintA", Timestamp: 2000, Direction: domain.DirectionOut, Amount: 100, SOLValue: 1.4},
	}

	// Same batch imported twice, as a crashed importer would on restart.
	require.NoError(t, store.InsertBulk(ctx, swaps))
	require.NoError(t, store.InsertBulk(ctx, swaps))

	// FINAL collapses the duplicates even before a background merge runs.
	result, err := store.GetByWallet(ctx, "WalletReplay")
	require.NoError(t, err)
	assert.Len(t, result, 2)

	count, err := store.CountByWallet(ctx, "WalletReplay")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestSwapArchiveStore_InsertBulkEmpty(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSwapArchiveStore(conn)

	require.NoError(t, store.InsertBulk(ctx, nil))
}

func TestSwapArchiveStore_InsertBulkInvalid(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSwapArchiveStore(conn)

	swaps := []*domain.SwapRecord{
		{WalletAddress: "", Mint: "MintA", Timestamp: 1000, Direction: domain.DirectionIn},
	}
	err := store.InsertBulk(ctx, swaps)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestSwapArchiveStore_CountByWalletEmpty(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSwapArchiveStore(conn)

	count, err := store.CountByWallet(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}
