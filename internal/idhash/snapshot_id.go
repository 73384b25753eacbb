package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeSnapshotID computes a deterministic snapshot_id for a persisted
// behavioral metrics snapshot.
// Formula: SHA256(wallet_address|analysis_timestamp|trade_count)
// Returns hex-encoded hash (64 characters).
func ComputeSnapshotID(
	walletAddress string,
	analysisTimestamp int64,
	tradeCount int,
) string {
	data := fmt.Sprintf("%s|%d|%d",
		walletAddress,
		analysisTimestamp,
		tradeCount,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
