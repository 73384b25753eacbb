package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeLifecycleID computes a deterministic lifecycle_id using SHA256.
// Formula: SHA256(wallet_address|mint|cycle_index|entry_timestamp)
// Returns hex-encoded hash (64 characters).
func ComputeLifecycleID(
	walletAddress string,
	mint string,
	cycleIndex int,
	entryTimestamp int64,
) string {
	data := fmt.Sprintf("%s|%s|%d|%d",
		walletAddress,
		mint,
		cycleIndex,
		entryTimestamp,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
