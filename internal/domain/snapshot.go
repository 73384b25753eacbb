package domain

import "wallet-behavior-lab/internal/idhash"

// MetricsSnapshot is one persisted BehavioralMetrics result. The snapshot ID
// is derived from the analysis inputs, so recomputing the same history
// produces the same ID and persistence stays idempotent.
type MetricsSnapshot struct {
	SnapshotID        string
	WalletAddress     string
	AnalysisTimestamp int64
	TradeCount        int
	Metrics           *BehavioralMetrics
}

// NewMetricsSnapshot wraps metrics into a snapshot with its deterministic ID.
func NewMetricsSnapshot(m *BehavioralMetrics) *MetricsSnapshot {
	return &MetricsSnapshot{
		SnapshotID:        idhash.ComputeSnapshotID(m.WalletAddress, m.AnalysisTimestamp, m.TotalTradeCount),
		WalletAddress:     m.WalletAddress,
		AnalysisTimestamp: m.AnalysisTimestamp,
		TradeCount:        m.TotalTradeCount,
		Metrics:           m,
	}
}
