package domain

import "math"

// TradingTimeDistribution buckets flip durations (buy to FIFO-matched sell)
// into seven bins. Values are fractions of all flips and sum to 1 when any
// flips exist.
type TradingTimeDistribution struct {
	UltraFast float64 // < 30 minutes
	VeryFast  float64 // 30-60 minutes
	Fast      float64 // 1-4 hours
	Moderate  float64 // 4-8 hours
	DayTrader float64 // 8-24 hours
	Swing     float64 // 1-7 days
	Position  float64 // > 7 days
}

// CurrentHoldingsMetrics describes value still held at analysis time,
// after the dust filter.
type CurrentHoldingsMetrics struct {
	TokensWithActivePosition     int
	AverageHoldingDurationHours  float64 // weighted by remaining lot amount
	TotalCurrentValueSOL         float64
	PercentOfTotalValueStillHeld float64
}

// TokenActivity summarizes one token for the "most traded" report.
type TokenActivity struct {
	Mint          string
	TradeCount    int
	TotalValueSOL float64
}

// RiskMetrics holds simple transaction-size statistics.
type RiskMetrics struct {
	AverageTransactionValueSOL float64
	LargestTransactionValueSOL float64
}

// BehavioralMetrics is the wallet-level aggregate, recomputed on every
// analysis call. The only persisted snapshots carry full history (no
// time-range filter applied).
type BehavioralMetrics struct {
	WalletAddress string

	// Counts
	TotalTradeCount     int
	TotalBuyCount       int
	TotalSellCount      int
	UniqueTokensTraded  int
	TokensWithBothSides int
	TokensWithOnlyBuys  int
	TokensWithOnlySells int

	// Ratios and shape. BuySellRatio is +Inf when the wallet has buys but
	// zero sells (the "only one side" sentinel) and 0 when it has no buys.
	BuySellRatio        float64
	BuySellSymmetry     float64 // mean of min/max ratios over dual-sided tokens
	SequenceConsistency float64 // mean of completePairs / min(buys, sells)

	// Hold time
	AverageFlipDurationHours float64 // unweighted mean of flip durations
	MedianHoldTimeHours      float64 // median across ALL positions (open included)
	TradingTimeDistribution  TradingTimeDistribution

	CurrentHoldings CurrentHoldingsMetrics
	Risk            RiskMetrics

	// Token preferences; scam-filtered when filtering is enabled.
	MostTradedTokens    []TokenActivity
	ScamFilteredTokens  int // tokens excluded by the scam heuristic
	ExcessSellDropCount int // sells (events) beyond tracked buy lots, see lifecycle engine

	Sessions      SessionStats
	ActivePeriods ActiveTradingPeriods

	FirstTransactionTimestamp int64 // Unix seconds, 0 when empty
	LastTransactionTimestamp  int64
	AnalysisTimestamp         int64 // deterministic, derived from input

	HistoricalPattern     *WalletHistoricalPattern    // nil when below minimum cycles
	TradingInterpretation *TradingStyleClassification // nil for empty input
}

// EmptyBehavioralMetrics returns the fully-zeroed "no data" metrics object
// for a wallet, so callers can render an empty state without nil checks.
func EmptyBehavioralMetrics(walletAddress string) *BehavioralMetrics {
	return &BehavioralMetrics{WalletAddress: walletAddress}
}

// HasOnlyBuys reports the "only one side" sentinel on the global ratio.
func (m *BehavioralMetrics) HasOnlyBuys() bool {
	return math.IsInf(m.BuySellRatio, 1)
}
