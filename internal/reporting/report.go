package reporting

import "time"

// Report is the renderable view of one wallet analysis.
type Report struct {
	// Metadata
	GeneratedAt       time.Time
	WalletAddress     string
	AnalysisTimestamp int64 // Unix seconds, derived from the input data

	Summary       SummarySection
	HoldTimes     HoldTimeSection
	Holdings      HoldingsSection
	TokenActivity []TokenActivityRow

	Sessions SessionSection
	Windows  []TradingWindowRow

	// Optional sections; nil when the underlying result is absent.
	Historical     *HistoricalSection
	Classification *ClassificationSection
	BotDetection   *BotSection
}

// SummarySection contains trade counts and shape metrics.
type SummarySection struct {
	TotalTrades         int
	Buys                int
	Sells               int
	UniqueTokens        int
	TokensWithBothSides int
	BuySellRatio        string // formatted; "Infinity" for buys-only wallets
	BuySellSymmetry     float64
	SequenceConsistency float64
	FirstTradeTimestamp int64
	LastTradeTimestamp  int64
}

// HoldTimeSection contains hold-time statistics and the flip distribution.
type HoldTimeSection struct {
	AverageFlipDurationHours float64
	MedianHoldTimeHours      float64
	Distribution             []DistributionRow
}

// DistributionRow is one flip-duration bin.
type DistributionRow struct {
	Label    string
	Fraction float64
}

// HoldingsSection describes value still held at analysis time.
type HoldingsSection struct {
	TokensWithActivePosition    int
	AverageHoldingDurationHours float64
	TotalCurrentValueSOL        float64
	PercentOfTotalValueHeld     float64
}

// TokenActivityRow is one row in the most-traded-tokens table.
type TokenActivityRow struct {
	Mint          string
	TradeCount    int
	TotalValueSOL float64
}

// SessionSection summarizes trading sessions.
type SessionSection struct {
	SessionCount            int
	AvgTradesPerSession     float64
	AvgDurationMinutes      float64
	AverageSessionStartHour float64
}

// TradingWindowRow is one identified hour-of-day activity window.
type TradingWindowRow struct {
	StartHourUTC    int
	EndHourUTC      int
	DurationHours   int
	TradeCount      int
	PercentOfTrades float64
}

// HistoricalSection summarizes the completed-cycle pattern.
type HistoricalSection struct {
	AverageHoldTimeHours  float64
	MedianHoldTimeHours   float64
	CompletedCycles       int
	BehaviorType          string
	ExitPattern           string
	DataQuality           float64
	ObservationPeriodDays float64
}

// ClassificationSection summarizes the trading style classification.
type ClassificationSection struct {
	SpeedCategory     string
	BehavioralPattern string
	CombinedLabel     string
	Confidence        float64
	LegacyFallback    bool
}

// BotSection summarizes the bot detection verdict.
type BotSection struct {
	Classification string
	BotType        string
	Confidence     float64
	Score          float64
	Reasons        []string
}
