package domain

// IdentifiedTradingWindow is a merged run of contiguous high-activity UTC
// hours.
type IdentifiedTradingWindow struct {
	StartHourUTC             int // inclusive, 0-23
	EndHourUTC               int // inclusive, 0-23 (may be < start when wrapping midnight)
	DurationHours            int
	TradeCountInWindow       int
	PercentageOfTotalTrades  float64
	AvgTradesPerHourInWindow float64
}

// ActiveTradingPeriods holds the hourly activity histogram and the windows
// identified from it.
type ActiveTradingPeriods struct {
	HourlyTradeCounts  [24]int // raw counts by UTC hour
	IdentifiedWindows  []IdentifiedTradingWindow
	ActivityFocusScore float64 // share of trades inside identified windows, [0,1]
}

// SessionStats describes trading sessions formed by the inter-trade gap
// heuristic. Sessions are a separate concept from trading windows: a session
// is a contiguous burst of trades, a window is a recurring hour-of-day range.
type SessionStats struct {
	SessionCount                  int
	AvgTradesPerSession           float64
	AverageSessionDurationMinutes float64
	// AverageSessionStartHour is a circular mean over hour-of-day (sin/cos
	// averaging); a plain arithmetic mean would be wrong near midnight.
	AverageSessionStartHour float64
}
