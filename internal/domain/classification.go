package domain

// Speed categories for general trading behavior, thresholded on the median
// hold time across ALL positions (not completed-only, which is the
// historical pattern's job, and the two scales must not be conflated).
const (
	SpeedUltraFlipper   = "ULTRA_FLIPPER"   // < 3 minutes
	SpeedFlipper        = "FLIPPER"         // < 10 minutes
	SpeedFastTrader     = "FAST_TRADER"     // < 1 hour
	SpeedDayTrader      = "DAY_TRADER"      // < 24 hours
	SpeedSwingTrader    = "SWING_TRADER"    // < 7 days
	SpeedPositionTrader = "POSITION_TRADER" // >= 7 days
	SpeedLowActivity    = "LOW_ACTIVITY"    // too few trades to classify
)

// Behavioral patterns derived from the buy/sell shape.
const (
	PatternAccumulator = "ACCUMULATOR"
	PatternDistributor = "DISTRIBUTOR"
	PatternHolder      = "HOLDER"
	PatternDumper      = "DUMPER"
	PatternBalanced    = "BALANCED"
	PatternMixed       = "MIXED"
)

// TradingStyleClassification combines the speed category and the behavioral
// pattern into a human-readable label with a confidence score.
type TradingStyleClassification struct {
	SpeedCategory     string  // Speed* constant
	BehavioralPattern string  // Pattern* constant
	CombinedLabel     string  // "{speed} ({pattern})"
	Confidence        float64 // [0,1]
	// LegacyFallback is set when no historical pattern exists and the
	// unweighted mean hold time was used instead of the pattern median.
	LegacyFallback bool
}
