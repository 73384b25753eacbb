package domain

// Historical behavior types, assigned from the median completed hold time.
// Ordered from fastest to slowest.
const (
	HistoricalBehaviorSniper    = "SNIPER"     // < 1 minute
	HistoricalBehaviorScalper   = "SCALPER"    // < 5 minutes
	HistoricalBehaviorMomentum  = "MOMENTUM"   // < 30 minutes
	HistoricalBehaviorIntraday  = "INTRADAY"   // < 4 hours
	HistoricalBehaviorDayTrader = "DAY_TRADER" // < 24 hours
	HistoricalBehaviorSwing     = "SWING"      // < 7 days
	HistoricalBehaviorPosition  = "POSITION"   // < 30 days
	HistoricalBehaviorHolder    = "HOLDER"     // >= 30 days
)

// Exit pattern constants.
const (
	ExitPatternGradual   = "GRADUAL"     // average sells per token > 2
	ExitPatternAllAtOnce = "ALL_AT_ONCE" // exits in one or two sells
)

// WalletHistoricalPattern summarizes completed (EXITED) lifecycles only.
// DUST cycles often reflect missing historical buys and ACTIVE cycles have
// no known exit, so both are excluded. A nil pattern means "not enough
// completed cycles", which is distinct from "no activity".
type WalletHistoricalPattern struct {
	HistoricalAverageHoldTimeHours float64 // peak-position-weighted mean
	MedianCompletedHoldTimeHours   float64 // median of per-token medians
	CompletedCycleCount            int     // unique tokens with qualifying completed cycles
	BehaviorType                   string  // HistoricalBehavior* constant
	ExitPattern                    string  // ExitPattern* constant
	DataQuality                    float64 // [0,1], saturates at 3x the minimum sample
	ObservationPeriodDays          float64 // span of qualifying entry timestamps
}
