package domain

// Position status constants.
const (
	PositionStatusActive = "ACTIVE"
	PositionStatusExited = "EXITED"
	PositionStatusDust   = "DUST"
)

// Holder behavior sub-types for a lifecycle.
const (
	BehaviorFullHolder   = "FULL_HOLDER"
	BehaviorProfitTaker  = "PROFIT_TAKER"
	BehaviorMostlyExited = "MOSTLY_EXITED"
)

// TokenPositionLifecycle is one holding cycle for one mint: from the first
// buy that opens the position until the position returns to zero (or until
// the analysis timestamp for still-open cycles). A wallet that fully exits
// and rebuys the same mint produces multiple lifecycles.
//
// Invariant: 0 <= CurrentPosition <= PeakPosition at every point of the walk.
type TokenPositionLifecycle struct {
	LifecycleID   string // deterministic hash, see idhash.ComputeLifecycleID
	WalletAddress string
	Mint          string
	CycleIndex    int // 0-based index of the cycle within the mint

	EntryTimestamp int64  // Unix seconds of the first buy in the cycle
	ExitTimestamp  *int64 // Unix seconds of the sell that closed the cycle, nil if open

	PeakPosition           float64 // maximum token balance ever held in the cycle
	CurrentPosition        float64 // remaining balance at end of cycle
	PercentOfPeakRemaining float64 // CurrentPosition / PeakPosition * 100

	PositionStatus string // ACTIVE | EXITED | DUST
	BehaviorType   string // FULL_HOLDER | PROFIT_TAKER | MOSTLY_EXITED, "" when EXITED via zero

	WeightedHoldingTimeHours float64 // sum(duration*amount) / sum(amount)

	TotalBought float64
	TotalSold   float64
	BuyCount    int
	SellCount   int
}

// IsComplete reports whether the lifecycle has a known exit.
func (l *TokenPositionLifecycle) IsComplete() bool {
	return l.PositionStatus == PositionStatusExited
}
