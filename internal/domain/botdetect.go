package domain

// Bot classification constants.
const (
	ClassificationBot           = "bot"
	ClassificationHuman         = "human"
	ClassificationUnknown       = "unknown"
	ClassificationInstitutional = "institutional"
)

// Bot sub-type constants, assigned from the combination of matched patterns.
const (
	BotTypeArbitrage   = "arbitrage"
	BotTypeMarketMaker = "market_maker"
	BotTypeSpam        = "spam"
	BotTypeMEV         = "mev"
)

// BotDetectionResult is the output of the heuristic bot scorer. Advisory
// only: it never fails an analysis.
type BotDetectionResult struct {
	WalletAddress  string
	Classification string   // Classification* constant
	Confidence     float64  // [0,1], clamped score floored at 0.1
	BotType        string   // BotType* constant, "" unless Classification is bot
	Patterns       []string // matched signal names
	Reasons        []string // human-readable evidence
	Score          float64  // raw weighted score before clamping
}
