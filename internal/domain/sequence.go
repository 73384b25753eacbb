package domain

// TokenTrade is a normalized swap owned by a TokenTradeSequence.
// Direction is constrained to DirectionIn/DirectionOut by the builder.
type TokenTrade struct {
	Timestamp int64   // Unix timestamp in seconds
	Direction string  // DirectionIn | DirectionOut
	Amount    float64 // token amount
	SOLValue  float64 // SOL value of the trade
	USDCValue *float64
}

// TokenTradeSequence holds all trades for one mint, sorted ascending by
// timestamp (stable, input order breaks ties). Rebuilt fresh on every
// analysis call; never persisted.
type TokenTradeSequence struct {
	Mint          string
	Trades        []TokenTrade
	BuyCount      int
	SellCount     int
	CompletePairs int     // buys matched to a later sell, in order; <= min(BuyCount, SellCount)
	BuySellRatio  float64 // crude unweighted ratio, fallback signal only
}

// TotalTradeCount returns the number of trades in the sequence.
func (s *TokenTradeSequence) TotalTradeCount() int {
	return len(s.Trades)
}

// HasBothSides reports whether the sequence contains at least one buy and
// one sell.
func (s *TokenTradeSequence) HasBothSides() bool {
	return s.BuyCount > 0 && s.SellCount > 0
}
