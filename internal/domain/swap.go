package domain

// SwapRecord is a single raw swap row for a wallet.
// Corresponds to swap_analysis_inputs table in PostgreSQL.
type SwapRecord struct {
	ID            int64    // BIGSERIAL primary key (0 before persistence)
	WalletAddress string   // base58 wallet address
	Mint          string   // token mint address
	Timestamp     int64    // Unix timestamp in seconds
	Direction     string   // "in" (buy) | "out" (sell)
	Amount        float64  // token amount, >= 0
	SOLValue      float64  // SOL value of the swap, >= 0
	USDCValue     *float64 // USDC value if known
}

// Swap direction constants. "in" means tokens flowed into the wallet (a buy),
// "out" means tokens flowed out (a sell).
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// IsBuy reports whether the swap moved tokens into the wallet.
func (s *SwapRecord) IsBuy() bool {
	return s.Direction == DirectionIn
}

// IsSell reports whether the swap moved tokens out of the wallet.
func (s *SwapRecord) IsSell() bool {
	return s.Direction == DirectionOut
}
