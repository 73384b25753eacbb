package domain

// Risk level constants for exit-time predictions.
const (
	RiskCritical = "CRITICAL" // expected exit in < 5 minutes
	RiskHigh     = "HIGH"     // < 30 minutes
	RiskMedium   = "MEDIUM"   // < 2 hours
	RiskLow      = "LOW"
)

// WalletTokenPrediction is a point-in-time exit forecast for one currently
// ACTIVE lifecycle, derived from the wallet's historical pattern.
type WalletTokenPrediction struct {
	WalletAddress          string
	Mint                   string
	PositionAgeHours       float64
	EstimatedExitHours     float64 // remaining hold time, >= 0
	EstimatedExitTimestamp int64   // Unix seconds
	RiskLevel              string  // Risk* constant
	PredictionConfidence   float64 // equals the pattern's DataQuality
}
