// Package predict forecasts when a wallet is likely to exit an active
// position, based on its historical holding pattern.
package predict

import (
	"wallet-behavior-lab/internal/domain"
)

const secondsPerHour = 3600.0

// Predict estimates the remaining hold time for one lifecycle. Returns nil
// when the wallet has no historical pattern or the lifecycle is not ACTIVE:
// a prediction without completed history would be a guess, and an exited
// position has nothing left to predict.
//
// analysisTimestamp plays the role of "now" so predictions stay
// reproducible for a fixed input.
func Predict(pattern *domain.WalletHistoricalPattern, lc *domain.TokenPositionLifecycle, analysisTimestamp int64) *domain.WalletTokenPrediction {
	if pattern == nil || lc == nil || lc.PositionStatus != domain.PositionStatusActive {
		return nil
	}

	ageHours := float64(analysisTimestamp-lc.EntryTimestamp) / secondsPerHour
	if ageHours < 0 {
		ageHours = 0
	}

	remaining := pattern.MedianCompletedHoldTimeHours - ageHours
	if remaining < 0 {
		remaining = 0
	}

	return &domain.WalletTokenPrediction{
		WalletAddress:          lc.WalletAddress,
		Mint:                   lc.Mint,
		PositionAgeHours:       ageHours,
		EstimatedExitHours:     remaining,
		EstimatedExitTimestamp: analysisTimestamp + int64(remaining*secondsPerHour),
		RiskLevel:              riskLevel(remaining),
		PredictionConfidence:   pattern.DataQuality,
	}
}

// riskLevel buckets the remaining hold time.
func riskLevel(remainingHours float64) string {
	minutes := remainingHours * 60
	switch {
	case minutes < 5:
		return domain.RiskCritical
	case minutes < 30:
		return domain.RiskHigh
	case minutes < 120:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}
