// Package classify assigns a wallet its trading-style classification: a
// speed category and a behavioral pattern, combined into one label.
package classify

import (
	"fmt"

	"wallet-behavior-lab/internal/domain"
	"wallet-behavior-lab/internal/stats"
)

// Low-activity gate: below either minimum the speed scale is meaningless.
const (
	minTradesForSpeed          = 5
	minDualSidedTokensForSpeed = 2
)

// Classify derives the style classification from aggregated metrics and the
// (possibly nil) historical pattern. The speed category is thresholded on
// the median hold across ALL positions; the historical pattern only feeds
// the confidence score. The two scales stay separate on purpose.
func Classify(m *domain.BehavioralMetrics, pattern *domain.WalletHistoricalPattern) (*domain.TradingStyleClassification, []domain.Event) {
	var events []domain.Event

	medianHold := m.MedianHoldTimeHours
	legacy := false
	if pattern == nil {
		legacy = true
		if medianHold == 0 {
			// Safety net, not policy: without any per-position hold data,
			// degrade to the unweighted mean flip duration.
			medianHold = m.AverageFlipDurationHours
		}
		events = append(events, domain.Event{
			Level:     domain.EventDebug,
			Component: "classify",
			Message:   "no historical pattern; confidence degraded",
		})
	}

	speed := speedCategory(m, medianHold)
	behavioralPattern := behavioralPattern(m)

	return &domain.TradingStyleClassification{
		SpeedCategory:     speed,
		BehavioralPattern: behavioralPattern,
		CombinedLabel:     fmt.Sprintf("%s (%s)", speed, behavioralPattern),
		Confidence:        confidence(m, pattern),
		LegacyFallback:    legacy,
	}, events
}

// speedCategory thresholds the median hold time, after the low-activity
// short circuit.
func speedCategory(m *domain.BehavioralMetrics, medianHoldHours float64) string {
	if m.TotalTradeCount < minTradesForSpeed || m.TokensWithBothSides < minDualSidedTokensForSpeed {
		return domain.SpeedLowActivity
	}

	minutes := medianHoldHours * 60
	switch {
	case minutes < 3:
		return domain.SpeedUltraFlipper
	case minutes < 10:
		return domain.SpeedFlipper
	case minutes < 60:
		return domain.SpeedFastTrader
	case minutes < 24*60:
		return domain.SpeedDayTrader
	case minutes < 7*24*60:
		return domain.SpeedSwingTrader
	default:
		return domain.SpeedPositionTrader
	}
}

// behavioralPattern reads the buy/sell shape. Single-sided wallets are
// resolved first so the +Inf ratio sentinel cannot leak into the
// accumulator branch.
func behavioralPattern(m *domain.BehavioralMetrics) string {
	buys, sells := m.TotalBuyCount, m.TotalSellCount
	switch {
	case buys == 0 && sells == 0:
		return domain.PatternMixed
	case sells == 0:
		return domain.PatternHolder
	case buys == 0:
		return domain.PatternDumper
	}

	ratio := m.BuySellRatio
	switch {
	case ratio > 2.5 && buys > 2*sells:
		return domain.PatternAccumulator
	case ratio < 0.4 && sells > 2*buys:
		return domain.PatternDistributor
	case ratio > 1.5:
		return domain.PatternHolder
	case m.BuySellSymmetry+m.SequenceConsistency > 0.7:
		return domain.PatternBalanced
	default:
		return domain.PatternMixed
	}
}

// confidence combines data quality, completed-cycle sample size and the
// shape regularity. Without a historical pattern only the shape term
// remains, so the score drops on its own.
func confidence(m *domain.BehavioralMetrics, pattern *domain.WalletHistoricalPattern) float64 {
	score := 0.3 * m.BuySellSymmetry * m.SequenceConsistency
	if pattern != nil {
		score += 0.4*pattern.DataQuality + sampleSizeBonus(pattern.CompletedCycleCount)
	}
	return stats.Clamp01(score)
}

// sampleSizeBonus rewards completed-cycle counts in steps, topping out at
// 0.3 once the sample is comfortably large.
func sampleSizeBonus(completedCycles int) float64 {
	switch {
	case completedCycles >= 10:
		return 0.3
	case completedCycles >= 5:
		return 0.2
	case completedCycles >= 3:
		return 0.1
	default:
		return 0
	}
}
