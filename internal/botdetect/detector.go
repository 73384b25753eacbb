// Package botdetect scores the likelihood that a wallet is automated. The
// score is a weighted combination of heuristic signals, advisory by design.
package botdetect

import (
	"fmt"
	"math"
	"sort"

	"wallet-behavior-lab/internal/domain"
	"wallet-behavior-lab/internal/stats"
)

// Signal thresholds.
const (
	highFrequencyTradeCount = 50   // trades
	microTransactionSOL     = 0.01 // average SOL per trade below this is "micro"
	maxTokensPerDay         = 50   // distinct mints in one UTC day
	intervalConsistencyMin  = 0.9  // 1 - CV of inter-trade intervals
	roundAmountShare        = 0.70 // fraction of round-looking amounts
	fastExitMedianMinutes   = 3.0  // median completed hold
	minFlipperConfidence    = 0.8
)

// Classification cutoffs on the summed score.
const (
	botScoreCutoff   = 0.5
	humanScoreCutoff = 0.2
)

// Detect scores a wallet from its aggregated metrics and classification.
// sequences supply the per-trade detail (intervals, amounts, per-day token
// spread) that the aggregate no longer carries.
func Detect(walletAddress string, sequences []*domain.TokenTradeSequence, m *domain.BehavioralMetrics, c *domain.TradingStyleClassification) *domain.BotDetectionResult {
	res := &domain.BotDetectionResult{
		WalletAddress:  walletAddress,
		Classification: domain.ClassificationUnknown,
	}

	signal := func(weight float64, name, reason string) {
		res.Score += weight
		res.Patterns = append(res.Patterns, name)
		res.Reasons = append(res.Reasons, reason)
	}

	highFreqMicro := m.TotalTradeCount >= highFrequencyTradeCount &&
		m.Risk.AverageTransactionValueSOL < microTransactionSOL
	if highFreqMicro {
		signal(0.4, "high_frequency_micro",
			fmt.Sprintf("%d trades averaging %.4f SOL each", m.TotalTradeCount, m.Risk.AverageTransactionValueSOL))
	}

	tokensPerDay := maxDistinctTokensPerDay(sequences)
	if tokensPerDay > maxTokensPerDay {
		signal(0.3, "token_spray",
			fmt.Sprintf("%d distinct tokens traded within one day", tokensPerDay))
	}

	fastFlipper := c != nil && c.SpeedCategory == domain.SpeedUltraFlipper && c.Confidence > minFlipperConfidence
	if fastFlipper {
		signal(0.25, "confident_ultra_flipper",
			fmt.Sprintf("classified %s with confidence %.2f", c.SpeedCategory, c.Confidence))
	}

	consistency := intervalConsistency(sequences)
	if consistency > intervalConsistencyMin {
		signal(0.2, "metronomic_intervals",
			fmt.Sprintf("inter-trade interval consistency %.3f", consistency))
	}

	roundShare := roundAmountFraction(sequences)
	if roundShare > roundAmountShare {
		signal(0.15, "round_amounts",
			fmt.Sprintf("%.0f%% of trade amounts are round numbers", roundShare*100))
	}

	fastExits := m.HistoricalPattern != nil &&
		m.HistoricalPattern.MedianCompletedHoldTimeHours*60 < fastExitMedianMinutes
	if fastExits {
		signal(0.2, "sub_3min_median_exit",
			fmt.Sprintf("median completed hold %.1f minutes", m.HistoricalPattern.MedianCompletedHoldTimeHours*60))
	}

	switch {
	case res.Score > botScoreCutoff:
		res.Classification = domain.ClassificationBot
		res.BotType = botType(tokensPerDay > maxTokensPerDay, highFreqMicro, fastFlipper || fastExits, consistency > intervalConsistencyMin)
	case res.Score < humanScoreCutoff:
		res.Classification = domain.ClassificationHuman
	}

	res.Confidence = stats.Clamp01(res.Score)
	if res.Confidence < 0.1 {
		res.Confidence = 0.1
	}

	return res
}

// botType picks the sub-type from the combination of matched signals.
func botType(tokenSpray, highFreqMicro, fastExits, metronomic bool) string {
	switch {
	case tokenSpray:
		return domain.BotTypeSpam
	case highFreqMicro && fastExits:
		return domain.BotTypeArbitrage
	case metronomic:
		return domain.BotTypeMarketMaker
	default:
		return domain.BotTypeMEV
	}
}

// maxDistinctTokensPerDay returns the largest number of distinct mints the
// wallet touched within a single UTC day.
func maxDistinctTokensPerDay(sequences []*domain.TokenTradeSequence) int {
	perDay := make(map[int64]map[string]struct{})
	for _, s := range sequences {
		for _, tr := range s.Trades {
			day := tr.Timestamp / 86400
			if perDay[day] == nil {
				perDay[day] = make(map[string]struct{})
			}
			perDay[day][s.Mint] = struct{}{}
		}
	}

	best := 0
	for _, mints := range perDay {
		if len(mints) > best {
			best = len(mints)
		}
	}
	return best
}

// intervalConsistency measures how regular the wallet's trading rhythm is:
// 1 minus the coefficient of variation of inter-trade intervals, clamped to
// [0, 1]. A value near 1 means near-identical spacing between trades.
func intervalConsistency(sequences []*domain.TokenTradeSequence) float64 {
	var timestamps []int64
	for _, s := range sequences {
		for _, tr := range s.Trades {
			timestamps = append(timestamps, tr.Timestamp)
		}
	}
	if len(timestamps) < 3 {
		return 0
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })

	intervals := make([]float64, 0, len(timestamps)-1)
	for i := 1; i < len(timestamps); i++ {
		intervals = append(intervals, float64(timestamps[i]-timestamps[i-1]))
	}

	mean := stats.Mean(intervals)
	if mean == 0 {
		return 0
	}
	return stats.Clamp01(1 - stats.Stddev(intervals)/mean)
}

// roundAmountFraction returns the share of trade amounts that look
// machine-chosen: whole numbers or simple halves, quarters and tenths.
func roundAmountFraction(sequences []*domain.TokenTradeSequence) float64 {
	total, round := 0, 0
	for _, s := range sequences {
		for _, tr := range s.Trades {
			total++
			if isRoundAmount(tr.Amount) {
				round++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(round) / float64(total)
}

func isRoundAmount(v float64) bool {
	if v <= 0 {
		return false
	}
	for _, scale := range []float64{1, 2, 4, 10} {
		scaled := v * scale
		if math.Abs(scaled-math.Round(scaled)) < 1e-9 {
			return true
		}
	}
	return false
}
