// Package behavior reduces token sequences and lifecycles into wallet-level
// behavioral metrics.
package behavior

import (
	"fmt"
	"math"
	"sort"

	"wallet-behavior-lab/internal/config"
	"wallet-behavior-lab/internal/domain"
	"wallet-behavior-lab/internal/lifecycle"
	"wallet-behavior-lab/internal/stats"
)

// maxReportedTokens caps the "most traded" list.
const maxReportedTokens = 10

// Aggregate reduces all sequences and their lifecycle results into a
// BehavioralMetrics value. Pure: no I/O, no clock; analysisTimestamp comes
// from the caller. Empty input yields the zeroed empty-metrics object.
func Aggregate(
	walletAddress string,
	sequences []*domain.TokenTradeSequence,
	results []*lifecycle.SequenceResult,
	cfg config.Config,
	analysisTimestamp int64,
) (*domain.BehavioralMetrics, []domain.Event) {
	if len(sequences) == 0 {
		return domain.EmptyBehavioralMetrics(walletAddress), nil
	}

	m := &domain.BehavioralMetrics{
		WalletAddress:     walletAddress,
		AnalysisTimestamp: analysisTimestamp,
	}
	var events []domain.Event

	countTokens(m, sequences)
	computeShape(m, sequences)
	computeTradeValueStats(m, sequences)

	var flips []lifecycle.Flip
	var openLots []lifecycle.OpenLot
	var lifecycles []*domain.TokenPositionLifecycle
	for _, r := range results {
		flips = append(flips, r.Flips...)
		openLots = append(openLots, r.OpenLots...)
		lifecycles = append(lifecycles, r.Lifecycles...)
		m.ExcessSellDropCount += r.ExcessSellEvents
	}

	computeFlipMetrics(m, flips)
	computeHoldTimes(m, lifecycles)
	computeCurrentHoldings(m, sequences, openLots, cfg.HoldingThresholds, analysisTimestamp)
	events = append(events, computeTokenPreferences(m, sequences, cfg.ScamFiltering)...)

	return m, events
}

// countTokens fills the per-token count fields.
func countTokens(m *domain.BehavioralMetrics, sequences []*domain.TokenTradeSequence) {
	m.UniqueTokensTraded = len(sequences)
	for _, s := range sequences {
		m.TotalTradeCount += s.TotalTradeCount()
		m.TotalBuyCount += s.BuyCount
		m.TotalSellCount += s.SellCount
		switch {
		case s.HasBothSides():
			m.TokensWithBothSides++
		case s.BuyCount > 0:
			m.TokensWithOnlyBuys++
		default:
			m.TokensWithOnlySells++
		}
	}
}

// computeShape fills ratio, symmetry and consistency.
func computeShape(m *domain.BehavioralMetrics, sequences []*domain.TokenTradeSequence) {
	switch {
	case m.TotalSellCount > 0:
		m.BuySellRatio = float64(m.TotalBuyCount) / float64(m.TotalSellCount)
	case m.TotalBuyCount > 0:
		// Sentinel: the wallet only ever bought.
		m.BuySellRatio = math.Inf(1)
	default:
		m.BuySellRatio = 0
	}

	var symmetries, consistencies []float64
	for _, s := range sequences {
		if !s.HasBothSides() {
			continue
		}
		lo := float64(min(s.BuyCount, s.SellCount))
		hi := float64(max(s.BuyCount, s.SellCount))
		symmetries = append(symmetries, lo/hi)
		consistencies = append(consistencies, float64(s.CompletePairs)/lo)
	}
	m.BuySellSymmetry = stats.Mean(symmetries)
	m.SequenceConsistency = stats.Mean(consistencies)
}

// computeTradeValueStats fills the simple risk metrics.
func computeTradeValueStats(m *domain.BehavioralMetrics, sequences []*domain.TokenTradeSequence) {
	var total, largest float64
	count := 0
	for _, s := range sequences {
		for _, tr := range s.Trades {
			total += tr.SOLValue
			if tr.SOLValue > largest {
				largest = tr.SOLValue
			}
			count++
		}
	}
	if count > 0 {
		m.Risk.AverageTransactionValueSOL = total / float64(count)
	}
	m.Risk.LargestTransactionValueSOL = largest

	for _, s := range sequences {
		for _, tr := range s.Trades {
			if m.FirstTransactionTimestamp == 0 || tr.Timestamp < m.FirstTransactionTimestamp {
				m.FirstTransactionTimestamp = tr.Timestamp
			}
			if tr.Timestamp > m.LastTransactionTimestamp {
				m.LastTransactionTimestamp = tr.Timestamp
			}
		}
	}
}

// Flip duration bin edges in seconds.
const (
	bin30m = 30 * 60
	bin1h  = 60 * 60
	bin4h  = 4 * 60 * 60
	bin8h  = 8 * 60 * 60
	bin24h = 24 * 60 * 60
	bin7d  = 7 * 24 * 60 * 60
)

// computeFlipMetrics fills the flip-duration distribution and average.
func computeFlipMetrics(m *domain.BehavioralMetrics, flips []lifecycle.Flip) {
	if len(flips) == 0 {
		return
	}

	var counts [7]int
	var durations []float64
	for _, f := range flips {
		d := f.DurationSeconds
		durations = append(durations, float64(d)/3600)
		switch {
		case d < bin30m:
			counts[0]++
		case d < bin1h:
			counts[1]++
		case d < bin4h:
			counts[2]++
		case d < bin8h:
			counts[3]++
		case d < bin24h:
			counts[4]++
		case d < bin7d:
			counts[5]++
		default:
			counts[6]++
		}
	}

	n := float64(len(flips))
	m.TradingTimeDistribution = domain.TradingTimeDistribution{
		UltraFast: float64(counts[0]) / n,
		VeryFast:  float64(counts[1]) / n,
		Fast:      float64(counts[2]) / n,
		Moderate:  float64(counts[3]) / n,
		DayTrader: float64(counts[4]) / n,
		Swing:     float64(counts[5]) / n,
		Position:  float64(counts[6]) / n,
	}
	m.AverageFlipDurationHours = stats.Mean(durations)
}

// computeHoldTimes fills the median hold time across ALL lifecycles, open
// ones included. The completed-only view belongs to the historical pattern,
// not here.
func computeHoldTimes(m *domain.BehavioralMetrics, lifecycles []*domain.TokenPositionLifecycle) {
	var holds []float64
	for _, lc := range lifecycles {
		holds = append(holds, lc.WeightedHoldingTimeHours)
	}
	m.MedianHoldTimeHours = stats.Median(holds)
}

// computeCurrentHoldings fills the current-holdings metrics from unconsumed
// lots, applying the dust filter so negligible remainders do not distort
// the picture.
func computeCurrentHoldings(
	m *domain.BehavioralMetrics,
	sequences []*domain.TokenTradeSequence,
	openLots []lifecycle.OpenLot,
	thresholds config.HoldingThresholds,
	analysisTimestamp int64,
) {
	tokensHeld := make(map[string]struct{})
	var durations, weights []float64
	var currentValue float64

	for _, l := range openLots {
		heldSeconds := analysisTimestamp - l.Timestamp
		valueSOL := l.RemainingAmount * l.SOLValuePerUnit
		pctOfLot := 0.0
		if l.OriginalAmount > 0 {
			pctOfLot = l.RemainingAmount / l.OriginalAmount * 100
		}

		if valueSOL < thresholds.MinimumSOLValue ||
			pctOfLot < thresholds.MinimumPercentageRemaining ||
			heldSeconds < thresholds.MinimumHoldingTimeSeconds {
			continue
		}

		tokensHeld[l.Mint] = struct{}{}
		durations = append(durations, float64(heldSeconds)/3600)
		weights = append(weights, l.RemainingAmount)
		currentValue += valueSOL
	}

	var totalBuySOL float64
	for _, s := range sequences {
		for _, tr := range s.Trades {
			if tr.Direction == domain.DirectionIn {
				totalBuySOL += tr.SOLValue
			}
		}
	}

	m.CurrentHoldings = domain.CurrentHoldingsMetrics{
		TokensWithActivePosition:    len(tokensHeld),
		AverageHoldingDurationHours: stats.WeightedMean(durations, weights),
		TotalCurrentValueSOL:        currentValue,
	}
	if totalBuySOL > 0 {
		m.CurrentHoldings.PercentOfTotalValueStillHeld = currentValue / totalBuySOL * 100
	}
}

// computeTokenPreferences fills the scam-filtered "most traded" list and
// returns any filter events.
func computeTokenPreferences(m *domain.BehavioralMetrics, sequences []*domain.TokenTradeSequence, scam config.ScamFilteringConfig) []domain.Event {
	var events []domain.Event
	var activities []domain.TokenActivity

	for _, s := range sequences {
		var totalSOL, totalUSDC float64
		for _, tr := range s.Trades {
			totalSOL += tr.SOLValue
			if tr.USDCValue != nil {
				totalUSDC += *tr.USDCValue
			}
		}

		if scam.Enabled &&
			s.TotalTradeCount() >= scam.Thresholds.MinTradeCount &&
			totalSOL < scam.Thresholds.MinTotalValue &&
			totalUSDC < scam.Thresholds.MinTotalUsdcValue {
			m.ScamFilteredTokens++
			if scam.LogFilteredTokens {
				events = append(events, domain.Event{
					Level:     domain.EventInfo,
					Component: "behavior",
					Mint:      s.Mint,
					Message: fmt.Sprintf("excluded from most-traded: %d trades but %.6f SOL total value",
						s.TotalTradeCount(), totalSOL),
				})
			}
			continue
		}

		activities = append(activities, domain.TokenActivity{
			Mint:          s.Mint,
			TradeCount:    s.TotalTradeCount(),
			TotalValueSOL: totalSOL,
		})
	}

	sort.Slice(activities, func(i, j int) bool {
		if activities[i].TradeCount != activities[j].TradeCount {
			return activities[i].TradeCount > activities[j].TradeCount
		}
		return activities[i].Mint < activities[j].Mint
	})
	if len(activities) > maxReportedTokens {
		activities = activities[:maxReportedTokens]
	}
	m.MostTradedTokens = activities

	return events
}
