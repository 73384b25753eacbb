// Package pattern derives a wallet's historical holding pattern from its
// completed position lifecycles.
package pattern

import (
	"wallet-behavior-lab/internal/config"
	"wallet-behavior-lab/internal/domain"
	"wallet-behavior-lab/internal/stats"
)

// Plausibility bounds on a completed cycle's hold time. Sub-second holds are
// artifacts of same-timestamp fills, year-plus holds of missing history.
const (
	minPlausibleHoldHours = 1.0 / 3600
	maxPlausibleHoldHours = 365 * 24.0
)

const secondsPerDay = 86400.0

// Calculate summarizes EXITED lifecycles into a historical pattern. Returns
// nil when fewer than the configured minimum of qualifying cycles remain
// after filtering. Nil means "not enough completed history" and callers must
// treat it as distinct from zero activity.
//
// DUST cycles are excluded because they often reflect missing historical
// buys; ACTIVE cycles because they have no known exit yet.
func Calculate(lifecycles []*domain.TokenPositionLifecycle, cfg config.HistoricalPatternConfig, analysisTimestamp int64) *domain.WalletHistoricalPattern {
	maxAgeSeconds := int64(cfg.MaximumDataAgeDays * secondsPerDay)

	var qualifying []*domain.TokenPositionLifecycle
	for _, lc := range lifecycles {
		if lc.PositionStatus != domain.PositionStatusExited {
			continue
		}
		if analysisTimestamp-lc.EntryTimestamp > maxAgeSeconds {
			continue
		}
		h := lc.WeightedHoldingTimeHours
		if h < minPlausibleHoldHours || h > maxPlausibleHoldHours {
			continue
		}
		qualifying = append(qualifying, lc)
	}

	if len(qualifying) < cfg.MinimumCompletedCycles {
		return nil
	}

	var holds, peaks []float64
	byMint := make(map[string][]float64)
	totalSells := 0
	minEntry, maxEntry := qualifying[0].EntryTimestamp, qualifying[0].EntryTimestamp
	for _, lc := range qualifying {
		holds = append(holds, lc.WeightedHoldingTimeHours)
		peaks = append(peaks, lc.PeakPosition)
		byMint[lc.Mint] = append(byMint[lc.Mint], lc.WeightedHoldingTimeHours)
		totalSells += lc.SellCount
		if lc.EntryTimestamp < minEntry {
			minEntry = lc.EntryTimestamp
		}
		if lc.EntryTimestamp > maxEntry {
			maxEntry = lc.EntryTimestamp
		}
	}

	// Median of per-token medians, so one heavily re-traded mint cannot
	// dominate the wallet-level median.
	perTokenMedians := make([]float64, 0, len(byMint))
	for _, tokenHolds := range byMint {
		perTokenMedians = append(perTokenMedians, stats.Median(tokenHolds))
	}
	median := stats.Median(perTokenMedians)

	uniqueTokens := len(byMint)
	exitPattern := domain.ExitPatternAllAtOnce
	if float64(totalSells)/float64(uniqueTokens) > 2 {
		exitPattern = domain.ExitPatternGradual
	}

	return &domain.WalletHistoricalPattern{
		HistoricalAverageHoldTimeHours: stats.WeightedMean(holds, peaks),
		MedianCompletedHoldTimeHours:   median,
		// Unique tokens, not lifecycles: re-entering one mint many times is
		// still one token's worth of completed history.
		CompletedCycleCount: uniqueTokens,
		BehaviorType:                   behaviorType(median),
		ExitPattern:                    exitPattern,
		DataQuality:                    stats.Clamp01(float64(uniqueTokens) / float64(cfg.MinimumCompletedCycles*3)),
		ObservationPeriodDays:          float64(maxEntry-minEntry) / secondsPerDay,
	}
}

// behaviorType maps the median completed hold time onto the ordered
// threshold table.
func behaviorType(medianHours float64) string {
	minutes := medianHours * 60
	switch {
	case minutes < 1:
		return domain.HistoricalBehaviorSniper
	case minutes < 5:
		return domain.HistoricalBehaviorScalper
	case minutes < 30:
		return domain.HistoricalBehaviorMomentum
	case minutes < 4*60:
		return domain.HistoricalBehaviorIntraday
	case minutes < 24*60:
		return domain.HistoricalBehaviorDayTrader
	case minutes < 7*24*60:
		return domain.HistoricalBehaviorSwing
	case minutes < 30*24*60:
		return domain.HistoricalBehaviorPosition
	default:
		return domain.HistoricalBehaviorHolder
	}
}
