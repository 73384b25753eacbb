// Package sessions detects trading sessions (bursts separated by idle gaps)
// and recurring hour-of-day trading windows.
package sessions

import (
	"sort"

	"wallet-behavior-lab/internal/domain"
	"wallet-behavior-lab/internal/stats"
)

const (
	secondsPerDay  = 86400
	secondsPerHour = 3600

	// Window pruning: a window survives if it lasts at least this many
	// hours OR carries at least this share of all trades.
	minWindowHours      = 2
	minWindowTradeShare = 5.0

	// A one-hour gap between windows is bridged when its smoothed activity
	// reaches this fraction of the threshold.
	bridgeFraction = 0.5
)

// DetectSessions groups trades into sessions with the gap heuristic: a new
// session starts whenever the inter-trade gap exceeds gapThresholdHours.
func DetectSessions(timestamps []int64, gapThresholdHours float64) domain.SessionStats {
	if len(timestamps) == 0 {
		return domain.SessionStats{}
	}

	sorted := make([]int64, len(timestamps))
	copy(sorted, timestamps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	gapSeconds := int64(gapThresholdHours * secondsPerHour)

	var durationsMin, startHours []float64
	sessionStart := sorted[0]
	prev := sorted[0]
	count := 1

	closeSession := func(last int64) {
		durationsMin = append(durationsMin, float64(last-sessionStart)/60)
		startHours = append(startHours, hourOfDay(sessionStart))
	}

	for _, ts := range sorted[1:] {
		if ts-prev > gapSeconds {
			closeSession(prev)
			sessionStart = ts
			count++
		}
		prev = ts
	}
	closeSession(prev)

	return domain.SessionStats{
		SessionCount:                  count,
		AvgTradesPerSession:           float64(len(sorted)) / float64(count),
		AverageSessionDurationMinutes: stats.Mean(durationsMin),
		AverageSessionStartHour:       stats.CircularMeanHours(startHours),
	}
}

// DetectWindows builds the hourly activity histogram and extracts recurring
// high-activity windows from it.
//
// Pipeline: 3-hour centered circular moving average, threshold at the 75th
// percentile of the non-zero smoothed hours (floored at 1), contiguous
// at-threshold runs, pruning of short low-share windows, then bridging of
// near-adjacent windows.
func DetectWindows(timestamps []int64) domain.ActiveTradingPeriods {
	var p domain.ActiveTradingPeriods
	if len(timestamps) == 0 {
		return p
	}

	for _, ts := range timestamps {
		p.HourlyTradeCounts[int(hourOfDay(ts))]++
	}
	total := len(timestamps)

	var smoothed [24]float64
	for h := 0; h < 24; h++ {
		smoothed[h] = float64(p.HourlyTradeCounts[(h+23)%24]+p.HourlyTradeCounts[h]+p.HourlyTradeCounts[(h+1)%24]) / 3
	}

	var nonZero []float64
	for _, v := range smoothed {
		if v > 0 {
			nonZero = append(nonZero, v)
		}
	}
	if len(nonZero) == 0 {
		return p
	}
	sort.Float64s(nonZero)
	threshold := stats.Percentile(nonZero, 0.75)
	if threshold < 1 {
		threshold = 1
	}

	windows := windowRuns(smoothed, threshold)
	windows = prune(windows, p.HourlyTradeCounts, total)
	windows = bridge(windows, smoothed, threshold)

	inWindows := 0
	for i := range windows {
		fill(&windows[i], p.HourlyTradeCounts, total)
		inWindows += windows[i].TradeCountInWindow
	}
	p.IdentifiedWindows = windows
	p.ActivityFocusScore = stats.Clamp01(float64(inWindows) / float64(total))

	return p
}

// hourOfDay returns the fractional UTC hour of a Unix timestamp.
func hourOfDay(ts int64) float64 {
	return float64(ts%secondsPerDay) / secondsPerHour
}

// windowRuns finds circular runs of hours whose smoothed activity is at or
// above threshold. Runs may wrap midnight.
func windowRuns(smoothed [24]float64, threshold float64) []domain.IdentifiedTradingWindow {
	active := func(h int) bool { return smoothed[(h+24)%24] >= threshold }

	allActive := true
	for h := 0; h < 24; h++ {
		if !active(h) {
			allActive = false
			break
		}
	}
	if allActive {
		return []domain.IdentifiedTradingWindow{{StartHourUTC: 0, EndHourUTC: 23, DurationHours: 24}}
	}

	// Scan one full day starting just past an inactive hour so wrapped runs
	// are seen whole.
	start := 0
	for h := 0; h < 24; h++ {
		if !active(h) {
			start = h + 1
			break
		}
	}

	var windows []domain.IdentifiedTradingWindow
	runStart := -1
	for i := 0; i < 24; i++ {
		h := (start + i) % 24
		switch {
		case active(h) && runStart < 0:
			runStart = h
		case !active(h) && runStart >= 0:
			end := (h + 23) % 24
			windows = append(windows, domain.IdentifiedTradingWindow{
				StartHourUTC:  runStart,
				EndHourUTC:    end,
				DurationHours: spanHours(runStart, end),
			})
			runStart = -1
		}
	}
	// The scan starts right after an inactive hour, so the last scanned hour
	// is inactive and every run closes inside the loop.

	sort.Slice(windows, func(i, j int) bool { return windows[i].StartHourUTC < windows[j].StartHourUTC })
	return windows
}

// prune drops windows that are both short and carry a negligible share of
// trades.
func prune(windows []domain.IdentifiedTradingWindow, counts [24]int, total int) []domain.IdentifiedTradingWindow {
	kept := windows[:0]
	for _, w := range windows {
		share := float64(sumSpan(counts, w.StartHourUTC, w.EndHourUTC)) / float64(total) * 100
		if w.DurationHours < minWindowHours && share < minWindowTradeShare {
			continue
		}
		kept = append(kept, w)
	}
	return kept
}

// bridge merges windows that are adjacent or separated by a single hour
// whose smoothed activity clears the bridge fraction. Repeats until stable;
// the wrap pair (last, first) is considered too.
func bridge(windows []domain.IdentifiedTradingWindow, smoothed [24]float64, threshold float64) []domain.IdentifiedTradingWindow {
	for {
		if len(windows) < 2 {
			return windows
		}

		merged := false
		for i := 0; i < len(windows) && !merged; i++ {
			j := (i + 1) % len(windows)
			if i == j {
				break
			}
			a, b := windows[i], windows[j]
			gap := ((b.StartHourUTC - a.EndHourUTC - 1) + 48) % 24
			if a.DurationHours+b.DurationHours+gap >= 24 {
				continue
			}
			bridgeable := gap == 0 ||
				(gap == 1 && smoothed[(a.EndHourUTC+1)%24] >= bridgeFraction*threshold)
			if !bridgeable {
				continue
			}

			windows[i] = domain.IdentifiedTradingWindow{
				StartHourUTC:  a.StartHourUTC,
				EndHourUTC:    b.EndHourUTC,
				DurationHours: spanHours(a.StartHourUTC, b.EndHourUTC),
			}
			windows = append(windows[:j], windows[j+1:]...)
			merged = true
		}
		if !merged {
			sort.Slice(windows, func(i, j int) bool { return windows[i].StartHourUTC < windows[j].StartHourUTC })
			return windows
		}
	}
}

// fill completes the per-window statistics from the raw hourly counts.
func fill(w *domain.IdentifiedTradingWindow, counts [24]int, total int) {
	w.TradeCountInWindow = sumSpan(counts, w.StartHourUTC, w.EndHourUTC)
	w.PercentageOfTotalTrades = float64(w.TradeCountInWindow) / float64(total) * 100
	w.AvgTradesPerHourInWindow = float64(w.TradeCountInWindow) / float64(w.DurationHours)
}

// spanHours returns the inclusive circular length of [start, end].
func spanHours(start, end int) int {
	return (end-start+24)%24 + 1
}

// sumSpan sums raw counts over the inclusive circular hour range.
func sumSpan(counts [24]int, start, end int) int {
	sum := 0
	n := spanHours(start, end)
	for i := 0; i < n; i++ {
		sum += counts[(start+i)%24]
	}
	return sum
}
