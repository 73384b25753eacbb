package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Wallet Behavior Report: %s\n\n", r.WalletAddress))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Analysis timestamp: %d\n\n", r.AnalysisTimestamp))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Trades | %d |\n", r.Summary.TotalTrades))
	sb.WriteString(fmt.Sprintf("| Buys | %d |\n", r.Summary.Buys))
	sb.WriteString(fmt.Sprintf("| Sells | %d |\n", r.Summary.Sells))
	sb.WriteString(fmt.Sprintf("| Unique Tokens | %d |\n", r.Summary.UniqueTokens))
	sb.WriteString(fmt.Sprintf("| Tokens With Both Sides | %d |\n", r.Summary.TokensWithBothSides))
	sb.WriteString(fmt.Sprintf("| Buy/Sell Ratio | %s |\n", r.Summary.BuySellRatio))
	sb.WriteString(fmt.Sprintf("| Buy/Sell Symmetry | %.4f |\n", r.Summary.BuySellSymmetry))
	sb.WriteString(fmt.Sprintf("| Sequence Consistency | %.4f |\n", r.Summary.SequenceConsistency))
	sb.WriteString(fmt.Sprintf("| First Trade | %d |\n", r.Summary.FirstTradeTimestamp))
	sb.WriteString(fmt.Sprintf("| Last Trade | %d |\n", r.Summary.LastTradeTimestamp))
	sb.WriteString("\n")

	// Hold times
	sb.WriteString("## Hold Times\n\n")
	sb.WriteString(fmt.Sprintf("Average flip duration: %.2f h | Median hold time: %.2f h\n\n",
		r.HoldTimes.AverageFlipDurationHours, r.HoldTimes.MedianHoldTimeHours))
	sb.WriteString("| Bin | Share |\n")
	sb.WriteString("|-----|-------|\n")
	for _, row := range r.HoldTimes.Distribution {
		sb.WriteString(fmt.Sprintf("| %s | %.1f%% |\n", row.Label, row.Fraction*100))
	}
	sb.WriteString("\n")

	// Current holdings
	sb.WriteString("## Current Holdings\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Tokens With Active Position | %d |\n", r.Holdings.TokensWithActivePosition))
	sb.WriteString(fmt.Sprintf("| Average Holding Duration | %.2f h |\n", r.Holdings.AverageHoldingDurationHours))
	sb.WriteString(fmt.Sprintf("| Total Current Value | %.4f SOL |\n", r.Holdings.TotalCurrentValueSOL))
	sb.WriteString(fmt.Sprintf("| Percent Of Total Value Held | %.2f%% |\n", r.Holdings.PercentOfTotalValueHeld))
	sb.WriteString("\n")

	// Most traded tokens
	sb.WriteString("## Most Traded Tokens\n\n")
	if len(r.TokenActivity) > 0 {
		sb.WriteString("| Mint | Trades | Value (SOL) |\n")
		sb.WriteString("|------|--------|-------------|\n")
		for _, tok := range r.TokenActivity {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.4f |\n", tok.Mint, tok.TradeCount, tok.TotalValueSOL))
		}
	} else {
		sb.WriteString("No token activity.\n")
	}
	sb.WriteString("\n")

	// Sessions and windows
	sb.WriteString("## Trading Sessions\n\n")
	sb.WriteString(fmt.Sprintf("Sessions: %d | Avg trades/session: %.2f | Avg duration: %.1f min | Avg start hour (UTC): %.2f\n\n",
		r.Sessions.SessionCount, r.Sessions.AvgTradesPerSession,
		r.Sessions.AvgDurationMinutes, r.Sessions.AverageSessionStartHour))

	sb.WriteString("## Active Trading Windows\n\n")
	if len(r.Windows) > 0 {
		sb.WriteString("| Start (UTC) | End (UTC) | Hours | Trades | Share |\n")
		sb.WriteString("|-------------|-----------|-------|--------|-------|\n")
		for _, w := range r.Windows {
			sb.WriteString(fmt.Sprintf("| %02d:00 | %02d:59 | %d | %d | %.1f%% |\n",
				w.StartHourUTC, w.EndHourUTC, w.DurationHours, w.TradeCount, w.PercentOfTrades))
		}
	} else {
		sb.WriteString("No recurring trading windows identified.\n")
	}
	sb.WriteString("\n")

	// Historical pattern
	sb.WriteString("## Historical Pattern\n\n")
	if h := r.Historical; h != nil {
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Behavior Type | %s |\n", h.BehaviorType))
		sb.WriteString(fmt.Sprintf("| Exit Pattern | %s |\n", h.ExitPattern))
		sb.WriteString(fmt.Sprintf("| Average Hold Time | %.2f h |\n", h.AverageHoldTimeHours))
		sb.WriteString(fmt.Sprintf("| Median Hold Time | %.2f h |\n", h.MedianHoldTimeHours))
		sb.WriteString(fmt.Sprintf("| Completed Cycles | %d |\n", h.CompletedCycles))
		sb.WriteString(fmt.Sprintf("| Data Quality | %.2f |\n", h.DataQuality))
		sb.WriteString(fmt.Sprintf("| Observation Period | %.1f days |\n", h.ObservationPeriodDays))
	} else {
		sb.WriteString("Not enough completed cycles for a historical pattern.\n")
	}
	sb.WriteString("\n")

	// Classification
	sb.WriteString("## Classification\n\n")
	if c := r.Classification; c != nil {
		sb.WriteString(fmt.Sprintf("**%s** (confidence %.2f)\n\n", c.CombinedLabel, c.Confidence))
		if c.LegacyFallback {
			sb.WriteString("Speed category derived from the mean flip duration; no historical pattern available.\n\n")
		}
	} else {
		sb.WriteString("No classification available.\n\n")
	}

	// Bot detection
	if b := r.BotDetection; b != nil {
		sb.WriteString("## Bot Detection\n\n")
		label := b.Classification
		if b.BotType != "" {
			label = fmt.Sprintf("%s (%s)", b.Classification, b.BotType)
		}
		sb.WriteString(fmt.Sprintf("Verdict: **%s** | Score: %.2f | Confidence: %.2f\n\n", label, b.Score, b.Confidence))
		for _, reason := range b.Reasons {
			sb.WriteString(fmt.Sprintf("- %s\n", reason))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
