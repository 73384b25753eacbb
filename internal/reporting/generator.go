// Package reporting renders analysis results as Markdown and CSV.
package reporting

import (
	"context"
	"fmt"
	"time"

	"wallet-behavior-lab/internal/domain"
	"wallet-behavior-lab/internal/storage"
)

// Generator produces reports from persisted snapshots.
type Generator struct {
	snapshots storage.SnapshotStore
	now       func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(snapshots storage.SnapshotStore) *Generator {
	return &Generator{
		snapshots: snapshots,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate loads the latest snapshot for a wallet and builds its report.
func (g *Generator) Generate(ctx context.Context, walletAddress string) (*Report, error) {
	snap, err := g.snapshots.GetLatestByWallet(ctx, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("load latest snapshot: %w", err)
	}

	return BuildReport(snap.Metrics, nil, g.now()), nil
}

// BuildReport converts metrics (and an optional bot verdict) into the
// renderable report structure.
func BuildReport(m *domain.BehavioralMetrics, bot *domain.BotDetectionResult, generatedAt time.Time) *Report {
	r := &Report{
		GeneratedAt:       generatedAt,
		WalletAddress:     m.WalletAddress,
		AnalysisTimestamp: m.AnalysisTimestamp,
		Summary: SummarySection{
			TotalTrades:         m.TotalTradeCount,
			Buys:                m.TotalBuyCount,
			Sells:               m.TotalSellCount,
			UniqueTokens:        m.UniqueTokensTraded,
			TokensWithBothSides: m.TokensWithBothSides,
			BuySellRatio:        formatRatio(m),
			BuySellSymmetry:     m.BuySellSymmetry,
			SequenceConsistency: m.SequenceConsistency,
			FirstTradeTimestamp: m.FirstTransactionTimestamp,
			LastTradeTimestamp:  m.LastTransactionTimestamp,
		},
		HoldTimes: HoldTimeSection{
			AverageFlipDurationHours: m.AverageFlipDurationHours,
			MedianHoldTimeHours:      m.MedianHoldTimeHours,
			Distribution:             distributionRows(m.TradingTimeDistribution),
		},
		Holdings: HoldingsSection{
			TokensWithActivePosition:    m.CurrentHoldings.TokensWithActivePosition,
			AverageHoldingDurationHours: m.CurrentHoldings.AverageHoldingDurationHours,
			TotalCurrentValueSOL:        m.CurrentHoldings.TotalCurrentValueSOL,
			PercentOfTotalValueHeld:     m.CurrentHoldings.PercentOfTotalValueStillHeld,
		},
		Sessions: SessionSection{
			SessionCount:            m.Sessions.SessionCount,
			AvgTradesPerSession:     m.Sessions.AvgTradesPerSession,
			AvgDurationMinutes:      m.Sessions.AverageSessionDurationMinutes,
			AverageSessionStartHour: m.Sessions.AverageSessionStartHour,
		},
	}

	for _, tok := range m.MostTradedTokens {
		r.TokenActivity = append(r.TokenActivity, TokenActivityRow{
			Mint:          tok.Mint,
			TradeCount:    tok.TradeCount,
			TotalValueSOL: tok.TotalValueSOL,
		})
	}

	for _, w := range m.ActivePeriods.IdentifiedWindows {
		r.Windows = append(r.Windows, TradingWindowRow{
			StartHourUTC:    w.StartHourUTC,
			EndHourUTC:      w.EndHourUTC,
			DurationHours:   w.DurationHours,
			TradeCount:      w.TradeCountInWindow,
			PercentOfTrades: w.PercentageOfTotalTrades,
		})
	}

	if p := m.HistoricalPattern; p != nil {
		r.Historical = &HistoricalSection{
			AverageHoldTimeHours:  p.HistoricalAverageHoldTimeHours,
			MedianHoldTimeHours:   p.MedianCompletedHoldTimeHours,
			CompletedCycles:       p.CompletedCycleCount,
			BehaviorType:          p.BehaviorType,
			ExitPattern:           p.ExitPattern,
			DataQuality:           p.DataQuality,
			ObservationPeriodDays: p.ObservationPeriodDays,
		}
	}

	if c := m.TradingInterpretation; c != nil {
		r.Classification = &ClassificationSection{
			SpeedCategory:     c.SpeedCategory,
			BehavioralPattern: c.BehavioralPattern,
			CombinedLabel:     c.CombinedLabel,
			Confidence:        c.Confidence,
			LegacyFallback:    c.LegacyFallback,
		}
	}

	if bot != nil {
		r.BotDetection = &BotSection{
			Classification: bot.Classification,
			BotType:        bot.BotType,
			Confidence:     bot.Confidence,
			Score:          bot.Score,
			Reasons:        bot.Reasons,
		}
	}

	return r
}

func formatRatio(m *domain.BehavioralMetrics) string {
	if m.HasOnlyBuys() {
		return "Infinity"
	}
	return fmt.Sprintf("%.4f", m.BuySellRatio)
}

func distributionRows(d domain.TradingTimeDistribution) []DistributionRow {
	return []DistributionRow{
		{Label: "< 30 min", Fraction: d.UltraFast},
		{Label: "30-60 min", Fraction: d.VeryFast},
		{Label: "1-4 h", Fraction: d.Fast},
		{Label: "4-8 h", Fraction: d.Moderate},
		{Label: "8-24 h", Fraction: d.DayTrader},
		{Label: "1-7 d", Fraction: d.Swing},
		{Label: "> 7 d", Fraction: d.Position},
	}
}
