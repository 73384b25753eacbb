package behavior

import (
	"math"
	"testing"

	"wallet-behavior-lab/internal/config"
	"wallet-behavior-lab/internal/domain"
	"wallet-behavior-lab/internal/lifecycle"
)

const wallet = "TestWallet111111111111111111111111111111111"

func seq(mint string, trades ...domain.TokenTrade) *domain.TokenTradeSequence {
	s := &domain.TokenTradeSequence{Mint: mint, Trades: trades}
	unmatched := 0
	for _, tr := range trades {
		if tr.Direction == domain.DirectionIn {
			s.BuyCount++
			unmatched++
		} else {
			s.SellCount++
			if unmatched > 0 {
				s.CompletePairs++
				unmatched--
			}
		}
	}
	return s
}

func buy(ts int64, amount float64) domain.TokenTrade {
	return domain.TokenTrade{Timestamp: ts, Direction: domain.DirectionIn, Amount: amount, SOLValue: amount * 0.01}
}

func sell(ts int64, amount float64) domain.TokenTrade {
	return domain.TokenTrade{Timestamp: ts, Direction: domain.DirectionOut, Amount: amount, SOLValue: amount * 0.01}
}

// run pushes sequences through the lifecycle engine and then the aggregator,
// the same path the analyzer takes.
func run(t *testing.T, cfg config.Config, analysisTS int64, sequences ...*domain.TokenTradeSequence) (*domain.BehavioralMetrics, []domain.Event) {
	t.Helper()
	var results []*lifecycle.SequenceResult
	for _, s := range sequences {
		results = append(results, lifecycle.BuildSequence(wallet, s, cfg.HoldingThresholds, analysisTS))
	}
	return Aggregate(wallet, sequences, results, cfg, analysisTS)
}

func TestAggregate_EmptyInput(t *testing.T) {
	m, events := Aggregate(wallet, nil, nil, config.Default(), 0)

	if m.WalletAddress != wallet {
		t.Errorf("wallet = %q", m.WalletAddress)
	}
	if m.TotalTradeCount != 0 || m.UniqueTokensTraded != 0 || m.BuySellRatio != 0 {
		t.Errorf("expected zeroed metrics, got %+v", m)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %v", events)
	}
}

func TestAggregate_CountsAndRatio(t *testing.T) {
	m, _ := run(t, config.Default(), 100000,
		seq("MintA", buy(1000, 100), sell(2000, 100)),
		seq("MintB", buy(1000, 50), buy(2000, 50)),
		seq("MintC", sell(1000, 10)),
	)

	if m.UniqueTokensTraded != 3 || m.TotalTradeCount != 5 {
		t.Errorf("tokens=%d trades=%d", m.UniqueTokensTraded, m.TotalTradeCount)
	}
	if m.TotalBuyCount != 3 || m.TotalSellCount != 2 {
		t.Errorf("buys=%d sells=%d", m.TotalBuyCount, m.TotalSellCount)
	}
	if m.TokensWithBothSides != 1 || m.TokensWithOnlyBuys != 1 || m.TokensWithOnlySells != 1 {
		t.Errorf("sides = %d/%d/%d", m.TokensWithBothSides, m.TokensWithOnlyBuys, m.TokensWithOnlySells)
	}
	if m.BuySellRatio != 1.5 {
		t.Errorf("ratio = %v, want 1.5", m.BuySellRatio)
	}
}

func TestAggregate_BuysOnlySentinel(t *testing.T) {
	m, _ := run(t, config.Default(), 100000,
		seq("MintA", buy(1000, 100)),
	)

	if !math.IsInf(m.BuySellRatio, 1) {
		t.Errorf("ratio = %v, want +Inf", m.BuySellRatio)
	}
	if !m.HasOnlyBuys() {
		t.Error("HasOnlyBuys should report the sentinel")
	}
}

func TestAggregate_SymmetryAndConsistency(t *testing.T) {
	// MintA: 2 buys, 1 sell after the first buy -> symmetry 0.5, consistency 1.
	// MintB: sell before the buy -> symmetry 1, consistency 0.
	// Single-sided MintC is ignored by both.
	m, _ := run(t, config.Default(), 100000,
		seq("MintA", buy(1000, 10), sell(2000, 5), buy(3000, 10)),
		seq("MintB", sell(1000, 5), buy(2000, 5)),
		seq("MintC", buy(1000, 10)),
	)

	if math.Abs(m.BuySellSymmetry-0.75) > 1e-9 {
		t.Errorf("symmetry = %v, want 0.75", m.BuySellSymmetry)
	}
	if math.Abs(m.SequenceConsistency-0.5) > 1e-9 {
		t.Errorf("consistency = %v, want 0.5", m.SequenceConsistency)
	}
}

func TestAggregate_FlipDistribution(t *testing.T) {
	// Flip durations: 600s (<30m), 7200s (1-4h), 2 days (1-7d).
	m, _ := run(t, config.Default(), 10*86400,
		seq("MintA", buy(0, 10), sell(600, 10)),
		seq("MintB", buy(0, 10), sell(7200, 10)),
		seq("MintC", buy(0, 10), sell(2*86400, 10)),
	)

	d := m.TradingTimeDistribution
	third := 1.0 / 3
	if math.Abs(d.UltraFast-third) > 1e-9 || math.Abs(d.Fast-third) > 1e-9 || math.Abs(d.Swing-third) > 1e-9 {
		t.Errorf("distribution = %+v", d)
	}
	sum := d.UltraFast + d.VeryFast + d.Fast + d.Moderate + d.DayTrader + d.Swing + d.Position
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("fractions sum to %v, want 1", sum)
	}

	wantAvg := (600.0 + 7200 + 2*86400) / 3 / 3600
	if math.Abs(m.AverageFlipDurationHours-wantAvg) > 1e-9 {
		t.Errorf("avg flip = %v h, want %v h", m.AverageFlipDurationHours, wantAvg)
	}
}

func TestAggregate_MedianHoldCoversOpenPositions(t *testing.T) {
	// One closed cycle held 1h, one open position held 3h at analysis time.
	analysisTS := int64(3 * 3600)
	m, _ := run(t, config.Default(), analysisTS,
		seq("MintA", buy(0, 100), sell(3600, 100)),
		seq("MintB", buy(0, 100)),
	)

	if math.Abs(m.MedianHoldTimeHours-2) > 1e-9 {
		t.Errorf("median hold = %v h, want 2", m.MedianHoldTimeHours)
	}
}

func TestAggregate_CurrentHoldingsDustFilter(t *testing.T) {
	cfg := config.Default()
	// Lot values: amount * 0.01 SOL per unit via the helpers.
	// MintA keeps 60 of 130 bought: value 0.6 SOL, both lots held > 3600s.
	// MintB keeps 1 unit: value 0.01 SOL < 0.05 minimum, filtered out.
	m, _ := run(t, cfg, 6000,
		seq("MintA", buy(1000, 100), buy(2000, 30), sell(3000, 70)),
		seq("MintB", buy(1000, 1)),
	)

	ch := m.CurrentHoldings
	if ch.TokensWithActivePosition != 1 {
		t.Errorf("active tokens = %d, want 1", ch.TokensWithActivePosition)
	}
	if math.Abs(ch.TotalCurrentValueSOL-0.6) > 1e-9 {
		t.Errorf("current value = %v SOL, want 0.6", ch.TotalCurrentValueSOL)
	}
	// Weighted by remaining amount: 30 units held 5000s, 30 units held 4000s.
	wantHours := (5000.0*30 + 4000.0*30) / 60 / 3600
	if math.Abs(ch.AverageHoldingDurationHours-wantHours) > 1e-9 {
		t.Errorf("avg holding = %v h, want %v h", ch.AverageHoldingDurationHours, wantHours)
	}
	// Total buys: 1.31 SOL across both tokens; 0.6 still held.
	wantPct := 0.6 / 1.31 * 100
	if math.Abs(ch.PercentOfTotalValueStillHeld-wantPct) > 1e-6 {
		t.Errorf("pct held = %v, want %v", ch.PercentOfTotalValueStillHeld, wantPct)
	}
}

func TestAggregate_ScamFilter(t *testing.T) {
	cfg := config.Default()
	cfg.ScamFiltering.LogFilteredTokens = true

	// Scam-shaped token: 10 tiny trades of 0.000001 SOL each.
	scamTrades := make([]domain.TokenTrade, 0, 10)
	for i := 0; i < 10; i++ {
		scamTrades = append(scamTrades, domain.TokenTrade{
			Timestamp: int64(1000 + i), Direction: domain.DirectionIn,
			Amount: 1, SOLValue: 0.000001,
		})
	}
	scam := &domain.TokenTradeSequence{Mint: "ScamMint", Trades: scamTrades, BuyCount: 10}

	m, events := run(t, cfg, 100000,
		scam,
		seq("MintA", buy(1000, 100), sell(2000, 100)),
	)

	if m.ScamFilteredTokens != 1 {
		t.Errorf("scam filtered = %d, want 1", m.ScamFilteredTokens)
	}
	if len(m.MostTradedTokens) != 1 || m.MostTradedTokens[0].Mint != "MintA" {
		t.Errorf("most traded = %+v", m.MostTradedTokens)
	}

	found := false
	for _, e := range events {
		if e.Mint == "ScamMint" && e.Level == domain.EventInfo {
			found = true
		}
	}
	if !found {
		t.Error("expected an info event for the filtered token")
	}
}

func TestAggregate_ScamFilterDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.ScamFiltering.Enabled = false

	trades := make([]domain.TokenTrade, 0, 10)
	for i := 0; i < 10; i++ {
		trades = append(trades, domain.TokenTrade{
			Timestamp: int64(1000 + i), Direction: domain.DirectionIn,
			Amount: 1, SOLValue: 0.000001,
		})
	}
	s := &domain.TokenTradeSequence{Mint: "TinyMint", Trades: trades, BuyCount: 10}

	m, _ := run(t, cfg, 100000, s)

	if m.ScamFilteredTokens != 0 || len(m.MostTradedTokens) != 1 {
		t.Errorf("filtered=%d mostTraded=%+v", m.ScamFilteredTokens, m.MostTradedTokens)
	}
}

func TestAggregate_MostTradedDeterministicOrder(t *testing.T) {
	// Same trade count: ties break by mint for a stable report.
	m, _ := run(t, config.Default(), 100000,
		seq("MintB", buy(1000, 10), sell(2000, 10)),
		seq("MintA", buy(1000, 10), sell(2000, 10)),
		seq("MintC", buy(1000, 10), sell(2000, 10), buy(3000, 10)),
	)

	if len(m.MostTradedTokens) != 3 {
		t.Fatalf("got %d tokens", len(m.MostTradedTokens))
	}
	if m.MostTradedTokens[0].Mint != "MintC" {
		t.Errorf("highest trade count first, got %s", m.MostTradedTokens[0].Mint)
	}
	if m.MostTradedTokens[1].Mint != "MintA" || m.MostTradedTokens[2].Mint != "MintB" {
		t.Errorf("ties not ordered by mint: %+v", m.MostTradedTokens)
	}
}

func TestAggregate_ExcessSellCountSurfaces(t *testing.T) {
	m, _ := run(t, config.Default(), 100000,
		seq("MintA", buy(1000, 100), sell(2000, 150)),
		seq("MintB", sell(1000, 10)),
	)

	if m.ExcessSellDropCount != 2 {
		t.Errorf("excess drops = %d, want 2", m.ExcessSellDropCount)
	}
}

func TestAggregate_TimestampSpan(t *testing.T) {
	m, _ := run(t, config.Default(), 100000,
		seq("MintA", buy(5000, 10), sell(9000, 10)),
		seq("MintB", buy(2000, 10)),
	)

	if m.FirstTransactionTimestamp != 2000 || m.LastTransactionTimestamp != 9000 {
		t.Errorf("span = [%d, %d], want [2000, 9000]", m.FirstTransactionTimestamp, m.LastTransactionTimestamp)
	}
	if m.AnalysisTimestamp != 100000 {
		t.Errorf("analysis ts = %d", m.AnalysisTimestamp)
	}
}
