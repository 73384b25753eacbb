// Package sequence builds per-token trade sequences from raw swap rows.
package sequence

import (
	"math"
	"sort"

	"wallet-behavior-lab/internal/config"
	"wallet-behavior-lab/internal/domain"
)

// Build groups raw records by mint and sorts each group ascending by
// timestamp (stable sort, ties keep input order). Records for excluded
// mints and records with an unrecognized direction are dropped. Returns
// sequences sorted by mint for deterministic downstream iteration.
func Build(records []domain.SwapRecord, cfg config.Config) []*domain.TokenTradeSequence {
	if len(records) == 0 {
		return nil
	}

	byMint := make(map[string][]domain.TokenTrade)
	for _, r := range records {
		if r.Direction != domain.DirectionIn && r.Direction != domain.DirectionOut {
			continue
		}
		if r.Amount < 0 || cfg.IsExcludedMint(r.Mint) {
			continue
		}
		byMint[r.Mint] = append(byMint[r.Mint], domain.TokenTrade{
			Timestamp: r.Timestamp,
			Direction: r.Direction,
			Amount:    r.Amount,
			SOLValue:  r.SOLValue,
			USDCValue: r.USDCValue,
		})
	}

	mints := make([]string, 0, len(byMint))
	for mint := range byMint {
		mints = append(mints, mint)
	}
	sort.Strings(mints)

	sequences := make([]*domain.TokenTradeSequence, 0, len(mints))
	for _, mint := range mints {
		trades := byMint[mint]
		sort.SliceStable(trades, func(i, j int) bool {
			return trades[i].Timestamp < trades[j].Timestamp
		})

		seq := &domain.TokenTradeSequence{
			Mint:   mint,
			Trades: trades,
		}
		unmatchedBuys := 0
		for _, tr := range trades {
			if tr.Direction == domain.DirectionIn {
				seq.BuyCount++
				unmatchedBuys++
			} else {
				seq.SellCount++
				// A sell completes a pair only when a prior buy is open:
				// sells that precede any buy pair with nothing.
				if unmatchedBuys > 0 {
					seq.CompletePairs++
					unmatchedBuys--
				}
			}
		}
		seq.BuySellRatio = crudeRatio(seq.BuyCount, seq.SellCount)

		sequences = append(sequences, seq)
	}

	return sequences
}

// crudeRatio is the unweighted buy/sell ratio, used only as a fallback
// signal. +Inf marks a buys-only token, 0 a sells-only or empty one.
func crudeRatio(buys, sells int) float64 {
	if sells == 0 {
		if buys > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return float64(buys) / float64(sells)
}
