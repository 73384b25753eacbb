// Package lifecycle reconstructs position lifecycles from token trade
// sequences using FIFO lot accounting.
package lifecycle

import (
	"fmt"

	"wallet-behavior-lab/internal/config"
	"wallet-behavior-lab/internal/domain"
	"wallet-behavior-lab/internal/idhash"
)

// positionEpsilon absorbs float drift when deciding a position returned to
// zero.
const positionEpsilon = 1e-9

// secondsPerHour converts duration sums to hours.
const secondsPerHour = 3600.0

// Flip is one FIFO buy-to-sell match: the consumed amount and how long it
// was held.
type Flip struct {
	Mint            string
	SellTimestamp   int64
	DurationSeconds int64
	Amount          float64
}

// OpenLot is an unconsumed buy lot remaining at the analysis timestamp.
type OpenLot struct {
	Mint            string
	Timestamp       int64
	RemainingAmount float64
	OriginalAmount  float64
	SOLValuePerUnit float64
}

// SequenceResult is everything the engine derives from one token sequence.
type SequenceResult struct {
	Lifecycles []*domain.TokenPositionLifecycle
	Flips      []Flip
	OpenLots   []OpenLot

	// Excess sells are sell volume with no open lot to consume, usually
	// incomplete upstream history. Dropped silently, surfaced as counts.
	ExcessSellEvents int
	ExcessSellAmount float64

	Events []domain.Event
}

// cycleState accumulates one holding cycle during the walk.
type cycleState struct {
	entryTimestamp int64
	ledger         ledger
	current        float64
	peak           float64
	totalBought    float64
	totalSold      float64
	buyCount       int
	sellCount      int
	durationSum    float64 // seconds * amount over consumed lots
	amountSum      float64 // consumed amount
	exitedAt       *int64  // first sell that pushed the position to/below the exit threshold
	open           bool
}

// BuildSequence walks one token sequence in timestamp order and emits one
// lifecycle per holding cycle. A new cycle begins exactly when the position
// returns to zero after having been positive; without the split, a wallet
// that fully exits and rebuys would be modeled as one artificially long
// holding period.
//
// analysisTimestamp bounds "held so far" durations for open cycles. It must
// be derived from the input, never the wall clock, so repeated analysis of
// the same history is bit-identical.
func BuildSequence(walletAddress string, seq *domain.TokenTradeSequence, thresholds config.HoldingThresholds, analysisTimestamp int64) *SequenceResult {
	res := &SequenceResult{}
	if seq == nil || len(seq.Trades) == 0 {
		return res
	}

	var c cycleState
	cycleIndex := 0

	for _, trade := range seq.Trades {
		switch trade.Direction {
		case domain.DirectionIn:
			if !c.open {
				c = cycleState{entryTimestamp: trade.Timestamp, open: true}
			}
			c.ledger.push(trade.Timestamp, trade.Amount, trade.SOLValue)
			c.current += trade.Amount
			c.totalBought += trade.Amount
			c.buyCount++
			if c.current > c.peak {
				c.peak = c.current
			}

		case domain.DirectionOut:
			if !c.open {
				// Sell with no tracked position at all.
				res.ExcessSellEvents++
				res.ExcessSellAmount += trade.Amount
				continue
			}
			c.sellCount++
			remaining := trade.Amount

			for remaining > positionEpsilon {
				front := c.ledger.front()
				if front == nil {
					// Sell exceeds tracked buys: drop the excess.
					res.ExcessSellEvents++
					res.ExcessSellAmount += remaining
					break
				}

				consumed := min(front.amount, remaining)
				duration := trade.Timestamp - front.timestamp
				c.durationSum += float64(duration) * consumed
				c.amountSum += consumed
				c.totalSold += consumed
				c.current -= consumed
				remaining -= consumed

				res.Flips = append(res.Flips, Flip{
					Mint:            seq.Mint,
					SellTimestamp:   trade.Timestamp,
					DurationSeconds: duration,
					Amount:          consumed,
				})

				front.amount -= consumed
				if front.amount <= positionEpsilon {
					c.ledger.pop()
				}
			}

			if c.current <= positionEpsilon {
				// Position returned to zero: close the cycle here.
				ts := trade.Timestamp
				res.Lifecycles = append(res.Lifecycles, finalizeClosed(walletAddress, seq.Mint, cycleIndex, &c, ts))
				cycleIndex++
				c = cycleState{}
				continue
			}

			if c.exitedAt == nil && c.current <= thresholds.ExitThreshold*c.peak {
				ts := trade.Timestamp
				c.exitedAt = &ts
			}
		}
	}

	// Final, possibly still-open cycle.
	if c.open {
		lc, lots := finalizeOpen(walletAddress, seq.Mint, cycleIndex, &c, thresholds, analysisTimestamp)
		res.Lifecycles = append(res.Lifecycles, lc)
		res.OpenLots = append(res.OpenLots, lots...)
	}

	if res.ExcessSellEvents > 0 {
		res.Events = append(res.Events, domain.Event{
			Level:     domain.EventWarn,
			Component: "lifecycle",
			Mint:      seq.Mint,
			Message: fmt.Sprintf("dropped %d sell(s) totaling %.6f beyond tracked buy lots",
				res.ExcessSellEvents, res.ExcessSellAmount),
		})
	}
	if len(res.Lifecycles) > 1 {
		res.Events = append(res.Events, domain.Event{
			Level:     domain.EventDebug,
			Component: "lifecycle",
			Mint:      seq.Mint,
			Message:   fmt.Sprintf("split into %d holding cycles", len(res.Lifecycles)),
		})
	}

	return res
}

// finalizeClosed builds the lifecycle for a cycle whose position returned
// to exactly zero.
func finalizeClosed(wallet, mint string, cycleIndex int, c *cycleState, exitTimestamp int64) *domain.TokenPositionLifecycle {
	exitTS := exitTimestamp
	return &domain.TokenPositionLifecycle{
		LifecycleID:              idhash.ComputeLifecycleID(wallet, mint, cycleIndex, c.entryTimestamp),
		WalletAddress:            wallet,
		Mint:                     mint,
		CycleIndex:               cycleIndex,
		EntryTimestamp:           c.entryTimestamp,
		ExitTimestamp:            &exitTS,
		PeakPosition:             c.peak,
		CurrentPosition:          0,
		PercentOfPeakRemaining:   0,
		PositionStatus:           domain.PositionStatusExited,
		BehaviorType:             domain.BehaviorMostlyExited,
		WeightedHoldingTimeHours: weightedHours(c.durationSum, c.amountSum),
		TotalBought:              c.totalBought,
		TotalSold:                c.totalSold,
		BuyCount:                 c.buyCount,
		SellCount:                c.sellCount,
	}
}

// finalizeOpen builds the lifecycle for the last cycle of a sequence when it
// never returned to zero, and returns its remaining open lots.
//
// Status precedence: a residue at or below the dust fraction is DUST (likely
// incomplete history) even if the exit threshold was crossed; otherwise a
// crossed exit threshold means EXITED; otherwise the position is ACTIVE with
// a holder sub-type from the remaining fraction.
func finalizeOpen(wallet, mint string, cycleIndex int, c *cycleState, thresholds config.HoldingThresholds, analysisTimestamp int64) (*domain.TokenPositionLifecycle, []OpenLot) {
	fraction := 0.0
	if c.peak > 0 {
		fraction = c.current / c.peak
	}

	status := domain.PositionStatusActive
	behavior := domain.BehaviorProfitTaker
	var exitTimestamp *int64

	switch {
	case fraction <= thresholds.DustThreshold:
		status = domain.PositionStatusDust
		behavior = domain.BehaviorMostlyExited
	case c.exitedAt != nil:
		status = domain.PositionStatusExited
		behavior = domain.BehaviorMostlyExited
		exitTimestamp = c.exitedAt
	case fraction > 0.75:
		behavior = domain.BehaviorFullHolder
	}

	// Open cycles include "held so far" time for remaining lots so the
	// weighted holding time reflects capital that is still committed.
	// Threshold-exited cycles do not: their hold time is exit-based.
	durationSum, amountSum := c.durationSum, c.amountSum
	openLots := c.ledger.open()
	if status != domain.PositionStatusExited {
		for _, l := range openLots {
			heldFor := analysisTimestamp - l.timestamp
			if heldFor < 0 {
				heldFor = 0
			}
			durationSum += float64(heldFor) * l.amount
			amountSum += l.amount
		}
	}

	lc := &domain.TokenPositionLifecycle{
		LifecycleID:              idhash.ComputeLifecycleID(wallet, mint, cycleIndex, c.entryTimestamp),
		WalletAddress:            wallet,
		Mint:                     mint,
		CycleIndex:               cycleIndex,
		EntryTimestamp:           c.entryTimestamp,
		ExitTimestamp:            exitTimestamp,
		PeakPosition:             c.peak,
		CurrentPosition:          c.current,
		PercentOfPeakRemaining:   fraction * 100,
		PositionStatus:           status,
		BehaviorType:             behavior,
		WeightedHoldingTimeHours: weightedHours(durationSum, amountSum),
		TotalBought:              c.totalBought,
		TotalSold:                c.totalSold,
		BuyCount:                 c.buyCount,
		SellCount:                c.sellCount,
	}

	lots := make([]OpenLot, 0, len(openLots))
	for _, l := range openLots {
		lots = append(lots, OpenLot{
			Mint:            mint,
			Timestamp:       l.timestamp,
			RemainingAmount: l.amount,
			OriginalAmount:  l.originalAmount,
			SOLValuePerUnit: l.solValuePerUnit,
		})
	}

	return lc, lots
}

func weightedHours(durationSum, amountSum float64) float64 {
	if amountSum <= 0 {
		return 0
	}
	return durationSum / amountSum / secondsPerHour
}
