// Package analyzer is the facade over the behavior analysis pipeline:
// sequence building, lifecycle reconstruction, metric aggregation, pattern
// and style classification, session detection, bot scoring and exit
// prediction.
package analyzer

import (
	"fmt"
	"log"

	"wallet-behavior-lab/internal/behavior"
	"wallet-behavior-lab/internal/botdetect"
	"wallet-behavior-lab/internal/classify"
	"wallet-behavior-lab/internal/config"
	"wallet-behavior-lab/internal/domain"
	"wallet-behavior-lab/internal/lifecycle"
	"wallet-behavior-lab/internal/pattern"
	"wallet-behavior-lab/internal/predict"
	"wallet-behavior-lab/internal/sequence"
	"wallet-behavior-lab/internal/sessions"
	"wallet-behavior-lab/internal/solana"
)

// analysisBufferSeconds is added to the latest trade timestamp to form the
// analysis timestamp. The analysis timestamp is derived from the input and
// never from the wall clock: repeated analysis of the same history must be
// bit-identical, and downstream persistence relies on that.
const analysisBufferSeconds = 3600

// Result bundles everything one analysis pass produced.
type Result struct {
	Metrics    *domain.BehavioralMetrics
	Sequences  []*domain.TokenTradeSequence
	Lifecycles []*domain.TokenPositionLifecycle
	Events     []domain.Event
}

// Analyzer runs the analysis pipeline. Stateless apart from config and
// logger; safe to share across goroutines and to parallelize across wallets.
type Analyzer struct {
	cfg    config.Config
	logger *log.Logger
}

// New creates an Analyzer. logger may be nil to disable event logging.
func New(cfg config.Config, logger *log.Logger) *Analyzer {
	return &Analyzer{cfg: cfg, logger: logger}
}

// Analyze computes the full behavioral metrics for one wallet from its raw
// swap records. Empty input produces the zeroed empty-metrics result, not an
// error.
func (a *Analyzer) Analyze(walletAddress string, records []domain.SwapRecord) (*Result, error) {
	if err := solana.ValidateWalletAddress(walletAddress); err != nil {
		return nil, fmt.Errorf("validate wallet address: %w", err)
	}

	if len(records) == 0 {
		return &Result{Metrics: domain.EmptyBehavioralMetrics(walletAddress)}, nil
	}

	analysisTimestamp := latestTimestamp(records) + analysisBufferSeconds

	sequences := sequence.Build(records, a.cfg)

	var events []domain.Event
	results := make([]*lifecycle.SequenceResult, 0, len(sequences))
	var lifecycles []*domain.TokenPositionLifecycle
	for _, s := range sequences {
		r := lifecycle.BuildSequence(walletAddress, s, a.cfg.HoldingThresholds, analysisTimestamp)
		results = append(results, r)
		lifecycles = append(lifecycles, r.Lifecycles...)
		events = append(events, r.Events...)
	}

	metrics, aggEvents := behavior.Aggregate(walletAddress, sequences, results, a.cfg, analysisTimestamp)
	events = append(events, aggEvents...)

	metrics.HistoricalPattern = pattern.Calculate(lifecycles, a.cfg.HistoricalPattern, analysisTimestamp)

	interpretation, classifyEvents := classify.Classify(metrics, metrics.HistoricalPattern)
	metrics.TradingInterpretation = interpretation
	events = append(events, classifyEvents...)

	timestamps := tradeTimestamps(sequences)
	metrics.Sessions = sessions.DetectSessions(timestamps, a.cfg.SessionGapThresholdHours)
	metrics.ActivePeriods = sessions.DetectWindows(timestamps)

	a.logEvents(walletAddress, events)

	return &Result{
		Metrics:    metrics,
		Sequences:  sequences,
		Lifecycles: lifecycles,
		Events:     events,
	}, nil
}

// DetectBot scores an analyzed wallet for automation likelihood.
func (a *Analyzer) DetectBot(res *Result) *domain.BotDetectionResult {
	return botdetect.Detect(res.Metrics.WalletAddress, res.Sequences, res.Metrics, res.Metrics.TradingInterpretation)
}

// PredictExit forecasts the exit of the wallet's current position in mint.
// Returns nil when the wallet holds no ACTIVE position in that mint or has
// no historical pattern.
func (a *Analyzer) PredictExit(res *Result, mint string) *domain.WalletTokenPrediction {
	var active *domain.TokenPositionLifecycle
	for _, lc := range res.Lifecycles {
		if lc.Mint == mint && lc.PositionStatus == domain.PositionStatusActive {
			active = lc // re-entries make the last cycle the current one
		}
	}
	return predict.Predict(res.Metrics.HistoricalPattern, active, res.Metrics.AnalysisTimestamp)
}

func (a *Analyzer) logEvents(walletAddress string, events []domain.Event) {
	if a.logger == nil {
		return
	}
	for _, e := range events {
		if e.Mint != "" {
			a.logger.Printf("[%s] %s wallet=%s mint=%s: %s", e.Level, e.Component, walletAddress, e.Mint, e.Message)
		} else {
			a.logger.Printf("[%s] %s wallet=%s: %s", e.Level, e.Component, walletAddress, e.Message)
		}
	}
}

func latestTimestamp(records []domain.SwapRecord) int64 {
	latest := records[0].Timestamp
	for _, r := range records[1:] {
		if r.Timestamp > latest {
			latest = r.Timestamp
		}
	}
	return latest
}

func tradeTimestamps(sequences []*domain.TokenTradeSequence) []int64 {
	var out []int64
	for _, s := range sequences {
		for _, tr := range s.Trades {
			out = append(out, tr.Timestamp)
		}
	}
	return out
}
