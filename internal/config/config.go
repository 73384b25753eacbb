// Package config holds the behavior analysis configuration. The analysis
// core takes a Config value explicitly; nothing in the engine reads global
// state.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for a behavior analysis run.
type Config struct {
	HoldingThresholds HoldingThresholds       `yaml:"holding_thresholds"`
	HistoricalPattern HistoricalPatternConfig `yaml:"historical_pattern"`
	ScamFiltering     ScamFilteringConfig     `yaml:"scam_filtering"`

	// SessionGapThresholdHours separates trading sessions: a new session
	// starts whenever the inter-trade gap exceeds this many hours.
	SessionGapThresholdHours float64 `yaml:"session_gap_threshold_hours"`

	// ExcludedMints are utility/stable mints that are not trading positions
	// (native SOL, major stablecoins). Passed as config, never hardcoded in
	// the engine.
	ExcludedMints []string `yaml:"excluded_mints"`
}

// HoldingThresholds controls position status assignment and the dust filter
// for current holdings.
type HoldingThresholds struct {
	// ExitThreshold is the fraction of peak position at or below which a
	// holding counts as closed.
	ExitThreshold float64 `yaml:"exit_threshold"`
	// DustThreshold is the smaller fraction of peak below which a nonzero
	// residue is classified DUST rather than EXITED.
	DustThreshold float64 `yaml:"dust_threshold"`

	// Dust filter for current-holdings metrics: a remaining lot is counted
	// only if it clears all three minimums.
	MinimumSOLValue            float64 `yaml:"minimum_sol_value"`
	MinimumPercentageRemaining float64 `yaml:"minimum_percentage_remaining"`
	MinimumHoldingTimeSeconds  int64   `yaml:"minimum_holding_time_seconds"`
}

// HistoricalPatternConfig gates the historical pattern calculation.
type HistoricalPatternConfig struct {
	MinimumCompletedCycles int     `yaml:"minimum_completed_cycles"`
	MaximumDataAgeDays     float64 `yaml:"maximum_data_age_days"`
}

// ScamFilteringConfig controls the scam-token heuristic: a token with many
// trades but near-zero total value is excluded from "most traded" reporting.
type ScamFilteringConfig struct {
	Enabled           bool               `yaml:"enabled"`
	Thresholds        ScamFilterCriteria `yaml:"thresholds"`
	LogFilteredTokens bool               `yaml:"log_filtered_tokens"`
}

// ScamFilterCriteria holds the scam filter thresholds.
type ScamFilterCriteria struct {
	MinTradeCount     int     `yaml:"min_trade_count"`
	MinTotalValue     float64 `yaml:"min_total_value"`      // SOL
	MinTotalUsdcValue float64 `yaml:"min_total_usdc_value"` // USDC
}

// Well-known Solana utility mints used in the default excluded set.
const (
	WSOLMint = "So11111111111111111111111111111111111111112"
	USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	USDTMint = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
)

// Default returns the default configuration.
func Default() Config {
	return Config{
		HoldingThresholds: HoldingThresholds{
			ExitThreshold:              0.20,
			DustThreshold:              0.05,
			MinimumSOLValue:            0.05,
			MinimumPercentageRemaining: 1.0,
			MinimumHoldingTimeSeconds:  3600,
		},
		HistoricalPattern: HistoricalPatternConfig{
			MinimumCompletedCycles: 3,
			MaximumDataAgeDays:     90,
		},
		ScamFiltering: ScamFilteringConfig{
			Enabled: true,
			Thresholds: ScamFilterCriteria{
				MinTradeCount:     10,
				MinTotalValue:     0.001,
				MinTotalUsdcValue: 0.1,
			},
		},
		SessionGapThresholdHours: 2,
		ExcludedMints:            []string{WSOLMint, USDCMint, USDTMint},
	}
}

// Load reads a YAML config file and merges it over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks threshold sanity.
func (c Config) Validate() error {
	ht := c.HoldingThresholds
	if ht.ExitThreshold <= 0 || ht.ExitThreshold >= 1 {
		return fmt.Errorf("exit_threshold must be in (0, 1), got %v", ht.ExitThreshold)
	}
	if ht.DustThreshold < 0 || ht.DustThreshold >= ht.ExitThreshold {
		return fmt.Errorf("dust_threshold must be in [0, exit_threshold), got %v", ht.DustThreshold)
	}
	if c.HistoricalPattern.MinimumCompletedCycles < 1 {
		return fmt.Errorf("minimum_completed_cycles must be >= 1, got %d", c.HistoricalPattern.MinimumCompletedCycles)
	}
	if c.HistoricalPattern.MaximumDataAgeDays <= 0 {
		return fmt.Errorf("maximum_data_age_days must be positive, got %v", c.HistoricalPattern.MaximumDataAgeDays)
	}
	if c.SessionGapThresholdHours <= 0 {
		return fmt.Errorf("session_gap_threshold_hours must be positive, got %v", c.SessionGapThresholdHours)
	}
	return nil
}

// IsExcludedMint reports whether mint is in the excluded set.
func (c Config) IsExcludedMint(mint string) bool {
	for _, m := range c.ExcludedMints {
		if m == mint {
			return true
		}
	}
	return false
}
