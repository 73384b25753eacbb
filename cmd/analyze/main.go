// Package main provides a single-shot wallet analysis CLI. It reads swaps
// from a CSV file or PostgreSQL, runs the behavior analysis, prints a
// Markdown report and optionally persists the snapshot.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"wallet-behavior-lab/internal/analyzer"
	"wallet-behavior-lab/internal/config"
	"wallet-behavior-lab/internal/domain"
	"wallet-behavior-lab/internal/observability"
	"wallet-behavior-lab/internal/reporting"
	"wallet-behavior-lab/internal/storage"
	"wallet-behavior-lab/internal/storage/migrations"
	pgstore "wallet-behavior-lab/internal/storage/postgres"
)

func main() {
	wallet := flag.String("wallet", "", "Wallet address to analyze (base58)")
	configPath := flag.String("config", "", "Path to YAML config (defaults used when empty)")
	inputPath := flag.String("input", "", "CSV file with swaps: mint,timestamp,direction,amount,sol_value[,usdc_value]")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (reads swaps from swap_analysis_inputs)")
	outputPath := flag.String("output", "", "Write the Markdown report to this file instead of stdout")
	csvPath := flag.String("csv", "", "Also write the most-traded-tokens table as CSV to this file")
	persist := flag.Bool("persist", false, "Persist the snapshot to PostgreSQL (requires --postgres-dsn)")
	predictMint := flag.String("predict", "", "Also print an exit prediction for this mint")
	verbose := flag.Bool("verbose", false, "Log analysis events to stderr")

	flag.Parse()

	if *wallet == "" {
		fmt.Fprintln(os.Stderr, "Error: --wallet is required")
		os.Exit(1)
	}
	if *inputPath == "" && *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: one of --input or --postgres-dsn is required")
		os.Exit(1)
	}
	if *persist && *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --persist requires --postgres-dsn")
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	var logger *log.Logger
	if *verbose {
		logger = log.New(os.Stderr, "[analyze] ", log.LstdFlags)
	}

	ctx := context.Background()

	// Connect to PostgreSQL when needed for reading or persistence.
	var (
		pool          *pgstore.Pool
		snapshotStore storage.SnapshotStore
	)
	if *postgresDSN != "" {
		var err error
		pool, err = pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool.Pool); err != nil {
			fmt.Fprintf(os.Stderr, "Error running migrations: %v\n", err)
			os.Exit(1)
		}
		snapshotStore = pgstore.NewSnapshotStore(pool)
	}

	records, err := loadSwaps(ctx, *wallet, *inputPath, pool)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading swaps: %v\n", err)
		os.Exit(1)
	}

	a := analyzer.New(cfg, logger)

	start := time.Now()
	res, err := a.Analyze(*wallet, records)
	if err != nil {
		observability.RecordAnalysis("error", time.Since(start).Seconds(), len(records))
		fmt.Fprintf(os.Stderr, "Error analyzing wallet: %v\n", err)
		os.Exit(1)
	}
	observability.RecordAnalysis("success", time.Since(start).Seconds(), len(records))
	observability.RecordExcessSellDrops(res.Metrics.ExcessSellDropCount)

	bot := a.DetectBot(res)
	if bot != nil && bot.Classification == domain.ClassificationBot {
		observability.RecordBotDetected()
	}

	report := reporting.BuildReport(res.Metrics, bot, time.Now().UTC())
	md := reporting.RenderMarkdown(report)

	if *outputPath != "" {
		if err := os.WriteFile(*outputPath, []byte(md), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Report written to %s\n", *outputPath)
	} else {
		fmt.Print(md)
	}

	if *csvPath != "" {
		csvOut := reporting.RenderCSV(report.TokenActivity)
		if err := os.WriteFile(*csvPath, []byte(csvOut), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Token table written to %s\n", *csvPath)
	}

	if *predictMint != "" {
		printPrediction(a, res, *predictMint)
	}

	if *persist {
		if err := persistSnapshot(ctx, snapshotStore, res.Metrics); err != nil {
			fmt.Fprintf(os.Stderr, "Error persisting snapshot: %v\n", err)
			os.Exit(1)
		}
	}
}

// loadSwaps reads the wallet's swaps from the CSV file or from PostgreSQL.
func loadSwaps(ctx context.Context, wallet, inputPath string, pool *pgstore.Pool) ([]domain.SwapRecord, error) {
	if inputPath != "" {
		return readSwapCSV(inputPath, wallet)
	}

	rows, err := pgstore.NewSwapStore(pool).GetByWallet(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("read swaps from postgres: %w", err)
	}

	records := make([]domain.SwapRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, *r)
	}
	return records, nil
}

// readSwapCSV parses a swap CSV. A header row is detected and skipped.
func readSwapCSV(path, wallet string) ([]domain.SwapRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var records []domain.SwapRecord
	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line++

		if line == 1 && row[0] == "mint" {
			continue
		}
		if len(row) < 5 {
			return nil, fmt.Errorf("line %d: expected at least 5 fields, got %d", line, len(row))
		}

		rec := domain.SwapRecord{WalletAddress: wallet, Mint: row[0], Direction: row[2]}
		if rec.Timestamp, err = strconv.ParseInt(row[1], 10, 64); err != nil {
			return nil, fmt.Errorf("line %d: timestamp: %w", line, err)
		}
		if rec.Amount, err = strconv.ParseFloat(row[3], 64); err != nil {
			return nil, fmt.Errorf("line %d: amount: %w", line, err)
		}
		if rec.SOLValue, err = strconv.ParseFloat(row[4], 64); err != nil {
			return nil, fmt.Errorf("line %d: sol_value: %w", line, err)
		}
		if len(row) > 5 && row[5] != "" {
			v, err := strconv.ParseFloat(row[5], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: usdc_value: %w", line, err)
			}
			rec.USDCValue = &v
		}

		records = append(records, rec)
	}

	return records, nil
}

func printPrediction(a *analyzer.Analyzer, res *analyzer.Result, mint string) {
	pred := a.PredictExit(res, mint)
	if pred == nil {
		fmt.Printf("\nNo exit prediction for %s (no active position or no historical pattern)\n", mint)
		return
	}
	fmt.Printf("\nExit prediction for %s:\n", mint)
	fmt.Printf("  Position age:    %.2f h\n", pred.PositionAgeHours)
	fmt.Printf("  Estimated exit:  %.2f h (at %d)\n", pred.EstimatedExitHours, pred.EstimatedExitTimestamp)
	fmt.Printf("  Risk level:      %s\n", pred.RiskLevel)
	fmt.Printf("  Confidence:      %.2f\n", pred.PredictionConfidence)
}

func persistSnapshot(ctx context.Context, store storage.SnapshotStore, m *domain.BehavioralMetrics) error {
	snap := domain.NewMetricsSnapshot(m)

	err := store.Insert(ctx, snap)
	if errors.Is(err, storage.ErrDuplicateKey) {
		observability.RecordSnapshotPersisted(true)
		fmt.Printf("Snapshot %s already persisted\n", snap.SnapshotID)
		return nil
	}
	if err != nil {
		return err
	}

	observability.RecordSnapshotPersisted(false)
	fmt.Printf("Snapshot %s persisted\n", snap.SnapshotID)
	return nil
}
