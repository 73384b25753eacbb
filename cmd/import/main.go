// Package main provides the bulk swap importer. It loads swap rows from a
// CSV file into PostgreSQL (the analyzer's source of truth) and optionally
// archives them to ClickHouse.
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

	"wallet-behavior-lab/internal/domain"
	"wallet-behavior-lab/internal/observability"
	chstore "wallet-behavior-lab/internal/storage/clickhouse"
	"wallet-behavior-lab/internal/storage/migrations"
	pgstore "wallet-behavior-lab/internal/storage/postgres"
)

func main() {
	inputPath := flag.String("input", "", "CSV file with swaps: wallet_address,mint,timestamp,direction,amount,sol_value[,usdc_value]")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string for the swap archive (optional)")
	batchSize := flag.Int("batch-size", 1000, "Rows per insert batch")

	flag.Parse()

	logger := log.New(os.Stdout, "[import] ", log.LstdFlags)

	if *inputPath == "" || *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --input and --postgres-dsn are required")
		os.Exit(1)
	}
	if *batchSize < 1 {
		fmt.Fprintln(os.Stderr, "Error: --batch-size must be >= 1")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		logger.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool.Pool); err != nil {
		logger.Fatalf("Failed to run postgres migrations: %v", err)
	}
	swapStore := pgstore.NewSwapStore(pool)

	var archiveStore *chstore.SwapArchiveStore
	if *clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("Failed to run clickhouse migrations: %v", err)
		}
		defer conn.Close()
		archiveStore = chstore.NewSwapArchiveStore(conn)
	}

	start := time.Now()
	total, err := importFile(ctx, *inputPath, *batchSize, swapStore, archiveStore)
	if err != nil {
		observability.RecordImportError("import")
		logger.Fatalf("Import failed after %d rows: %v", total, err)
	}

	observability.DefaultMetrics.LastSuccessfulImport.SetToCurrentTime()
	logger.Printf("Imported %d swaps in %v", total, time.Since(start))
}

// importFile streams the CSV in batches so arbitrarily large files import in
// constant memory.
func importFile(ctx context.Context, path string, batchSize int, swaps *pgstore.SwapStore, archive *chstore.SwapArchiveStore) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var (
		batch []*domain.SwapRecord
		total int
		line  int
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := swaps.InsertBulk(ctx, batch); err != nil {
			return fmt.Errorf("insert batch into postgres: %w", err)
		}
		if archive != nil {
			if err := archive.InsertBulk(ctx, batch); err != nil {
				return fmt.Errorf("archive batch to clickhouse: %w", err)
			}
		}
		observability.RecordImportBatch(len(batch), archive != nil)
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return total, fmt.Errorf("read csv: %w", err)
		}
		line++

		if line == 1 && row[0] == "wallet_address" {
			continue
		}

		rec, err := parseRow(row)
		if err != nil {
			return total, fmt.Errorf("line %d: %w", line, err)
		}

		batch = append(batch, rec)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}

	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}

func parseRow(row []string) (*domain.SwapRecord, error) {
	if len(row) < 6 {
		return nil, fmt.Errorf("expected at least 6 fields, got %d", len(row))
	}

	rec := &domain.SwapRecord{
		WalletAddress: row[0],
		Mint:          row[1],
		Direction:     row[3],
	}
	if rec.Direction != domain.DirectionIn && rec.Direction != domain.DirectionOut {
		return nil, fmt.Errorf("direction must be %q or %q, got %q", domain.DirectionIn, domain.DirectionOut, rec.Direction)
	}

	var err error
	if rec.Timestamp, err = strconv.ParseInt(row[2], 10, 64); err != nil {
		return nil, fmt.Errorf("timestamp: %w", err)
	}
	if rec.Amount, err = strconv.ParseFloat(row[4], 64); err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}
	if rec.SOLValue, err = strconv.ParseFloat(row[5], 64); err != nil {
		return nil, fmt.Errorf("sol_value: %w", err)
	}
	if len(row) > 6 && row[6] != "" {
		v, err := strconv.ParseFloat(row[6], 64)
		if err != nil {
			return nil, fmt.Errorf("usdc_value: %w", err)
		}
		rec.USDCValue = &v
	}

	return rec, nil
}
