// Package migrations applies the embedded schemas at startup: the swap input
// and metrics snapshot tables on PostgreSQL, the swap archive on ClickHouse.
// Files apply in lexical order.
package migrations

import "embed"

// PostgresFS holds the swap_analysis_inputs and metrics_snapshots schemas.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS holds the swap_archive schema.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
