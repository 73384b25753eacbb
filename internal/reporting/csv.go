package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the most-traded-tokens table as CSV string.
func RenderCSV(rows []TokenActivityRow) string {
	var sb strings.Builder

	sb.WriteString("mint,trade_count,total_value_sol\n")

	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%s,%d,%.6f\n",
			row.Mint,
			row.TradeCount,
			row.TotalValueSOL,
		))
	}

	return sb.String()
}
