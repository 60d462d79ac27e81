// Package report renders the expense log as a fixed-width console table.
// Pure presentation; it never touches storage.
package report

import (
	"fmt"
	"io"
	"strings"

	"spendlog/internal/core"
)

const (
	idWidth     = 5
	amountWidth = 10
	dateWidth   = 12
	catWidth    = 15
	descWidth   = 40
)

// EmptyMessage is printed when there is nothing to report.
const EmptyMessage = "--- The expense log is empty! Time to start spending... or saving? ---"

// Render writes rows as a table, one line per expense, newest first as
// provided by the store. Long descriptions are truncated to fit.
func Render(w io.Writer, rows []core.ExpenseRow) {
	if len(rows) == 0 {
		fmt.Fprintf(w, "\n%s\n", EmptyMessage)
		return
	}

	header := fmt.Sprintf("%-*s | %-*s | %-*s | %-*s | %-*s",
		idWidth, "ID",
		amountWidth, "Cost",
		dateWidth, "Date",
		catWidth, "Type",
		descWidth, "Details")
	separator := strings.Repeat("=", len(header))

	fmt.Fprintln(w)
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, separator)

	for _, row := range rows {
		fmt.Fprintf(w, "%-*d | $%-*s | %-*s | %-*s | %-*s\n",
			idWidth, row.ID,
			amountWidth-1, row.Amount.StringFixed(2),
			dateWidth, row.Date.ISO(),
			catWidth, row.Category,
			descWidth, truncate(row.Description, descWidth))
	}

	fmt.Fprintln(w, separator)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
