package formatter

import (
	"strings"

	"hisdash/internal/models"
)

// ExportCSV renders a flat table for spreadsheet import: the header line is written
// as-is, every data cell is double-quoted with embedded quotes doubled, and rows are
// separated by "\n". A table without rows renders as "".
func ExportCSV(table models.FlatTable) string {
	if len(table.Rows) == 0 {
		return ""
	}

	lines := make([]string, 0, len(table.Rows)+1)
	lines = append(lines, strings.Join(table.Columns, ","))

	for _, row := range table.Rows {
		quoted := make([]string, len(row))
		for i, cell := range row {
			quoted[i] = `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
		}

		lines = append(lines, strings.Join(quoted, ","))
	}

	return strings.Join(lines, "\n")
}
