package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"hisdash/pkg/utils"
)

// maxCellWidth caps a cell's display width; longer text is truncated.
const maxCellWidth = 40

// renderTable lays out a pipe table whose columns line up by display width, so
// Vietnamese text with combining marks aligns the same as ASCII. Columns flagged
// in right are right-aligned.
func renderTable(header []string, rows [][]string, right []bool) []string {
	colCount := len(header)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, header)

	for _, row := range rows {
		trimmed := make([]string, len(row))
		for i, c := range row {
			trimmed[i] = utils.TruncateWidth(c, maxCellWidth)
		}

		cells = append(cells, trimmed)
	}

	widths := make([]int, colCount)

	for _, row := range cells {
		for i := 0; i < len(row) && i < colCount; i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	lines := make([]string, 0, len(cells)+1)

	for r, row := range cells {
		lines = append(lines, renderRow(row, widths, right))

		if r == 0 {
			sep := make([]string, colCount)
			for i, w := range widths {
				sep[i] = strings.Repeat("-", w)
			}

			lines = append(lines, renderRow(sep, widths, nil))
		}
	}

	return lines
}

func renderRow(row []string, widths []int, right []bool) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, w := range widths {
		content := ""
		if j < len(row) {
			content = row[j]
		}

		pad := strings.Repeat(" ", max(w-runewidth.StringWidth(content), 0))

		sb.WriteString(" ")

		if j < len(right) && right[j] {
			sb.WriteString(pad + content)
		} else {
			sb.WriteString(content + pad)
		}

		sb.WriteString(" |")
	}

	return sb.String()
}
