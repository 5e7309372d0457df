package qa

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

func FormatTable(result QueryResult, maxRows int) string {
	if len(result.Rows) == 0 {
		return "No results found."
	}

	rows := result.Rows
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	// Widths count runes, not bytes: company and country names are not
	// ASCII-only.
	widths := make([]int, len(result.Columns))
	for i, column := range result.Columns {
		widths[i] = utf8.RuneCountInString(column)
	}

	rendered := make([][]string, len(rows))
	for r, row := range rows {
		cells := make([]string, len(result.Columns))
		for i := range result.Columns {
			var text string
			if i < len(row) {
				text = renderCell(row[i])
			}
			cells[i] = text
			if width := utf8.RuneCountInString(text); width > widths[i] {
				widths[i] = width
			}
		}
		rendered[r] = cells
	}

	var b strings.Builder
	header := joinPadded(result.Columns, widths)
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", utf8.RuneCountInString(header)))
	for _, cells := range rendered {
		b.WriteString("\n")
		b.WriteString(joinPadded(cells, widths))
	}
	return b.String()
}

func joinPadded(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = pad(cell, widths[i])
	}
	return strings.Join(padded, " | ")
}

func pad(text string, width int) string {
	count := utf8.RuneCountInString(text)
	if count >= width {
		return text
	}
	return text + strings.Repeat(" ", width-count)
}

func renderCell(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%v", value)
}
