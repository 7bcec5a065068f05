package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

var columns = []string{"plan", "funcs", "blocks", "dead", "emitted", "suppressed", "terms", "unreach", "comments"}

func (s PlanStats) cells() []string {
	return []string{
		s.Name,
		strconv.Itoa(s.Funcs),
		strconv.Itoa(s.Blocks),
		strconv.Itoa(s.Dead),
		strconv.Itoa(s.Emitted),
		strconv.Itoa(s.Suppressed),
		strconv.Itoa(s.Terminators),
		strconv.Itoa(s.Unreachables),
		strconv.Itoa(s.Comments),
	}
}

// WriteTable prints the report as an aligned table with a totals row.
// Plan names are measured in display cells, so wide runes stay aligned.
func WriteTable(w io.Writer, r *Report) error {
	rows := make([][]string, 0, len(r.Plans)+2)
	rows = append(rows, columns)
	for _, p := range r.Plans {
		rows = append(rows, p.cells())
	}
	rows = append(rows, r.Totals().cells())

	widths := make([]int, len(columns))
	for _, row := range rows {
		for i, c := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}

	var sb strings.Builder
	for n, row := range rows {
		if n == len(rows)-1 {
			total := 0
			for _, wd := range widths {
				total += wd + 2
			}
			sb.WriteString(strings.Repeat("-", total-2) + "\n")
		}
		for i, c := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			if i == 0 {
				sb.WriteString(runewidth.FillRight(c, widths[i]))
			} else {
				sb.WriteString(runewidth.FillLeft(c, widths[i]))
			}
		}
		sb.WriteString("\n")
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write report table: %w", err)
	}
	return nil
}
