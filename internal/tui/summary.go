package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ssdetect/ssdetect/internal/model"
)

// SummaryRow is one label/value pair of the final summary block.
type SummaryRow struct {
	Label string
	Value string
}

// SummaryRows builds the summary block rows for a finished run.
// Relocation rows appear only when relocation was active, and a
// cancelled run is labelled as partial.
func SummaryRows(sum model.RunSummary) []SummaryRow {
	screenshots := fmt.Sprintf("%d", sum.Screenshots)
	if sum.Screenshots > 0 {
		screenshots = fmt.Sprintf("%d (horizontal %d, ocr %d)", sum.Screenshots, sum.ByHorizontal, sum.ByOCR)
	}

	rows := []SummaryRow{
		{Label: "Files processed", Value: fmt.Sprintf("%d of %d", sum.Total, sum.Enumerated)},
		{Label: "Screenshots", Value: screenshots},
		{Label: "Regular images", Value: fmt.Sprintf("%d", sum.Regular)},
		{Label: "Errors", Value: fmt.Sprintf("%d", sum.Errors)},
	}

	if sum.Relocation != "" && sum.Relocation != "none" {
		rows = append(rows,
			SummaryRow{Label: "Relocated", Value: fmt.Sprintf("%d (%s)", sum.Relocated, sum.Relocation)},
		)
		if sum.RelocationErrors > 0 {
			rows = append(rows, SummaryRow{Label: "Relocation errors", Value: fmt.Sprintf("%d", sum.RelocationErrors)})
		}
	}

	rows = append(rows, SummaryRow{Label: "Elapsed", Value: sum.Elapsed.Round(10 * time.Millisecond).String()})
	if sum.Cancelled {
		rows = append(rows, SummaryRow{Label: "Status", Value: "cancelled (partial results)"})
	}
	return rows
}

// RenderSummary renders rows as an aligned, ruled block.
func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		lines = append(lines, fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value)))
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

var valueStyle = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
