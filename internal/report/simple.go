package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ssdetect/ssdetect/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. The interactive UI already covers the colorful path
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(sum *model.RunSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, sum)
	w.writeCounts(&sb, sum)
	w.writeRelocation(&sb, sum)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run parameters.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, sum *model.RunSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                  SCREENSHOT CLASSIFICATION REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Directory:  %s\n", sum.RootDir))
	sb.WriteString(fmt.Sprintf("Scan Date:  %s\n", sum.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Mode:       %s\n", sum.Mode))
	sb.WriteString(fmt.Sprintf("Workers:    %d\n", sum.Workers))
	sb.WriteString(fmt.Sprintf("Elapsed:    %s\n", sum.Elapsed.Round(10*time.Millisecond)))
	sb.WriteString(fmt.Sprintf("Status:     %s\n", statusText(sum)))
	sb.WriteString("\n")
}

// writeCounts writes the verdict count section.
func (w *SimpleWriter) writeCounts(sb *strings.Builder, sum *model.RunSummary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RESULTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  SCREENSHOTS: %d", sum.Screenshots))
	if sum.Screenshots > 0 {
		sb.WriteString(fmt.Sprintf(" (horizontal: %d, ocr: %d)", sum.ByHorizontal, sum.ByOCR))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  REGULAR:     %d\n", sum.Regular))
	sb.WriteString(fmt.Sprintf("  ERRORS:      %d\n", sum.Errors))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  TOTAL:       %d of %d enumerated\n", sum.Total, sum.Enumerated))
	if sum.Total > 0 {
		sb.WriteString(fmt.Sprintf("  SCREENSHOT RATE: %.1f%%\n", sum.ScreenshotRate()*100))
	}
	sb.WriteString("\n")
}

// writeRelocation writes the relocation section when relocation ran.
func (w *SimpleWriter) writeRelocation(sb *strings.Builder, sum *model.RunSummary) {
	if sum.Relocation == "" || sum.Relocation == "none" {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RELOCATION\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Mode:    %s\n", sum.Relocation))
	sb.WriteString(fmt.Sprintf("  Target:  %s\n", sum.TargetDir))
	sb.WriteString(fmt.Sprintf("  Done:    %d\n", sum.Relocated))
	sb.WriteString(fmt.Sprintf("  Failed:  %d\n", sum.RelocationErrors))
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by ssdetect\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// statusText describes the overall outcome of the run.
func statusText(sum *model.RunSummary) string {
	switch {
	case sum.Cancelled:
		return "CANCELLED (partial results)"
	case sum.Errors > 0:
		return fmt.Sprintf("COMPLETE (%d errors)", sum.Errors)
	default:
		return "Complete"
	}
}
