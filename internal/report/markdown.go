package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/ssdetect/ssdetect/internal/model"
)

// MarkdownWriter outputs summaries in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(sum *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, sum)
	w.writeResults(md, sum)
	w.writeRelocation(md, sum)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with the run parameters.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, sum *model.RunSummary) {
	md.H1("Screenshot Classification Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Directory", "`" + sum.RootDir + "`"},
			{"Scan Date", sum.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Detection Mode", sum.Mode},
			{"Workers", strconv.Itoa(sum.Workers)},
			{"Elapsed", sum.Elapsed.String()},
			{"Status", w.getStatusText(sum)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on the run outcome.
func (w *MarkdownWriter) getStatusText(sum *model.RunSummary) string {
	if sum.Cancelled {
		return "⚠️ Cancelled (partial results)"
	}
	if sum.Errors > 0 {
		return "❌ Complete with errors"
	}
	return "✅ Complete"
}

// writeResults writes the verdict summary section.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, sum *model.RunSummary) {
	md.H2("Results")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Verdict", "Count"},
		Rows: [][]string{
			{"📸 Screenshots", strconv.Itoa(sum.Screenshots)},
			{"🖼️ Regular", strconv.Itoa(sum.Regular)},
			{"❗ Errors", strconv.Itoa(sum.Errors)},
			{"**Total**", "**" + strconv.Itoa(sum.Total) + "**"},
		},
	})
	md.PlainText("")

	if sum.Screenshots > 0 {
		md.Table(markdown.TableSet{
			Header: []string{"Contributing Method", "Screenshots"},
			Rows: [][]string{
				{"Horizontal lines", strconv.Itoa(sum.ByHorizontal)},
				{"OCR text", strconv.Itoa(sum.ByOCR)},
			},
		})
		md.PlainText("")
	}

	if sum.Total > 0 {
		w.writePieChart(md, sum)
	}

	w.writeAlert(md, sum)
}

// writePieChart writes a mermaid pie chart for the verdict distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, sum *model.RunSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Verdict Distribution"),
		piechart.WithShowData(true),
	)

	if sum.Screenshots > 0 {
		chart.LabelAndIntValue("Screenshots", uint64(sum.Screenshots))
	}
	if sum.Regular > 0 {
		chart.LabelAndIntValue("Regular", uint64(sum.Regular))
	}
	if sum.Errors > 0 {
		chart.LabelAndIntValue("Errors", uint64(sum.Errors))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the run outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, sum *model.RunSummary) {
	switch {
	case sum.Cancelled:
		md.Warningf(
			"The run was cancelled after %d of %d files. Counts cover processed files only.",
			sum.Total, sum.Enumerated,
		)
	case sum.Errors > 0:
		md.Importantf(
			"%d file(s) could not be classified. Their verdicts are counted as errors.",
			sum.Errors,
		)
	case sum.Screenshots > 0:
		md.Notef("%d screenshot(s) detected out of %d files.", sum.Screenshots, sum.Total)
	default:
		md.Tip("No screenshots detected.")
	}
	md.PlainText("")
}

// writeRelocation writes the relocation section when relocation ran.
func (w *MarkdownWriter) writeRelocation(md *markdown.Markdown, sum *model.RunSummary) {
	if sum.Relocation == "" || sum.Relocation == "none" {
		return
	}

	md.H2("Relocation")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Mode", sum.Relocation},
			{"Target", "`" + sum.TargetDir + "`"},
			{"Relocated", strconv.Itoa(sum.Relocated)},
			{"Failed", strconv.Itoa(sum.RelocationErrors)},
		},
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [ssdetect](https://github.com/ssdetect/ssdetect)*")
}
