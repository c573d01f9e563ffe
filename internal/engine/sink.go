package engine

import (
	"log/slog"

	"github.com/ssdetect/ssdetect/internal/model"
)

// Sink receives the result stream of a run. The engine calls Start once
// after enumeration, Record once per classified image, and Summary once
// when the run finishes. All calls happen from the collector goroutine,
// so implementations need no internal locking against the engine.
type Sink interface {
	// Start announces how many files were enumerated for the run.
	Start(total int)
	// Record delivers one classification result.
	Record(res model.ClassificationResult)
	// Summary delivers the final aggregate once all results are in.
	Summary(sum model.RunSummary)
}

// LogSink writes the result stream to a slog.Logger. It is the default
// sink for script and non-interactive runs.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink that reports through logger.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Start logs the enumeration total.
func (s *LogSink) Start(total int) {
	s.logger.Info("found images to process", "count", total)
}

// Record logs one result. Error verdicts are logged at error level so
// they stand out in scripted runs; everything else is a plain info line.
func (s *LogSink) Record(res model.ClassificationResult) {
	if res.Verdict == model.VerdictError {
		s.logger.Error("failed to process image",
			"path", res.Path,
			"error", res.Reason,
			"elapsed", res.Elapsed)
		return
	}

	attrs := []any{
		"path", res.Path,
		"verdict", res.Verdict.String(),
		"elapsed", res.Elapsed,
	}
	if res.Method != model.MethodNone {
		attrs = append(attrs, "method", res.Method.String())
	}
	if res.RowCount > 0 {
		attrs = append(attrs, "rows", res.RowCount)
	}
	if res.CharCount > 0 {
		attrs = append(attrs, "chars", res.CharCount)
	}
	if res.RelocatedTo != "" {
		attrs = append(attrs, "destination", res.RelocatedTo)
	}
	s.logger.Info("classified image", attrs...)
}

// Summary logs the final counts for the run.
func (s *LogSink) Summary(sum model.RunSummary) {
	attrs := []any{
		"total", sum.Total,
		"screenshots", sum.Screenshots,
		"regular", sum.Regular,
		"errors", sum.Errors,
		"elapsed", sum.Elapsed,
	}
	if sum.Relocation != "none" && sum.Relocation != "" {
		attrs = append(attrs, "relocated", sum.Relocated, "relocation_errors", sum.RelocationErrors)
	}
	if sum.Cancelled {
		attrs = append(attrs, "cancelled", true)
	}
	s.logger.Info("classification complete", attrs...)
}

// MultiSink fans the result stream out to several sinks in order.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines sinks into one. A nil entry is skipped.
func NewMultiSink(sinks ...Sink) *MultiSink {
	m := &MultiSink{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Start forwards the enumeration total to every sink.
func (m *MultiSink) Start(total int) {
	for _, s := range m.sinks {
		s.Start(total)
	}
}

// Record forwards one result to every sink.
func (m *MultiSink) Record(res model.ClassificationResult) {
	for _, s := range m.sinks {
		s.Record(res)
	}
}

// Summary forwards the final aggregate to every sink.
func (m *MultiSink) Summary(sum model.RunSummary) {
	for _, s := range m.sinks {
		s.Summary(sum)
	}
}
