package model

import (
	"sync"
	"time"
)

// RunStatistics accumulates aggregate counters for a run.
//
// Design decision: A mutex-guarded struct rather than individual atomic
// counters. The collector records each result with a single lock acquisition,
// which keeps the three verdict counters and the relocation counters
// mutually consistent: a Snapshot taken at any moment sums to the number of
// results recorded so far.
type RunStatistics struct {
	mu sync.Mutex

	total       int
	screenshots int
	regular     int
	errors      int

	byHorizontal int
	byOCR        int

	relocated        int
	relocationErrors int

	detectTime time.Duration
	started    time.Time
}

// NewRunStatistics returns statistics with the run start time set to now.
func NewRunStatistics() *RunStatistics {
	return &RunStatistics{started: time.Now()}
}

// Record folds one classification result into the counters.
func (s *RunStatistics) Record(res ClassificationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	switch res.Verdict {
	case VerdictScreenshot:
		s.screenshots++
	case VerdictError:
		s.errors++
	default:
		s.regular++
	}

	switch res.Method {
	case MethodHorizontal:
		s.byHorizontal++
	case MethodOCR:
		s.byOCR++
	}

	if res.RelocatedTo != "" {
		s.relocated++
	}
	s.detectTime += res.Elapsed
}

// RecordRelocationError counts a screenshot whose relocation failed.
// The verdict counters are untouched; relocation failures are tracked
// separately so the verdict counts still sum to the processed total.
func (s *RunStatistics) RecordRelocationError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relocationErrors++
}

// Processed returns the number of results recorded so far.
func (s *RunStatistics) Processed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Snapshot returns a point-in-time copy of the counters as a RunSummary.
// The summary's Elapsed is measured from the statistics' creation.
func (s *RunStatistics) Snapshot() RunSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return RunSummary{
		Total:            s.total,
		Screenshots:      s.screenshots,
		Regular:          s.regular,
		Errors:           s.errors,
		ByHorizontal:     s.byHorizontal,
		ByOCR:            s.byOCR,
		Relocated:        s.relocated,
		RelocationErrors: s.relocationErrors,
		DetectTime:       s.detectTime,
		StartedAt:        s.started,
		Elapsed:          time.Since(s.started),
	}
}
