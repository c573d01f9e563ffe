package engine

import "errors"

// Run-level errors returned by Engine.Run. Per-image failures are never
// errors at this level; they travel as error verdicts inside results.
var (
	// ErrNoWorkers is returned when every worker fails initialization and
	// the run aborts before processing anything.
	ErrNoWorkers = errors.New("no workers available: all worker initializations failed")

	// ErrCancelled is returned when the run was interrupted before
	// completing. The summary still reflects the work finished so far.
	ErrCancelled = errors.New("run cancelled")
)
