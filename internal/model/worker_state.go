package model

// WorkerState tracks the lifecycle of one pool worker.
type WorkerState int32

const (
	// WorkerStarting means the worker is loading its detector resources.
	WorkerStarting WorkerState = iota

	// WorkerReady means initialization succeeded and the worker is
	// consuming tasks.
	WorkerReady

	// WorkerFailed means initialization failed and the worker exited
	// without consuming any tasks.
	WorkerFailed

	// WorkerDone means the worker drained the queue and exited cleanly.
	WorkerDone
)

// String returns the human-readable form of the worker state.
func (s WorkerState) String() string {
	switch s {
	case WorkerStarting:
		return "starting"
	case WorkerReady:
		return "ready"
	case WorkerFailed:
		return "failed"
	case WorkerDone:
		return "done"
	default:
		return "unknown"
	}
}
