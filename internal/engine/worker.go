package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ssdetect/ssdetect/internal/model"
)

// workerHandle tracks one worker's lifecycle. The worker goroutine writes
// the state; the coordinator reads it, so access goes through an atomic.
type workerHandle struct {
	id    int
	state atomic.Int32
}

// setState records a lifecycle transition.
func (h *workerHandle) setState(s model.WorkerState) {
	h.state.Store(int32(s))
}

// State returns the last recorded lifecycle state.
func (h *workerHandle) State() model.WorkerState {
	return model.WorkerState(h.state.Load())
}

// runWorker is the body of one pool worker. It builds its own classifier
// so expensive detector loads run in parallel across the pool, reports
// the outcome on initCh, then processes tasks until the queue closes or
// the run is cancelled.
//
// A classification failure becomes an error result, never a worker
// failure. A worker that cannot initialize reports the error and exits;
// the survivors absorb its share of the queue.
func (e *Engine) runWorker(ctx context.Context, h *workerHandle, tasks <-chan model.ImageTask, results chan<- model.ClassificationResult, initCh chan<- error) {
	h.setState(model.WorkerStarting)

	classifier, err := e.factory()
	if err != nil {
		h.setState(model.WorkerFailed)
		e.logger.Error("worker initialization failed", "worker", h.id, "error", err)
		initCh <- err
		return
	}
	h.setState(model.WorkerReady)
	initCh <- nil

	defer func() {
		if cerr := classifier.Close(); cerr != nil {
			e.logger.Warn("failed to release detector resources", "worker", h.id, "error", cerr)
		}
		h.setState(model.WorkerDone)
	}()

	for task := range tasks {
		// Cancellation check before starting new work. Tasks already in
		// flight finish and report; queued tasks are abandoned.
		if ctx.Err() != nil {
			return
		}

		start := time.Now()
		res, err := classifier.Classify(ctx, task.Path)
		if err != nil {
			res = model.ErrorResult(task.Path, time.Since(start), err)
		}
		results <- res
	}
}
