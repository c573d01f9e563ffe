package engine

import (
	"context"

	"github.com/ssdetect/ssdetect/internal/model"
)

// collect drains the result channel until it closes, recording each
// result into the statistics and forwarding it to the sink.
//
// Cancellation flips the collector into drain mode: results the workers
// already produced are still recorded, so the summary reflects work
// actually done, but no new relocations are dispatched. The loop only
// ends when the channel closes, which happens after the last worker
// exits, so no result is ever lost.
func (e *Engine) collect(ctx context.Context, results <-chan model.ClassificationResult, stats *model.RunStatistics) {
	relocating := e.cfg.Relocation != model.RelocationNone
	draining := false

	for {
		var (
			res model.ClassificationResult
			ok  bool
		)
		if draining {
			res, ok = <-results
		} else {
			select {
			case res, ok = <-results:
			case <-ctx.Done():
				draining = true
				continue
			}
		}
		if !ok {
			return
		}

		if relocating && !draining && res.IsScreenshot() {
			e.applyRelocation(&res, stats)
		}
		stats.Record(res)
		e.sink.Record(res)
	}
}

// applyRelocation moves or copies one screenshot and stamps the result
// with its destination. A failure counts as a relocation error and leaves
// the verdict untouched, so the file is still reported as a screenshot
// that merely stayed in place.
func (e *Engine) applyRelocation(res *model.ClassificationResult, stats *model.RunStatistics) {
	plan, err := e.relocator.Relocate(res.Path)
	if err != nil {
		stats.RecordRelocationError()
		e.logger.Error("failed to relocate screenshot", "source", res.Path, "error", err)
		return
	}
	if plan != nil {
		res.RelocatedTo = plan.Destination
	}
}
