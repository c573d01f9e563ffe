package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/ssdetect/ssdetect/internal/config"
	"github.com/ssdetect/ssdetect/internal/detect"
	"github.com/ssdetect/ssdetect/internal/model"
	"github.com/ssdetect/ssdetect/internal/relocate"
)

// Classifier is the per-image detector a worker drives. detect.Classifier
// satisfies it; tests substitute lightweight stubs.
type Classifier interface {
	Classify(ctx context.Context, path string) (model.ClassificationResult, error)
	Close() error
}

// ClassifierFactory builds one Classifier per worker. The factory runs
// inside the worker goroutine, so the expensive detector loads of a pool
// happen in parallel rather than serially before the run starts.
type ClassifierFactory func() (Classifier, error)

// Engine coordinates one classification run: it enumerates the image
// files under the configured directory, feeds them to a pool of
// persistent workers, and folds the results into run statistics.
type Engine struct {
	cfg       *config.Config
	logger    *slog.Logger
	sink      Sink
	factory   ClassifierFactory
	relocator *relocate.Relocator
}

// Option customizes Engine construction.
//
// Design decision: Functional options rather than a parameter struct.
// Every dependency has a production default derived from the config, so
// most call sites construct the engine with New(cfg) alone and tests
// override exactly the pieces they need.
type Option func(*Engine)

// WithLogger substitutes the logger used for operational records.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSink substitutes the sink receiving the result stream.
func WithSink(sink Sink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithClassifierFactory substitutes the per-worker classifier factory.
func WithClassifierFactory(factory ClassifierFactory) Option {
	return func(e *Engine) {
		e.factory = factory
	}
}

// New creates an engine for the given configuration. The configuration
// must already be validated.
func New(cfg *config.Config, opts ...Option) *Engine {
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.sink == nil {
		e.sink = NewLogSink(e.logger)
	}
	if e.factory == nil {
		e.factory = func() (Classifier, error) {
			return detect.NewClassifier(detect.Params{
				Mode:             cfg.Mode,
				OCRMinChars:      cfg.OCRMinChars,
				OCRMinConfidence: cfg.OCRMinConfidence,
				OCRResizeFactor:  cfg.OCRResizeFactor,
				ExtraHeuristics:  cfg.ExtraHeuristics,
				GPUEnabled:       cfg.GPUEnabled,
			}, e.logger)
		}
	}
	e.relocator = relocate.New(cfg.Relocation, cfg.TargetDir, e.logger)

	return e
}

// Run executes one classification run and returns its summary.
//
// The error is ErrNoWorkers when every worker failed initialization,
// ErrCancelled when ctx was cancelled before the run completed, or an
// enumeration failure. Per-image problems are never run errors: they
// arrive as error verdicts inside the summary, and a run where some
// images failed still returns nil.
func (e *Engine) Run(ctx context.Context) (model.RunSummary, error) {
	absRoot, err := filepath.Abs(e.cfg.RootDir)
	if err != nil {
		return model.RunSummary{}, fmt.Errorf("failed to resolve directory %s: %w", e.cfg.RootDir, err)
	}

	skipDir := ""
	if e.cfg.Relocation != model.RelocationNone {
		skipDir = e.cfg.TargetDir
	}

	files, err := FindImageFiles(absRoot, skipDir)
	if err != nil {
		return model.RunSummary{}, err
	}

	stats := model.NewRunStatistics()

	if len(files) == 0 {
		e.logger.Warn("no image files found", "directory", absRoot)
		return e.summarize(stats, absRoot, 0, 0, false), nil
	}

	e.logger.Info("starting classification",
		"directory", absRoot,
		"mode", e.cfg.Mode.String(),
		"workers", e.cfg.Workers)
	e.sink.Start(len(files))

	// Bounded queues so a fast enumerator cannot outrun slow OCR workers
	// by an unbounded margin. Twice the worker count keeps every worker
	// busy while capping the number of buffered tasks and results.
	queue := e.cfg.Workers * 2
	tasks := make(chan model.ImageTask, queue)
	results := make(chan model.ClassificationResult, queue)

	handles := make([]*workerHandle, e.cfg.Workers)
	initCh := make(chan error, e.cfg.Workers)

	// Design decision: The pool is an errgroup whose workers always
	// return nil. Classification failures are results, not worker errors,
	// so one unreadable image can never cancel the run. The group exists
	// only to join the goroutines before the result channel closes.
	var pool errgroup.Group
	for i := range handles {
		h := &workerHandle{id: i}
		handles[i] = h
		pool.Go(func() error {
			e.runWorker(ctx, h, tasks, results, initCh)
			return nil
		})
	}

	// Initialization barrier: wait for every worker to report before
	// dispatching any task. A partial pool degrades with a warning; an
	// empty pool aborts, since nothing would ever drain the queue.
	ready := 0
	for range handles {
		if werr := <-initCh; werr == nil {
			ready++
		}
	}
	if ready == 0 {
		_ = pool.Wait()
		return e.summarize(stats, absRoot, len(files), 0, false), ErrNoWorkers
	}
	if ready < e.cfg.Workers {
		e.logger.Warn("continuing with a reduced worker pool",
			"ready", ready,
			"failed", e.cfg.Workers-ready)
	}

	go func() {
		defer close(tasks)
		for i, path := range files {
			select {
			case tasks <- model.ImageTask{Path: path, Index: i, Mode: e.cfg.Mode}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = pool.Wait()
		close(results)
	}()

	e.collect(ctx, results, stats)

	for _, h := range handles {
		e.logger.Debug("worker finished", "worker", h.id, "state", h.State().String())
	}

	cancelled := ctx.Err() != nil
	sum := e.summarize(stats, absRoot, len(files), ready, cancelled)
	e.sink.Summary(sum)

	if cancelled {
		return sum, ErrCancelled
	}
	return sum, nil
}

// summarize snapshots the statistics and fills in the run metadata.
func (e *Engine) summarize(stats *model.RunStatistics, root string, enumerated, workers int, cancelled bool) model.RunSummary {
	sum := stats.Snapshot()
	sum.RootDir = root
	sum.Mode = e.cfg.Mode.String()
	sum.Relocation = e.cfg.Relocation.String()
	if e.cfg.Relocation != model.RelocationNone {
		sum.TargetDir = e.cfg.TargetDir
	}
	sum.Workers = workers
	sum.Enumerated = enumerated
	sum.Cancelled = cancelled
	return sum
}
