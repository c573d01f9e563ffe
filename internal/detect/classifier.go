package detect

import (
	"context"
	"log/slog"
	"time"

	"github.com/ssdetect/ssdetect/internal/model"
)

// Params configures a Classifier. The values come from the resolved run
// configuration and never change during a run.
type Params struct {
	// Mode selects which detection methods are active.
	Mode model.DetectionMode

	// OCRMinChars and OCRMinConfidence parameterize the base OCR rule.
	OCRMinChars      int
	OCRMinConfidence float64

	// OCRResizeFactor shrinks images before recognition; 1.0 disables it.
	OCRResizeFactor float64

	// ExtraHeuristics enables the caption and density OCR rules.
	ExtraHeuristics bool

	// GPUEnabled requests GPU acceleration from the OCR engine.
	GPUEnabled bool
}

// Classifier applies the active detection methods to single images.
// Each worker creates one Classifier and reuses it for every image it
// processes, so the expensive OCR engine load happens once per worker.
// Classify reads shared configuration but never writes any shared state.
type Classifier struct {
	params Params
	logger *slog.Logger

	// engine is set before ocr is built, either by WithEngine or by
	// constructing the default Tesseract engine.
	engine Engine
	ocr    *OCR
}

// Option customizes Classifier construction.
type Option func(*Classifier)

// WithEngine substitutes the OCR engine. Classifiers that need OCR build
// a TesseractEngine by default; tests inject stubs through this option.
func WithEngine(engine Engine) Option {
	return func(c *Classifier) {
		c.engine = engine
	}
}

// NewClassifier loads the detector resources for the active modes.
// When the mode includes OCR this loads the recognition model, which
// takes seconds; a failure is a ModelLoadError and the caller should not
// retry, since a broken model installation will not heal between calls.
func NewClassifier(params Params, logger *slog.Logger, opts ...Option) (*Classifier, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Classifier{params: params, logger: logger}
	for _, opt := range opts {
		opt(c)
	}

	if params.Mode.UsesOCR() {
		if c.engine == nil {
			engine, err := NewTesseractEngine()
			if err != nil {
				return nil, err
			}
			c.engine = engine
		}
		if params.GPUEnabled && !c.engine.SupportsGPU() {
			c.logger.Warn("gpu acceleration requested but the ocr engine is cpu-only, using cpu")
		}
		c.ocr = NewOCR(c.engine, params.OCRMinChars, params.OCRMinConfidence,
			params.OCRResizeFactor, params.ExtraHeuristics)
	}

	return c, nil
}

// Classify runs the active detection methods on the image at path.
//
// Combined mode short-circuits: horizontal detection runs first and a
// positive hit skips OCR entirely. A decode failure fails the image for
// all modes without attempting OCR, since an image the cheap method
// cannot read will not fare better in the expensive one.
func (c *Classifier) Classify(ctx context.Context, path string) (model.ClassificationResult, error) {
	start := time.Now()

	res := model.ClassificationResult{
		Path:    path,
		Verdict: model.VerdictRegular,
		Method:  model.MethodNone,
	}

	if c.params.Mode.UsesHorizontal() {
		img, err := DecodeFile(path)
		if err != nil {
			return model.ClassificationResult{}, err
		}

		rows := DetectRows(Grayscale(img))
		res.RowCount = len(rows)
		if len(rows) > 0 {
			res.Verdict = model.VerdictScreenshot
			res.Method = model.MethodHorizontal
			res.Elapsed = time.Since(start)
			return res, nil
		}
		if c.params.Mode == model.ModeHorizontal {
			res.Elapsed = time.Since(start)
			return res, nil
		}
	}

	if c.ocr != nil {
		decision, err := c.ocr.Evaluate(ctx, path)
		if err != nil {
			return model.ClassificationResult{}, err
		}

		res.CharCount = decision.Chars
		res.Confidence = decision.AvgConfidence
		if decision.Screenshot {
			res.Verdict = model.VerdictScreenshot
			res.Method = model.MethodOCR
		}
	}

	res.Elapsed = time.Since(start)
	return res, nil
}

// Close releases the detector resources held by the classifier.
func (c *Classifier) Close() error {
	if c.ocr != nil {
		return c.ocr.Close()
	}
	return nil
}
