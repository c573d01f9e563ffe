package detect

import (
	"context"
	"image"

	"golang.org/x/text/unicode/norm"
)

// OCR decision thresholds. The base rule compares against the configured
// minimums; the extra heuristics use these fixed values.
const (
	// highConfidence marks a region as confidently recognized.
	highConfidence = 0.7

	// largeBlockChars is the character count above which a region counts
	// as a large text block.
	largeBlockChars = 20

	// captionMinRegions and captionMinBlocks are the minimum counts of
	// high-confidence regions and large blocks for the caption rule.
	captionMinRegions = 2
	captionMinBlocks  = 2

	// captionMinChars is the minimum total character count for the
	// caption rule.
	captionMinChars = 30

	// captionMinDensity is the minimum characters-per-region density for
	// the caption rule.
	captionMinDensity = 10

	// denseMinDensity, denseMinConfidence, and denseMinChars gate the
	// density rule: screenshots tend to have dense, readable text even
	// when the mean confidence dips below the base threshold.
	denseMinDensity    = 15
	denseMinConfidence = 0.45
	denseMinChars      = 50
)

// Region is one text region recognized by an OCR engine.
type Region struct {
	// Text is the recognized text of the region.
	Text string

	// Confidence is the engine's recognition confidence in [0, 1].
	Confidence float64

	// Top is the topmost pixel row of the region's bounding box, in the
	// coordinates of the image handed to the engine.
	Top int
}

// Engine recognizes text regions in an image. Implementations load their
// recognition model at construction time, which can take seconds, and are
// reused across every image a worker processes.
type Engine interface {
	// Recognize returns the text regions found in img.
	Recognize(ctx context.Context, img image.Image) ([]Region, error)

	// SupportsGPU reports whether the engine can use GPU acceleration.
	SupportsGPU() bool

	// Close releases the engine's model resources.
	Close() error
}

// Decision is the outcome of the OCR heuristic for one image, including
// the intermediate metrics for diagnostic output.
type Decision struct {
	// Screenshot is the final OCR verdict.
	Screenshot bool

	// Rule names the rule that fired: "base", "caption", or "density".
	// Empty when no rule matched.
	Rule string

	// Regions is the number of recognized text regions.
	Regions int

	// Chars is the total recognized character count, measured in runes
	// after NFC normalization.
	Chars int

	// AvgConfidence is the mean region confidence in [0, 1].
	AvgConfidence float64

	// HighConfRegions counts regions with confidence above 0.7.
	HighConfRegions int

	// LargeBlocks counts regions with more than 20 characters.
	LargeBlocks int

	// BottomRegions counts regions starting in the bottom third of the
	// image, where captions and subtitle bars sit.
	BottomRegions int

	// BottomHeavy is true when more than half the regions start in the
	// bottom third.
	BottomHeavy bool

	// Density is characters per region.
	Density float64
}

// OCR applies the text heuristic: recognize regions with an Engine, then
// score them against the decision rules.
type OCR struct {
	engine          Engine
	minChars        int
	minConfidence   float64
	resizeFactor    float64
	extraHeuristics bool
}

// NewOCR wraps engine with the decision rules. minChars and minConfidence
// parameterize the base rule; extraHeuristics enables the caption and
// density rules; resizeFactor in (0, 1) shrinks images before recognition.
func NewOCR(engine Engine, minChars int, minConfidence, resizeFactor float64, extraHeuristics bool) *OCR {
	return &OCR{
		engine:          engine,
		minChars:        minChars,
		minConfidence:   minConfidence,
		resizeFactor:    resizeFactor,
		extraHeuristics: extraHeuristics,
	}
}

// Close releases the underlying engine.
func (o *OCR) Close() error {
	if o.engine == nil {
		return nil
	}
	return o.engine.Close()
}

// Evaluate runs recognition on the image at path and scores the result.
// Engine failures come back as a DetectionError; an OCR built without an
// engine returns ErrEngineNotInitialized.
func (o *OCR) Evaluate(ctx context.Context, path string) (Decision, error) {
	if o.engine == nil {
		return Decision{}, ErrEngineNotInitialized
	}

	img, err := DecodeFile(path)
	if err != nil {
		return Decision{}, err
	}

	scaled := Downscale(img, o.resizeFactor)
	regions, err := o.engine.Recognize(ctx, scaled)
	if err != nil {
		return Decision{}, &DetectionError{Path: path, Err: err}
	}

	return o.Decide(regions, scaled.Bounds().Dy()), nil
}

// Decide scores recognized regions against the decision rules. height is
// the pixel height of the recognized image, used for caption placement.
// Decide is deterministic and touches no shared state.
func (o *OCR) Decide(regions []Region, height int) Decision {
	if len(regions) == 0 {
		return Decision{}
	}

	d := Decision{Regions: len(regions)}

	var confidenceSum float64
	bottomThird := float64(height) * 2 / 3
	for _, r := range regions {
		chars := charCount(r.Text)
		d.Chars += chars
		confidenceSum += r.Confidence

		if r.Confidence > highConfidence {
			d.HighConfRegions++
		}
		if chars > largeBlockChars {
			d.LargeBlocks++
		}
		if float64(r.Top) > bottomThird {
			d.BottomRegions++
		}
	}

	d.AvgConfidence = confidenceSum / float64(len(regions))
	d.BottomHeavy = float64(d.BottomRegions) > float64(len(regions))/2
	d.Density = float64(d.Chars) / float64(len(regions))

	// Base rule first; the extra heuristics only run when it misses.
	switch {
	case d.Chars >= o.minChars && d.AvgConfidence >= o.minConfidence:
		d.Screenshot = true
		d.Rule = "base"
	case o.extraHeuristics &&
		d.HighConfRegions >= captionMinRegions &&
		d.LargeBlocks >= captionMinBlocks &&
		d.BottomHeavy &&
		d.Chars >= captionMinChars &&
		d.Density > captionMinDensity:
		d.Screenshot = true
		d.Rule = "caption"
	case o.extraHeuristics &&
		d.Density > denseMinDensity &&
		d.AvgConfidence > denseMinConfidence &&
		d.Chars >= denseMinChars:
		d.Screenshot = true
		d.Rule = "density"
	}

	return d
}

// charCount counts the runes of text after NFC normalization, so composed
// and decomposed forms of the same character measure identically.
func charCount(text string) int {
	count := 0
	for range norm.NFC.String(text) {
		count++
	}
	return count
}
