package inspect

import (
	"context"
	"log/slog"
	"os"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/ssdetect/ssdetect/internal/detect"
	"github.com/ssdetect/ssdetect/internal/model"
)

// Report is the full diagnostic breakdown for one image.
type Report struct {
	// Path is the inspected image file.
	Path string `json:"path"`

	// Width and Height are the decoded pixel dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Verdict and Method are what a classification run would report for
	// this image.
	Verdict model.Verdict `json:"verdict"`
	Method  model.Method  `json:"method"`

	// Horizontal holds the edge heuristic breakdown. Nil when the mode
	// excludes horizontal detection.
	Horizontal *HorizontalReport `json:"horizontal,omitempty"`

	// OCR holds the text heuristic breakdown. Nil when the mode excludes
	// OCR or the engine was unavailable.
	OCR *OCRReport `json:"ocr,omitempty"`

	// OCRError explains a missing OCR section.
	OCRError string `json:"ocr_error,omitempty"`

	// EXIF lists the image's interesting metadata tags.
	EXIF []EXIFTag `json:"exif,omitempty"`

	// CameraEXIF is true when the image carries camera make or model tags.
	CameraEXIF bool `json:"camera_exif"`
}

// HorizontalReport is the edge heuristic breakdown.
type HorizontalReport struct {
	// Rows lists the qualifying row indexes.
	Rows []int `json:"rows,omitempty"`

	// Screenshot is the heuristic's verdict.
	Screenshot bool `json:"screenshot"`
}

// OCRReport is the text heuristic breakdown.
type OCRReport struct {
	// Screenshot is the heuristic's verdict.
	Screenshot bool `json:"screenshot"`

	// Rule names the decision rule that fired, empty when none matched.
	Rule string `json:"rule,omitempty"`

	// Regions is the number of recognized text regions.
	Regions int `json:"regions"`

	// Chars is the total recognized character count.
	Chars int `json:"chars"`

	// AvgConfidence is the mean region confidence in [0, 1].
	AvgConfidence float64 `json:"avg_confidence"`

	// HighConfRegions, LargeBlocks, BottomRegions, BottomHeavy, and
	// Density are the signals behind the caption and density rules.
	HighConfRegions int     `json:"high_confidence_regions"`
	LargeBlocks     int     `json:"large_blocks"`
	BottomRegions   int     `json:"bottom_regions"`
	BottomHeavy     bool    `json:"bottom_heavy"`
	Density         float64 `json:"density"`
}

// EXIFTag is one extracted metadata tag.
type EXIFTag struct {
	// Name is the EXIF tag name.
	Name string `json:"name"`

	// Value is the tag's formatted value.
	Value string `json:"value"`
}

// exifTagNames is the set of EXIF tags shown in inspection reports.
// Camera identification and timestamps are the tags that separate
// photographs from screen captures.
var exifTagNames = map[string]bool{
	"Make":              true,
	"Model":             true,
	"LensModel":         true,
	"Software":          true,
	"DateTime":          true,
	"DateTimeOriginal":  true,
	"DateTimeDigitized": true,
}

// Inspector builds diagnostic reports for single images.
type Inspector struct {
	params detect.Params
	logger *slog.Logger
	engine detect.Engine
}

// Option customizes Inspector construction.
type Option func(*Inspector)

// WithEngine substitutes the OCR engine. Tests inject stubs through this
// option; the inspector builds a Tesseract engine by default.
func WithEngine(engine detect.Engine) Option {
	return func(i *Inspector) {
		i.engine = engine
	}
}

// New creates an inspector for the given detection parameters.
func New(params detect.Params, logger *slog.Logger, opts ...Option) *Inspector {
	if logger == nil {
		logger = slog.Default()
	}

	i := &Inspector{params: params, logger: logger}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Inspect runs every active detection method on the image at path and
// returns the full breakdown. Unlike a classification run there is no
// short-circuit: combined mode runs OCR even after a horizontal hit,
// since the point is to show all signals.
func (i *Inspector) Inspect(ctx context.Context, path string) (*Report, error) {
	img, err := detect.DecodeFile(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	rep := &Report{
		Path:    path,
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Verdict: model.VerdictRegular,
		Method:  model.MethodNone,
	}

	if i.params.Mode.UsesHorizontal() {
		rows := detect.DetectRows(detect.Grayscale(img))
		rep.Horizontal = &HorizontalReport{
			Rows:       rows,
			Screenshot: len(rows) > 0,
		}
		if len(rows) > 0 {
			rep.Verdict = model.VerdictScreenshot
			rep.Method = model.MethodHorizontal
		}
	}

	if i.params.Mode.UsesOCR() {
		i.runOCR(ctx, path, rep)
	}

	rep.EXIF = i.readEXIF(path)
	for _, tag := range rep.EXIF {
		if tag.Name == "Make" || tag.Name == "Model" {
			rep.CameraEXIF = true
			break
		}
	}

	return rep, nil
}

// runOCR fills the report's OCR section. An unavailable engine degrades
// to an explanation in the report instead of failing the inspection, so
// the horizontal and EXIF sections still come through.
func (i *Inspector) runOCR(ctx context.Context, path string, rep *Report) {
	engine := i.engine
	if engine == nil {
		built, err := detect.NewTesseractEngine()
		if err != nil {
			rep.OCRError = err.Error()
			i.logger.Warn("ocr engine unavailable, skipping text metrics", "error", err)
			return
		}
		defer func() {
			if cerr := built.Close(); cerr != nil {
				i.logger.Warn("failed to release ocr engine", "error", cerr)
			}
		}()
		engine = built
	}

	if i.params.GPUEnabled && !engine.SupportsGPU() {
		i.logger.Warn("gpu acceleration requested but the ocr engine is cpu-only, using cpu")
	}

	ocr := detect.NewOCR(engine, i.params.OCRMinChars, i.params.OCRMinConfidence,
		i.params.OCRResizeFactor, i.params.ExtraHeuristics)

	decision, err := ocr.Evaluate(ctx, path)
	if err != nil {
		rep.OCRError = err.Error()
		i.logger.Warn("ocr evaluation failed", "path", path, "error", err)
		return
	}

	rep.OCR = &OCRReport{
		Screenshot:      decision.Screenshot,
		Rule:            decision.Rule,
		Regions:         decision.Regions,
		Chars:           decision.Chars,
		AvgConfidence:   decision.AvgConfidence,
		HighConfRegions: decision.HighConfRegions,
		LargeBlocks:     decision.LargeBlocks,
		BottomRegions:   decision.BottomRegions,
		BottomHeavy:     decision.BottomHeavy,
		Density:         decision.Density,
	}

	if decision.Screenshot && rep.Verdict != model.VerdictScreenshot {
		rep.Verdict = model.VerdictScreenshot
		rep.Method = model.MethodOCR
	}
}

// readEXIF extracts the interesting EXIF tags from the image file.
// Images without EXIF data, PNG screenshots in particular, return an
// empty list.
func (i *Inspector) readEXIF(path string) []EXIFTag {
	data, err := os.ReadFile(path)
	if err != nil {
		i.logger.Debug("failed to read file for exif extraction", "path", path, "error", err)
		return nil
	}

	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		return nil
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil
	}

	var tags []EXIFTag
	for _, entry := range entries {
		if exifTagNames[entry.TagName] {
			tags = append(tags, EXIFTag{Name: entry.TagName, Value: entry.Formatted})
		}
	}
	return tags
}
