package detect

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// stubEngine is a hand-rolled Engine for tests.
type stubEngine struct {
	regions []Region
	err     error
	gpu     bool

	calls  int
	closed bool
}

func (s *stubEngine) Recognize(_ context.Context, _ image.Image) ([]Region, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.regions, nil
}

func (s *stubEngine) SupportsGPU() bool { return s.gpu }

func (s *stubEngine) Close() error {
	s.closed = true
	return nil
}

// defaultOCR builds an OCR evaluator with the production default
// thresholds and extra heuristics enabled.
func defaultOCR(engine Engine) *OCR {
	return NewOCR(engine, 10, 0.6, 1.0, true)
}

// TestOCRDecide exercises the decision rules over hand-built region sets.
func TestOCRDecide(t *testing.T) {
	t.Parallel()

	t.Run("no regions is regular", func(t *testing.T) {
		t.Parallel()

		d := defaultOCR(nil).Decide(nil, 100)
		if d.Screenshot {
			t.Error("expected regular verdict for empty region set")
		}
		if d.Rule != "" {
			t.Errorf("expected no rule, got %q", d.Rule)
		}
	})

	t.Run("base rule fires on enough confident text", func(t *testing.T) {
		t.Parallel()

		regions := []Region{
			{Text: "File Edit View", Confidence: 0.95, Top: 5},
			{Text: "Terminal output", Confidence: 0.9, Top: 40},
		}

		d := defaultOCR(nil).Decide(regions, 100)
		if !d.Screenshot {
			t.Fatal("expected screenshot verdict")
		}
		if d.Rule != "base" {
			t.Errorf("expected base rule, got %q", d.Rule)
		}
		if d.Chars != 29 {
			t.Errorf("expected 29 chars, got %d", d.Chars)
		}
	})

	t.Run("short low-text image is regular", func(t *testing.T) {
		t.Parallel()

		regions := []Region{{Text: "hi", Confidence: 0.99, Top: 5}}

		d := defaultOCR(nil).Decide(regions, 100)
		if d.Screenshot {
			t.Errorf("expected regular verdict, got rule %q", d.Rule)
		}
	})

	t.Run("low confidence misses the base rule", func(t *testing.T) {
		t.Parallel()

		regions := []Region{{Text: "plenty of characters here", Confidence: 0.3, Top: 5}}

		d := defaultOCR(nil).Decide(regions, 100)
		if d.Screenshot {
			t.Errorf("expected regular verdict, got rule %q", d.Rule)
		}
	})

	t.Run("caption rule fires on bottom-heavy confident blocks", func(t *testing.T) {
		t.Parallel()

		// Mean confidence 0.475 misses the base rule; the two large
		// high-confidence blocks in the bottom third catch the caption
		// rule instead.
		long := strings.Repeat("a", 21)
		regions := []Region{
			{Text: long, Confidence: 0.75, Top: 250},
			{Text: long, Confidence: 0.75, Top: 260},
			{Text: "ab", Confidence: 0.2, Top: 270},
			{Text: "cd", Confidence: 0.2, Top: 10},
		}

		d := defaultOCR(nil).Decide(regions, 300)
		if !d.Screenshot {
			t.Fatalf("expected screenshot verdict, metrics %+v", d)
		}
		if d.Rule != "caption" {
			t.Errorf("expected caption rule, got %q", d.Rule)
		}
		if !d.BottomHeavy {
			t.Error("expected bottom-heavy placement")
		}
		if d.HighConfRegions != 2 || d.LargeBlocks != 2 {
			t.Errorf("expected 2 high-conf and 2 large blocks, got %d and %d",
				d.HighConfRegions, d.LargeBlocks)
		}
	})

	t.Run("density rule fires on dense medium-confidence text", func(t *testing.T) {
		t.Parallel()

		// 51 chars over 3 regions: density 17, mean confidence 0.5.
		line := strings.Repeat("x", 17)
		regions := []Region{
			{Text: line, Confidence: 0.5, Top: 10},
			{Text: line, Confidence: 0.5, Top: 40},
			{Text: line, Confidence: 0.5, Top: 70},
		}

		d := defaultOCR(nil).Decide(regions, 300)
		if !d.Screenshot {
			t.Fatalf("expected screenshot verdict, metrics %+v", d)
		}
		if d.Rule != "density" {
			t.Errorf("expected density rule, got %q", d.Rule)
		}
	})

	t.Run("extra heuristics off disables caption and density rules", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("a", 21)
		regions := []Region{
			{Text: long, Confidence: 0.75, Top: 250},
			{Text: long, Confidence: 0.75, Top: 260},
			{Text: "ab", Confidence: 0.2, Top: 270},
			{Text: "cd", Confidence: 0.2, Top: 10},
		}

		ocr := NewOCR(nil, 10, 0.6, 1.0, false)
		if d := ocr.Decide(regions, 300); d.Screenshot {
			t.Errorf("expected regular verdict with heuristics off, got rule %q", d.Rule)
		}
	})

	t.Run("character counting normalizes to NFC", func(t *testing.T) {
		t.Parallel()

		// "e" + combining acute, ten times: 20 runes raw, 10 after NFC.
		decomposed := strings.Repeat("é", 10)
		regions := []Region{{Text: decomposed, Confidence: 0.9, Top: 5}}

		d := defaultOCR(nil).Decide(regions, 100)
		if d.Chars != 10 {
			t.Errorf("expected 10 chars after NFC, got %d", d.Chars)
		}
	})
}

// TestOCREvaluate exercises the path from file to decision.
func TestOCREvaluate(t *testing.T) {
	t.Parallel()

	t.Run("nil engine returns ErrEngineNotInitialized", func(t *testing.T) {
		t.Parallel()

		ocr := NewOCR(nil, 10, 0.6, 1.0, true)
		if _, err := ocr.Evaluate(context.Background(), "any.png"); !errors.Is(err, ErrEngineNotInitialized) {
			t.Errorf("expected ErrEngineNotInitialized, got %v", err)
		}
	})

	t.Run("missing file returns DecodeError", func(t *testing.T) {
		t.Parallel()

		ocr := defaultOCR(&stubEngine{})
		_, err := ocr.Evaluate(context.Background(), filepath.Join(t.TempDir(), "missing.png"))

		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Errorf("expected DecodeError, got %v", err)
		}
	})

	t.Run("engine failure returns DetectionError", func(t *testing.T) {
		t.Parallel()

		path := writeTestPNG(t, t.TempDir(), "img.png", 40, 40)
		ocr := defaultOCR(&stubEngine{err: errors.New("recognition exploded")})

		_, err := ocr.Evaluate(context.Background(), path)
		var detErr *DetectionError
		if !errors.As(err, &detErr) {
			t.Fatalf("expected DetectionError, got %v", err)
		}
		if detErr.Path != path {
			t.Errorf("expected path %q, got %q", path, detErr.Path)
		}
	})

	t.Run("regions from the engine reach the decision", func(t *testing.T) {
		t.Parallel()

		path := writeTestPNG(t, t.TempDir(), "img.png", 40, 40)
		engine := &stubEngine{regions: []Region{
			{Text: "a full line of text", Confidence: 0.9, Top: 3},
		}}

		d, err := defaultOCR(engine).Evaluate(context.Background(), path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !d.Screenshot || d.Rule != "base" {
			t.Errorf("expected base-rule screenshot, got %+v", d)
		}
		if engine.calls != 1 {
			t.Errorf("expected 1 engine call, got %d", engine.calls)
		}
	})
}

// writeTestPNG writes a uniform gray PNG and returns its path.
func writeTestPNG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path) //nolint:gosec // Test fixture under t.TempDir
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close() //nolint:errcheck // Test fixture

	if err := png.Encode(f, grayImage(width, height, func(x, y int) uint8 { return 128 })); err != nil {
		t.Fatal(err)
	}
	return path
}
