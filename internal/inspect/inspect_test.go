package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ssdetect/ssdetect/internal/detect"
	"github.com/ssdetect/ssdetect/internal/model"
)

// stubEngine substitutes the OCR engine with canned regions.
type stubEngine struct {
	regions []detect.Region
	err     error
	calls   int
}

func (s *stubEngine) Recognize(_ context.Context, _ image.Image) ([]detect.Region, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.regions, nil
}

func (s *stubEngine) SupportsGPU() bool { return false }
func (s *stubEngine) Close() error      { return nil }

// writeGrayPNG writes a grayscale PNG produced by the pixel function.
func writeGrayPNG(t *testing.T, dir, name string, w, h int, pixel func(x, y int) uint8) string {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: pixel(x, y)})
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path) //nolint:gosec // Test fixture under t.TempDir
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close() //nolint:errcheck // Test fixture

	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeStepPNG writes an image with a full-width intensity step, which the
// horizontal heuristic reports as a screenshot.
func writeStepPNG(t *testing.T, dir, name string) string {
	t.Helper()
	return writeGrayPNG(t, dir, name, 40, 40, func(_, y int) uint8 {
		if y < 20 {
			return 0
		}
		return 255
	})
}

// writeFlatPNG writes a uniform image with no detectable edges.
func writeFlatPNG(t *testing.T, dir, name string) string {
	t.Helper()
	return writeGrayPNG(t, dir, name, 40, 40, func(_, _ int) uint8 { return 128 })
}

func TestInspect(t *testing.T) {
	t.Parallel()

	t.Run("step image reports its qualifying rows", func(t *testing.T) {
		t.Parallel()

		path := writeStepPNG(t, t.TempDir(), "step.png")
		ins := New(detect.Params{Mode: model.ModeHorizontal}, nil)

		rep, err := ins.Inspect(context.Background(), path)
		if err != nil {
			t.Fatalf("Inspect() error = %v", err)
		}

		if rep.Width != 40 || rep.Height != 40 {
			t.Errorf("dimensions = %dx%d, want 40x40", rep.Width, rep.Height)
		}
		if rep.Horizontal == nil {
			t.Fatal("expected a horizontal section")
		}
		if !rep.Horizontal.Screenshot || len(rep.Horizontal.Rows) == 0 {
			t.Errorf("horizontal = %+v, want a screenshot with qualifying rows", rep.Horizontal)
		}
		if rep.Verdict != model.VerdictScreenshot || rep.Method != model.MethodHorizontal {
			t.Errorf("verdict = %v via %v, want screenshot via horizontal", rep.Verdict, rep.Method)
		}
		if rep.OCR != nil {
			t.Error("expected no ocr section in horizontal mode")
		}
		if len(rep.EXIF) != 0 || rep.CameraEXIF {
			t.Errorf("exif = %+v, want none for a plain png", rep.EXIF)
		}
	})

	t.Run("combined mode runs ocr even after a horizontal hit", func(t *testing.T) {
		t.Parallel()

		path := writeStepPNG(t, t.TempDir(), "step.png")
		engine := &stubEngine{regions: []detect.Region{
			{Text: "a line of ui text here", Confidence: 0.9, Top: 3},
		}}

		params := detect.Params{
			Mode:             model.ModeCombined,
			OCRMinChars:      10,
			OCRMinConfidence: 0.6,
			OCRResizeFactor:  1.0,
			ExtraHeuristics:  true,
		}
		ins := New(params, nil, WithEngine(engine))

		rep, err := ins.Inspect(context.Background(), path)
		if err != nil {
			t.Fatalf("Inspect() error = %v", err)
		}

		if rep.Horizontal == nil || !rep.Horizontal.Screenshot {
			t.Error("expected a positive horizontal section")
		}
		if rep.OCR == nil {
			t.Fatal("expected an ocr section despite the horizontal hit")
		}
		if engine.calls != 1 {
			t.Errorf("engine called %d times, want 1", engine.calls)
		}
		if rep.Method != model.MethodHorizontal {
			t.Errorf("method = %v, want horizontal to take precedence", rep.Method)
		}
	})

	t.Run("ocr metrics drive the verdict without a horizontal hit", func(t *testing.T) {
		t.Parallel()

		path := writeFlatPNG(t, t.TempDir(), "flat.png")
		engine := &stubEngine{regions: []detect.Region{
			{Text: "settings menu with options", Confidence: 0.8, Top: 5},
			{Text: "ok cancel apply", Confidence: 0.9, Top: 30},
		}}

		params := detect.Params{
			Mode:             model.ModeCombined,
			OCRMinChars:      10,
			OCRMinConfidence: 0.6,
			OCRResizeFactor:  1.0,
			ExtraHeuristics:  true,
		}
		ins := New(params, nil, WithEngine(engine))

		rep, err := ins.Inspect(context.Background(), path)
		if err != nil {
			t.Fatalf("Inspect() error = %v", err)
		}

		if rep.OCR == nil {
			t.Fatal("expected an ocr section")
		}
		if !rep.OCR.Screenshot || rep.OCR.Rule != "base" {
			t.Errorf("ocr = %+v, want the base rule to fire", rep.OCR)
		}
		if rep.OCR.Regions != 2 || rep.OCR.Chars == 0 {
			t.Errorf("ocr metrics = %+v, want 2 regions with characters", rep.OCR)
		}
		if rep.Verdict != model.VerdictScreenshot || rep.Method != model.MethodOCR {
			t.Errorf("verdict = %v via %v, want screenshot via ocr", rep.Verdict, rep.Method)
		}
	})

	t.Run("ocr failure degrades to an explanation", func(t *testing.T) {
		t.Parallel()

		path := writeFlatPNG(t, t.TempDir(), "flat.png")
		engine := &stubEngine{err: errors.New("recognition exploded")}

		params := detect.Params{Mode: model.ModeCombined, OCRResizeFactor: 1.0}
		ins := New(params, nil, WithEngine(engine))

		rep, err := ins.Inspect(context.Background(), path)
		if err != nil {
			t.Fatalf("Inspect() error = %v", err)
		}

		if rep.OCR != nil {
			t.Error("expected no ocr section after an engine failure")
		}
		if !strings.Contains(rep.OCRError, "recognition exploded") {
			t.Errorf("ocr error = %q, want the engine failure", rep.OCRError)
		}
		if rep.Horizontal == nil {
			t.Error("expected the horizontal section to survive the ocr failure")
		}
	})

	t.Run("undecodable file fails the inspection", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "broken.png")
		if err := os.WriteFile(path, []byte("not a png"), 0o600); err != nil {
			t.Fatal(err)
		}

		ins := New(detect.Params{Mode: model.ModeHorizontal}, nil)

		_, err := ins.Inspect(context.Background(), path)
		var decodeErr *detect.DecodeError
		if !errors.As(err, &decodeErr) {
			t.Errorf("Inspect() error = %v, want a DecodeError", err)
		}
	})

	t.Run("ocr mode omits the horizontal section", func(t *testing.T) {
		t.Parallel()

		path := writeStepPNG(t, t.TempDir(), "step.png")
		engine := &stubEngine{}

		params := detect.Params{Mode: model.ModeOCR, OCRMinChars: 10, OCRMinConfidence: 0.6, OCRResizeFactor: 1.0}
		ins := New(params, nil, WithEngine(engine))

		rep, err := ins.Inspect(context.Background(), path)
		if err != nil {
			t.Fatalf("Inspect() error = %v", err)
		}

		if rep.Horizontal != nil {
			t.Error("expected no horizontal section in ocr mode")
		}
		if rep.Verdict != model.VerdictRegular {
			t.Errorf("verdict = %v, want regular from empty regions", rep.Verdict)
		}
	})

	t.Run("serializes verdicts as strings", func(t *testing.T) {
		t.Parallel()

		path := writeStepPNG(t, t.TempDir(), "step.png")
		ins := New(detect.Params{Mode: model.ModeHorizontal}, nil)

		rep, err := ins.Inspect(context.Background(), path)
		if err != nil {
			t.Fatalf("Inspect() error = %v", err)
		}

		data, err := json.Marshal(rep)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if !strings.Contains(string(data), `"verdict":"screenshot"`) {
			t.Errorf("json = %s, want a string verdict", data)
		}
	})
}
