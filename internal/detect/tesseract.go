package detect

import (
	"bytes"
	"context"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine implements Engine on top of the Tesseract OCR library
// via gosseract. One engine owns one Tesseract client; the client keeps
// the recognition model loaded for its whole lifetime, so an engine must
// not be shared across goroutines.
type TesseractEngine struct {
	client *gosseract.Client
}

// NewTesseractEngine creates a Tesseract engine with English language
// data. The model load happens here; a missing tessdata installation
// surfaces as a ModelLoadError rather than failing on the first image.
func NewTesseractEngine() (*TesseractEngine, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage("eng"); err != nil {
		_ = client.Close()
		return nil, &ModelLoadError{Engine: "tesseract", Err: err}
	}
	return &TesseractEngine{client: client}, nil
}

// Recognize implements Engine. The image is re-encoded as PNG because
// Tesseract consumes encoded image bytes, and PNG keeps the pixels
// lossless after any pre-OCR downscale.
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image) ([]Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, err
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, err
	}

	regions := make([]Region, 0, len(boxes))
	for _, box := range boxes {
		regions = append(regions, Region{
			Text: box.Word,
			// Tesseract confidences are percentages.
			Confidence: box.Confidence / 100,
			Top:        box.Box.Min.Y,
		})
	}
	return regions, nil
}

// SupportsGPU implements Engine. Tesseract runs on the CPU only.
func (e *TesseractEngine) SupportsGPU() bool {
	return false
}

// Close implements Engine, releasing the Tesseract client and its model.
func (e *TesseractEngine) Close() error {
	return e.client.Close()
}
