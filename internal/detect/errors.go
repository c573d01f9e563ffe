package detect

import (
	"errors"
	"fmt"
)

// ErrEngineNotInitialized is returned when OCR evaluation runs without a
// recognition engine. It mirrors a failed engine load that was ignored.
var ErrEngineNotInitialized = errors.New("ocr engine not initialized")

// ModelLoadError reports a failure to load detector resources during
// worker initialization. It is fatal to the affected worker but not to
// the run as long as at least one worker initializes successfully.
type ModelLoadError struct {
	// Engine names the detection engine that failed to load.
	Engine string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("failed to load %s engine: %v", e.Engine, e.Err)
}

// Unwrap returns the underlying cause for errors.Is and errors.As.
func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// DecodeError reports an image file that could not be read or decoded.
// It is recorded as an error verdict for that image and never aborts the
// worker.
type DecodeError struct {
	// Path is the image file that failed to decode.
	Path string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause for errors.Is and errors.As.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DetectionError reports a detection method that failed on a decodable
// image. Like DecodeError it is per-image: recorded as an error verdict,
// never fatal to the worker.
type DetectionError struct {
	// Path is the image the method failed on.
	Path string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *DetectionError) Error() string {
	return fmt.Sprintf("detection failed on %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause for errors.Is and errors.As.
func (e *DetectionError) Unwrap() error {
	return e.Err
}
