package model

import (
	"encoding/json"
	"fmt"
)

// Verdict is the final classification of an image.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and switch statements. The String() method
// provides the human-readable form used in log records and reports.
type Verdict int

const (
	// VerdictRegular indicates the image is an ordinary photograph or graphic.
	VerdictRegular Verdict = iota

	// VerdictScreenshot indicates at least one detection method identified
	// the image as a screen capture.
	VerdictScreenshot

	// VerdictError indicates the image could not be classified.
	// The ClassificationResult carries the reason; an error verdict counts
	// toward the run's error total, never toward screenshot or regular.
	VerdictError
)

// String returns the human-readable form of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictRegular:
		return "regular"
	case VerdictScreenshot:
		return "screenshot"
	case VerdictError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the verdict as its string form.
func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// UnmarshalJSON decodes a verdict from its string form.
func (v *Verdict) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "regular":
		*v = VerdictRegular
	case "screenshot":
		*v = VerdictScreenshot
	case "error":
		*v = VerdictError
	default:
		return fmt.Errorf("unknown verdict %q", s)
	}
	return nil
}

// Method identifies which detection method produced the final verdict.
type Method int

const (
	// MethodNone means no method contributed, as with error verdicts.
	MethodNone Method = iota

	// MethodHorizontal is the horizontal edge heuristic.
	MethodHorizontal

	// MethodOCR is the text-recognition heuristic.
	MethodOCR
)

// String returns the human-readable form of the method.
func (m Method) String() string {
	switch m {
	case MethodHorizontal:
		return "horizontal"
	case MethodOCR:
		return "ocr"
	default:
		return "none"
	}
}

// MarshalJSON encodes the method as its string form.
func (m Method) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes a method from its string form.
func (m *Method) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "none":
		*m = MethodNone
	case "horizontal":
		*m = MethodHorizontal
	case "ocr":
		*m = MethodOCR
	default:
		return fmt.Errorf("unknown method %q", s)
	}
	return nil
}

// DetectionMode selects which detection methods are active for a run.
type DetectionMode int

const (
	// ModeCombined runs horizontal detection first and falls back to OCR
	// only when horizontal detection is negative (short-circuit OR).
	// Horizontal detection is cheap and rarely misses a true screenshot,
	// so skipping OCR on a positive hit saves the expensive path.
	ModeCombined DetectionMode = iota

	// ModeHorizontal runs only the horizontal edge heuristic.
	ModeHorizontal

	// ModeOCR runs only the text-recognition heuristic.
	ModeOCR
)

// String returns the mode name accepted by the --mode flag.
func (m DetectionMode) String() string {
	switch m {
	case ModeHorizontal:
		return "horizontal"
	case ModeOCR:
		return "ocr"
	case ModeCombined:
		return "both"
	default:
		return "unknown"
	}
}

// UsesHorizontal reports whether the mode runs horizontal detection.
func (m DetectionMode) UsesHorizontal() bool {
	return m == ModeHorizontal || m == ModeCombined
}

// UsesOCR reports whether the mode may run OCR detection.
func (m DetectionMode) UsesOCR() bool {
	return m == ModeOCR || m == ModeCombined
}

// ParseDetectionMode converts a mode name into a DetectionMode.
// Accepted names are "horizontal", "ocr", and "both".
func ParseDetectionMode(s string) (DetectionMode, error) {
	switch s {
	case "horizontal":
		return ModeHorizontal, nil
	case "ocr":
		return ModeOCR, nil
	case "both", "":
		return ModeCombined, nil
	default:
		return ModeCombined, fmt.Errorf("unknown detection mode %q (expected horizontal, ocr, or both)", s)
	}
}

// RelocationMode selects what happens to files classified as screenshots.
type RelocationMode int

const (
	// RelocationNone leaves classified files in place.
	RelocationNone RelocationMode = iota

	// RelocationMove moves screenshots into the target directory.
	RelocationMove

	// RelocationCopy copies screenshots into the target directory.
	RelocationCopy
)

// String returns the human-readable form of the relocation mode.
func (m RelocationMode) String() string {
	switch m {
	case RelocationMove:
		return "move"
	case RelocationCopy:
		return "copy"
	default:
		return "none"
	}
}

// ParseRelocationMode converts a relocation mode name into a RelocationMode.
// Accepted names are "none", "move", and "copy".
func ParseRelocationMode(s string) (RelocationMode, error) {
	switch s {
	case "none", "":
		return RelocationNone, nil
	case "move":
		return RelocationMove, nil
	case "copy":
		return RelocationCopy, nil
	default:
		return RelocationNone, fmt.Errorf("unknown relocation mode %q (expected none, move, or copy)", s)
	}
}
