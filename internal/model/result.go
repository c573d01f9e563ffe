package model

import "time"

// ClassificationResult is the outcome of classifying one image.
//
// Exactly one result is produced per enumerated file, whatever happens to
// the file: a successful classification, a decode failure, or a detector
// error all yield a result so the collector can account for every input.
type ClassificationResult struct {
	// Path is the absolute path of the classified image.
	Path string `json:"path"`

	// Verdict is the final classification.
	Verdict Verdict `json:"verdict"`

	// Method identifies which detection method decided the verdict.
	// It is MethodNone for error verdicts and for regular verdicts where
	// every active method was negative.
	Method Method `json:"method,omitempty"`

	// RowCount is the number of qualifying edge rows found by horizontal
	// detection. Zero when horizontal detection did not run.
	RowCount int `json:"row_count,omitempty"`

	// CharCount is the total number of recognized characters found by OCR.
	// Zero when OCR did not run.
	CharCount int `json:"char_count,omitempty"`

	// Confidence is the mean OCR confidence in [0, 1] across recognized
	// regions. Zero when OCR did not run or found no regions.
	Confidence float64 `json:"confidence,omitempty"`

	// Elapsed is the wall-clock duration of classifying this image.
	Elapsed time.Duration `json:"elapsed"`

	// RelocatedTo is the destination path the file was moved or copied to.
	// Empty when no relocation was requested or the verdict was not
	// screenshot.
	RelocatedTo string `json:"relocated_to,omitempty"`

	// Err is the reason for an error verdict. It is nil otherwise.
	// Kept as an error rather than a string so callers can unwrap it;
	// the JSON form is carried by Reason.
	Err error `json:"-"`

	// Reason is the string form of Err for serialized output.
	Reason string `json:"reason,omitempty"`
}

// ErrorResult builds a result for a file that could not be classified.
func ErrorResult(path string, elapsed time.Duration, err error) ClassificationResult {
	res := ClassificationResult{
		Path:    path,
		Verdict: VerdictError,
		Method:  MethodNone,
		Elapsed: elapsed,
		Err:     err,
	}
	if err != nil {
		res.Reason = err.Error()
	}
	return res
}

// IsScreenshot reports whether the result classified the image as a screenshot.
func (r ClassificationResult) IsScreenshot() bool {
	return r.Verdict == VerdictScreenshot
}
