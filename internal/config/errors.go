package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoRootDir is returned when no scan directory is configured.
	ErrNoRootDir = errors.New("no directory specified: provide a directory to scan")

	// ErrInvalidWorkerCount is returned when the worker count is outside
	// the supported range of 1 to 32.
	ErrInvalidWorkerCount = errors.New("invalid worker count: must be between 1 and 32")

	// ErrInvalidOCRMinChars is returned when the minimum character count
	// is negative. Use 0 to let confidence alone drive the base rule.
	ErrInvalidOCRMinChars = errors.New("invalid ocr character minimum: must be non-negative")

	// ErrInvalidOCRConfidence is returned when the confidence threshold is
	// outside [0, 1]. Confidence values are fractions, not percentages.
	ErrInvalidOCRConfidence = errors.New("invalid ocr confidence: must be between 0.0 and 1.0")

	// ErrInvalidResizeFactor is returned when the pre-OCR resize factor is
	// outside (0, 1]. 1.0 disables resizing; upscaling is not supported.
	ErrInvalidResizeFactor = errors.New("invalid resize factor: must be greater than 0.0 and at most 1.0")

	// ErrNoTargetDir is returned when move or copy relocation is requested
	// without a destination directory.
	ErrNoTargetDir = errors.New("no target directory: relocation requires a destination")

	// ErrConflictingRelocation is returned when both --move and --copy
	// are specified. Only one relocation mode can be used at a time.
	ErrConflictingRelocation = errors.New("conflicting relocation modes: --move and --copy cannot be used together")
)
