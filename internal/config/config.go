package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/ssdetect/ssdetect/internal/model"
)

// Default configuration values.
// These values mirror the thresholds the detection heuristics were tuned
// with; changing them shifts the screenshot/regular boundary.
const (
	// DefaultWorkers is the number of classification workers started per run.
	// Each worker loads its own OCR engine, so the useful ceiling is bounded
	// by memory rather than CPU count. Eight workers keeps a typical
	// photo-library scan I/O-bound without exhausting memory.
	DefaultWorkers = 8

	// MinWorkers is the smallest accepted worker count. A run needs at
	// least one worker to make progress.
	MinWorkers = 1

	// MaxWorkers caps the worker count. Beyond 32 workers the per-worker
	// OCR engine cost dominates and throughput no longer improves.
	MaxWorkers = 32

	// DefaultOCRMinChars is the minimum number of recognized characters
	// before the base OCR rule can classify an image as a screenshot.
	// Ten characters filters out incidental text in photographs (signs,
	// labels) while catching even sparse UI chrome.
	DefaultOCRMinChars = 10

	// DefaultOCRMinConfidence is the minimum mean OCR confidence for the
	// base rule, in [0, 1]. Rendered UI text recognizes far above 0.6;
	// photographed text usually lands below it.
	DefaultOCRMinConfidence = 0.6

	// DefaultOCRResizeFactor scales images before OCR. 1.0 disables
	// scaling. Values below 1.0 trade recognition accuracy for speed on
	// very large captures.
	DefaultOCRResizeFactor = 1.0

	// AppName is the application name used for XDG directory paths.
	AppName = "ssdetect"
)

// Config holds all configuration options for ssdetect.
// This struct is designed to be populated from CLI flags and the optional
// config file, then passed through the application via dependency injection
// rather than global state. Once a run starts the config is never mutated.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., OCRConfig, RelocationConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// RootDir is the directory scanned for image files. All paths handed
	// to workers are absolute paths under this directory.
	RootDir string

	// Workers is the number of concurrent classification workers.
	// Must be between MinWorkers and MaxWorkers.
	Workers int

	// Mode selects which detection methods run for each image.
	Mode model.DetectionMode

	// Relocation selects what happens to files classified as screenshots.
	Relocation model.RelocationMode

	// TargetDir is the destination directory for relocated screenshots.
	// Required when Relocation is move or copy, ignored otherwise.
	TargetDir string

	// OCRMinChars is the minimum recognized character count for the base
	// OCR rule.
	OCRMinChars int

	// OCRMinConfidence is the minimum mean OCR confidence for the base
	// rule, in [0, 1].
	OCRMinConfidence float64

	// OCRResizeFactor scales image dimensions before OCR. Must be in
	// (0, 1]; 1.0 means no scaling.
	OCRResizeFactor float64

	// ExtraHeuristics enables the caption and density OCR rules in
	// addition to the base rule.
	ExtraHeuristics bool

	// GPUEnabled requests GPU acceleration from the OCR engine. Engines
	// that only support CPU log a warning once and continue.
	GPUEnabled bool

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// JSONLog switches log output to JSON records for script consumption.
	// Implies ScriptMode.
	JSONLog bool

	// ScriptMode disables the interactive progress UI and logs plain
	// records instead. Automatically true when stdout is not a terminal.
	ScriptMode bool

	// ReportFile is the output file path for the run report.
	// When set, a report is written after the run; the format follows the
	// file extension (.md Markdown, .json JSON, anything else plain text).
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .ssdetect.yaml in the current
	// directory, the user's home directory, and the XDG config directory.
	ConfigFilePath string

	// SaveHistory controls whether the run summary is appended to the
	// SQLite run history. Save failures are logged, never fatal.
	SaveHistory bool

	// DBDir is the directory holding the run-history database.
	// Defaults to the XDG data directory.
	DBDir string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., worker count,
// confidence thresholds). This also serves as documentation of what the
// defaults are.
func NewConfig() *Config {
	return &Config{
		RootDir:          ".",
		Workers:          DefaultWorkers,
		Mode:             model.ModeCombined,
		Relocation:       model.RelocationNone,
		OCRMinChars:      DefaultOCRMinChars,
		OCRMinConfidence: DefaultOCRMinConfidence,
		OCRResizeFactor:  DefaultOCRResizeFactor,
		ExtraHeuristics:  true,
		GPUEnabled:       true,
		SaveHistory:      true,
		DBDir:            XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for ssdetect.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/ssdetect
// On macOS: ~/Library/Application Support/ssdetect
// On Windows: %LOCALAPPDATA%\ssdetect
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for ssdetect.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/ssdetect
// On macOS: ~/Library/Application Support/ssdetect
// On Windows: %APPDATA%\ssdetect
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any classification begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have a directory to scan
	if c.RootDir == "" {
		return ErrNoRootDir
	}

	// Worker count outside the supported range either stalls the run or
	// multiplies OCR engine instances past the point of diminishing returns
	if c.Workers < MinWorkers || c.Workers > MaxWorkers {
		return ErrInvalidWorkerCount
	}

	// Negative character minimum makes the base rule meaningless
	if c.OCRMinChars < 0 {
		return ErrInvalidOCRMinChars
	}

	// Confidence is a fraction; values outside [0, 1] can never match
	if c.OCRMinConfidence < 0 || c.OCRMinConfidence > 1 {
		return ErrInvalidOCRConfidence
	}

	// Resize factor must shrink or preserve, never grow or vanish
	if c.OCRResizeFactor <= 0 || c.OCRResizeFactor > 1 {
		return ErrInvalidResizeFactor
	}

	// Relocation without a destination has nowhere to put the files
	if c.Relocation != model.RelocationNone && c.TargetDir == "" {
		return ErrNoTargetDir
	}

	return nil
}
