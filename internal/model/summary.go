package model

import "time"

// RunSummary is a serializable summary of a completed (or cancelled) run.
type RunSummary struct {
	// RootDir is the directory that was scanned.
	RootDir string `json:"root_dir,omitempty"`

	// Mode is the detection mode name ("horizontal", "ocr", or "both").
	Mode string `json:"mode,omitempty"`

	// Relocation is the relocation mode name ("none", "move", or "copy").
	Relocation string `json:"relocation,omitempty"`

	// TargetDir is the relocation target directory, when relocation ran.
	TargetDir string `json:"target_dir,omitempty"`

	// Workers is the number of workers that survived initialization.
	Workers int `json:"workers,omitempty"`

	// Enumerated is the number of image files found during enumeration.
	// It can exceed Total when the run was cancelled before completion.
	Enumerated int `json:"enumerated"`

	// Total is the number of files actually processed.
	Total int `json:"total"`

	// Screenshots, Regular, and Errors partition Total by verdict.
	Screenshots int `json:"screenshots"`
	Regular     int `json:"regular"`
	Errors      int `json:"errors"`

	// ByHorizontal and ByOCR split Screenshots by the contributing method.
	ByHorizontal int `json:"by_horizontal,omitempty"`
	ByOCR        int `json:"by_ocr,omitempty"`

	// Relocated is the number of screenshots moved or copied successfully.
	Relocated int `json:"relocated,omitempty"`

	// RelocationErrors is the number of screenshots whose relocation failed.
	// These files keep their screenshot verdict.
	RelocationErrors int `json:"relocation_errors,omitempty"`

	// Cancelled reports whether the run was interrupted before completion.
	Cancelled bool `json:"cancelled,omitempty"`

	// DetectTime is the summed per-image classification time across all
	// workers. It exceeds Elapsed when the pool runs in parallel.
	DetectTime time.Duration `json:"detect_time,omitempty"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the total wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed"`
}

// ScreenshotRate returns the fraction of processed files classified as
// screenshots, or zero when nothing was processed.
func (s RunSummary) ScreenshotRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Screenshots) / float64(s.Total)
}
