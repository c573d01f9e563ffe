package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ssdetect/ssdetect/internal/model"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".ssdetect.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File mirrors the YAML configuration file layout.
//
// Design decision: Every field is a pointer so that an absent key is
// distinguishable from an explicit zero. Apply only overrides config
// values for keys the file actually sets, which keeps the merge order
// defaults < file < explicit flags intact.
type File struct {
	// Workers overrides the classification worker count.
	Workers *int `yaml:"workers,omitempty"`

	// Mode overrides the detection mode ("horizontal", "ocr", or "both").
	Mode *string `yaml:"mode,omitempty"`

	// GPU overrides whether the OCR engine may use GPU acceleration.
	GPU *bool `yaml:"gpu,omitempty"`

	// ExtraHeuristics overrides the caption and density OCR rules toggle.
	ExtraHeuristics *bool `yaml:"extra_heuristics,omitempty"`

	// OCR overrides the OCR decision thresholds.
	OCR *OCRFile `yaml:"ocr,omitempty"`

	// Relocation overrides what happens to classified screenshots.
	Relocation *RelocationFile `yaml:"relocation,omitempty"`
}

// OCRFile holds the ocr section of the configuration file.
type OCRFile struct {
	// MinChars overrides the minimum recognized character count.
	MinChars *int `yaml:"min_chars,omitempty"`

	// MinConfidence overrides the minimum mean confidence in [0, 1].
	MinConfidence *float64 `yaml:"min_confidence,omitempty"`

	// ResizeFactor overrides the pre-OCR resize factor in (0, 1].
	ResizeFactor *float64 `yaml:"resize_factor,omitempty"`
}

// RelocationFile holds the relocation section of the configuration file.
type RelocationFile struct {
	// Mode overrides the relocation mode ("none", "move", or "copy").
	Mode *string `yaml:"mode,omitempty"`

	// Target overrides the relocation destination directory.
	Target *string `yaml:"target,omitempty"`
}

// LoadConfigFile loads configuration overrides from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &cf, nil
}

// Apply copies every value the file sets onto cfg. Keys absent from the
// file leave cfg untouched. Mode strings are parsed here so a bad value
// fails with the file's name before any flag processing happens.
func (f *File) Apply(cfg *Config) error {
	if f.Workers != nil {
		cfg.Workers = *f.Workers
	}
	if f.Mode != nil {
		mode, err := model.ParseDetectionMode(*f.Mode)
		if err != nil {
			return err
		}
		cfg.Mode = mode
	}
	if f.GPU != nil {
		cfg.GPUEnabled = *f.GPU
	}
	if f.ExtraHeuristics != nil {
		cfg.ExtraHeuristics = *f.ExtraHeuristics
	}

	if f.OCR != nil {
		if f.OCR.MinChars != nil {
			cfg.OCRMinChars = *f.OCR.MinChars
		}
		if f.OCR.MinConfidence != nil {
			cfg.OCRMinConfidence = *f.OCR.MinConfidence
		}
		if f.OCR.ResizeFactor != nil {
			cfg.OCRResizeFactor = *f.OCR.ResizeFactor
		}
	}

	if f.Relocation != nil {
		if f.Relocation.Mode != nil {
			mode, err := model.ParseRelocationMode(*f.Relocation.Mode)
			if err != nil {
				return err
			}
			cfg.Relocation = mode
		}
		if f.Relocation.Target != nil {
			cfg.TargetDir = *f.Relocation.Target
		}
	}

	return nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .ssdetect.yaml in the current directory
// 3. Look for .ssdetect.yaml in the user's home directory
// 4. Look for .ssdetect.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	// Check XDG config directory
	xdgConfig := filepath.Join(XDGConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}
