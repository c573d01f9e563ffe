// Package config provides configuration structures and utilities for ssdetect.
// It defines the main configuration options for image classification,
// relocation behavior, OCR thresholds, and report generation preferences.
package config
