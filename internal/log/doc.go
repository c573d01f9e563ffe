// Package log builds the loggers used across ssdetect on top of the
// standard slog package.
//
// This package extends slog to provide:
//   - Scan-root-relative path shortening for human-readable output
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//   - A JSON variant for script consumption
//
// # Path shortening
//
// A classification run logs one record per image, and most attribute values
// are absolute paths under the scanned directory. The PathHandler rewrites
// those attributes relative to the scan root so a ten-thousand-image run
// stays readable:
//
//	path=/home/u/Pictures/vacation/img_1.jpg  →  path=vacation/img_1.jpg
//
// Paths outside the scan root (relocation targets elsewhere on disk) are
// left absolute. The JSON logger never shortens paths: scripts consuming
// the output need stable absolute paths.
//
// # Usage
//
//	// Human-readable logger for a run over rootDir
//	logger := log.NewLogger(os.Stdout, verbose, rootDir)
//
//	logger.Info("classified",
//	    "path", "/home/u/Pictures/vacation/img_1.jpg", // shortened
//	    "verdict", "screenshot",
//	)
//
//	// Machine-readable logger, absolute paths preserved
//	logger := log.NewJSONLogger(os.Stdout, verbose)
package log
