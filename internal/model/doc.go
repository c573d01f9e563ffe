// Package model defines the core data structures used throughout ssdetect.
//
// This package contains the following main types:
//   - ImageTask: A single unit of work handed to a classification worker
//   - ClassificationResult: The outcome of classifying one image
//   - RunStatistics: Thread-safe aggregate counters for a run
//   - RunSummary: A serializable summary of a completed (or cancelled) run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (engine, detect, relocate, report, history)
// need to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// run-history storage.
package model
