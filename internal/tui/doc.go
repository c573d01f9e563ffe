// Package tui renders the interactive progress display for classification
// runs and the styled terminal summary shown when a run finishes.
//
// The display is a bubbletea program fed by a UISink, which adapts the
// engine's result stream into messages on a buffered channel. The model
// consumes that channel until the sink closes it, so the engine side
// never observes backpressure from a slow terminal for longer than the
// channel buffer. Pressing q or ctrl+c cancels the run through an
// injected cancel function; the display stays up while the workers
// drain, showing the partial counts as they settle.
//
// The program renders to stderr. Structured output (log records, JSON
// results) goes to stdout, so interactive runs can still be piped.
package tui
