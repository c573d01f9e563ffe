package log

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// pathKeys contains attribute keys whose values are filesystem paths.
// Only these attributes are rewritten; free-form strings that merely look
// like paths are left alone.
var pathKeys = map[string]bool{
	"path":        true,
	"file":        true,
	"source":      true,
	"destination": true,
	"target":      true,
	"sidecar":     true,
	"report":      true,
}

// PathHandler wraps an slog.Handler to shorten path attributes relative to
// the scan root. A classification run emits one record per image and almost
// every attribute is an absolute path under the same directory; stripping
// the shared prefix keeps the output readable without losing information.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites keep logging absolute paths, so no package except this
//     one needs to know about the shortening
type PathHandler struct {
	// handler is the underlying slog handler that receives rewritten records.
	handler slog.Handler

	// root is the scan root paths are shortened against.
	root string
}

// NewPathHandler creates a new PathHandler wrapping the given handler.
// Path attributes under root are rewritten relative to it. If handler is
// nil, the returned PathHandler uses slog.Default().Handler().
func NewPathHandler(handler slog.Handler, root string) *PathHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &PathHandler{handler: handler, root: root}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *PathHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites the record's path attributes and passes it to the
// underlying handler.
func (h *PathHandler) Handle(ctx context.Context, r slog.Record) error {
	rewritten := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		rewritten.AddAttrs(h.rewriteAttr(a))
		return true
	})

	return h.handler.Handle(ctx, rewritten)
}

// WithAttrs returns a new handler with the given attributes added.
// Path attributes are rewritten before being added.
func (h *PathHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	rewrittenAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		rewrittenAttrs[i] = h.rewriteAttr(a)
	}
	return &PathHandler{handler: h.handler.WithAttrs(rewrittenAttrs), root: h.root}
}

// WithGroup returns a new handler with the given group name.
func (h *PathHandler) WithGroup(name string) slog.Handler {
	return &PathHandler{handler: h.handler.WithGroup(name), root: h.root}
}

// rewriteAttr shortens a single attribute, recursively handling groups.
func (h *PathHandler) rewriteAttr(a slog.Attr) slog.Attr {
	// Handle groups recursively
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		rewrittenAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			rewrittenAttrs[i] = h.rewriteAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(rewrittenAttrs...)}
	}

	if a.Value.Kind() != slog.KindString || !pathKeys[strings.ToLower(a.Key)] {
		return a
	}

	if short, ok := h.shorten(a.Value.String()); ok {
		return slog.String(a.Key, short)
	}
	return a
}

// shorten returns the path relative to the scan root. Paths outside the
// root, and the root itself, are reported unchanged.
func (h *PathHandler) shorten(path string) (string, bool) {
	if h.root == "" || path == "" {
		return "", false
	}

	rel, err := filepath.Rel(h.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return rel, true
}

// NewLogger creates the human-readable text logger used for run output.
// Path attributes are shortened relative to root when root is non-empty.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stdout)
//   - verbose: If true, sets log level to Debug; otherwise Info
//   - root: The scan root for path shortening, or "" to disable it
//
// The default level is Info, not Warn: per-image result records are the
// primary output of a run, and they log at Info.
func NewLogger(w io.Writer, verbose bool, root string) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewPathHandler(textHandler, root))
}

// NewJSONLogger creates a new slog.Logger that outputs JSON records for
// script consumption. Paths are never shortened: scripts parsing the
// output need stable absolute paths.
//
// Parameters:
//   - w: The io.Writer to write log output to
//   - verbose: If true, sets log level to Debug; otherwise Info
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	return slog.New(slog.NewJSONHandler(w, opts))
}
