package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls one attribute out of a context. Returning false
// leaves the entry untouched.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// contextHandler runs extractors against the log call's context and appends
// whatever they yield before delegating. Extraction happens per call, not
// per logger, so request-scoped values stay current.
type contextHandler struct {
	inner   slog.Handler
	extract []ContextExtractor
}

// NewContextHandler wraps next with context extraction. Nil extractors are
// dropped so a misconfigured option cannot panic at log time.
func NewContextHandler(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	kept := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			kept = append(kept, ex)
		}
	}
	return &contextHandler{inner: next, extract: kept}
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extract {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.inner.Handle(ctx, rec)
}

// WithAttrs pushes the static attrs to the wrapped handler; extraction
// stays on the outside so loggers derived with With() keep it.
func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{inner: h.inner.WithAttrs(attrs), extract: h.extract}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{inner: h.inner.WithGroup(name), extract: h.extract}
}
