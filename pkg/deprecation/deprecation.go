// Package deprecation routes warnings about soon-to-be-removed APIs.
//
// Deprecated functions call Warn on every invocation. The default sink logs
// through slog at Warn level; tests use Capture to record emitted warnings:
//
//	warns := deprecation.Capture(func() {
//		legacyAPI()
//	})
//	require.Len(t, warns, 1)
package deprecation

import (
	"context"
	"log/slog"
	"sync"
)

// Handler receives deprecation warnings.
type Handler func(msg string)

var (
	mu      sync.RWMutex
	handler Handler = func(msg string) {
		slog.Default().LogAttrs(context.Background(), slog.LevelWarn, msg,
			slog.String("component", "deprecation"))
	}
)

// Warn emits a deprecation warning to the active handler.
// Every call emits; there is no per-call-site deduplication, so callers in
// hot paths should migrate rather than rely on suppression.
func Warn(msg string) {
	mu.RLock()
	h := handler
	mu.RUnlock()
	h(msg)
}

// SetHandler replaces the active handler and returns the previous one.
// Passing nil restores nothing; callers are expected to hand back the
// previous handler when done.
func SetHandler(h Handler) Handler {
	mu.Lock()
	defer mu.Unlock()
	prev := handler
	if h != nil {
		handler = h
	}
	return prev
}

// Capture runs fn with a recording handler installed and returns the
// warnings emitted during the call, in order. The previous handler is
// restored afterwards. Concurrent Capture calls race on the process-wide
// handler, so keep captures scoped to a single test at a time.
func Capture(fn func()) []string {
	var (
		recMu sync.Mutex
		warns []string
	)

	prev := SetHandler(func(msg string) {
		recMu.Lock()
		warns = append(warns, msg)
		recMu.Unlock()
	})
	defer SetHandler(prev)

	fn()
	return warns
}
