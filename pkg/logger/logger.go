package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON logger writing to stdout at Info level, with the given
// context extractors attached. Pass fileserver.RequestIDExtractor() to tag
// entries with the request that produced them.
func New(extractors ...ContextExtractor) *slog.Logger {
	return slog.New(NewContextHandler(stdoutHandler(), extractors...))
}

// NewNope returns a logger that drops everything. The file server and the
// janitor default to it when no logger is configured.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func stdoutHandler() slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
}
