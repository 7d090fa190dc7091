// Package logger builds the slog loggers used across the module: JSON to
// stdout, request-scoped attributes pulled from context, and optional
// Sentry reporting for failures.
//
// The file server, the janitor, and the storage factories all accept a
// *slog.Logger, so one constructor call wires the whole module:
//
//	log := logger.New(fileserver.RequestIDExtractor())
//	srv, _ := fileserver.New(cfg, store, fileserver.WithLogger(log))
//
// Every entry logged with a request context then carries the request_id the
// middleware assigned, without handlers threading it by hand.
//
// A [ContextExtractor] is any func(ctx) (slog.Attr, bool); returning false
// skips the attribute for that entry. Extractors run on every log call, so
// they see the live context of the operation being logged. To attach
// extraction to an existing handler, wrap it with [NewContextHandler].
//
// [NewWithSentry] adds error reporting on top: failed uploads and sweep
// errors become Sentry issues while the JSON stream keeps flowing to
// stdout. An empty DSN silently degrades to stdout-only, so the same
// construction works in development and production.
package logger
