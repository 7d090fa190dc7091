package fileserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/filestore/pkg/health"
	"github.com/dmitrymomot/filestore/pkg/logger"
	"github.com/dmitrymomot/filestore/pkg/storage"
	"github.com/dmitrymomot/filestore/pkg/upload"
)

// Server exposes a storage backend over HTTP: uploads, downloads, deletes,
// URL resolution, listing, and health probes.
type Server struct {
	cfg    Config
	store  storage.Storage
	field  *upload.Field
	rules  []storage.ValidationRule
	checks health.Checks
	log    *slog.Logger
	server *http.Server
	done   chan struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithField sets the upload field used by the named-upload endpoint.
// Without it, named uploads fall back to a bare field on the backend.
func WithField(f *upload.Field) Option {
	return func(s *Server) {
		s.field = f
	}
}

// WithUploadRules sets validation rules applied to every upload.
func WithUploadRules(rules ...storage.ValidationRule) Option {
	return func(s *Server) {
		s.rules = append(s.rules, rules...)
	}
}

// WithHealthChecks adds named readiness checks served under /health/ready.
func WithHealthChecks(checks health.Checks) Option {
	return func(s *Server) {
		for name, check := range checks {
			s.checks[name] = check
		}
	}
}

// New creates a Server for the given backend.
func New(cfg Config, store storage.Storage, opts ...Option) (*Server, error) {
	if store == nil {
		return nil, storage.ErrInvalidConfig
	}
	cfg.applyDefaults()

	s := &Server{
		cfg:    cfg,
		store:  store,
		checks: make(health.Checks),
		log:    logger.NewNope(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.field == nil {
		s.field = upload.New(store)
	}

	return s, nil
}

// Handler builds the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID())
	r.Use(RequestLogger(s.log))
	r.Use(Recover(s.log))

	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(s.checks, health.WithLogger(s.log)))

	r.Post("/files", s.handlePut)
	r.Post("/uploads", s.handleUpload)
	r.Get("/files", s.handleList)
	r.Get("/files/*", s.handleGet)
	r.Delete("/files/*", s.handleDelete)
	r.Get("/urls/*", s.handleURL)

	return r
}

// Run starts the HTTP server and blocks until shutdown.
// It handles SIGINT and SIGTERM for graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s.server = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	// Listen first to get the actual address.
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	case <-s.done:
	}

	s.log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.log.Error("shutdown failed", slog.Any("error", err))
		return err
	}

	s.log.Info("shutdown completed")
	return nil
}

// Stop triggers graceful shutdown programmatically.
func (s *Server) Stop() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}
