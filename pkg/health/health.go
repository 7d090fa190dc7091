package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 5 * time.Second

	// StatusHealthy indicates all checks passed.
	StatusHealthy = "healthy"
	// StatusUnhealthy indicates one or more checks failed.
	StatusUnhealthy = "unhealthy"
)

// CheckFunc probes one dependency. The Redis and Postgres storage backends
// expose Healthcheck() closures with this shape, so they plug in directly.
type CheckFunc func(ctx context.Context) error

// Checks names the probes a readiness endpoint runs.
type Checks map[string]CheckFunc

// Response is the JSON body of a probe endpoint.
type Response struct {
	Checks map[string]Check `json:"checks,omitempty"`
	Status string           `json:"status"`
}

// Check reports one probe's outcome.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type probeConfig struct {
	log     *slog.Logger
	timeout time.Duration
}

// Option adjusts readiness probe behavior.
type Option func(*probeConfig)

// WithTimeout bounds the combined run of all checks. Default 5s.
func WithTimeout(d time.Duration) Option {
	return func(c *probeConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger logs failing checks. Default discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *probeConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// LivenessHandler answers OK unconditionally: reaching it at all proves the
// process is serving. Wire it to /health/live.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, &Response{Status: StatusHealthy})
	}
}

// ReadinessHandler runs every check concurrently and answers 503 when any
// fails, with per-check detail in the JSON form. Wire it to /health/ready
// with the storage backends' Healthcheck closures.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	cfg := &probeConfig{
		timeout: defaultTimeout,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, run(r.Context(), checks, cfg))
	}
}

type outcome struct {
	name  string
	check Check
}

// run fans the checks out and gathers their outcomes under one deadline.
func run(ctx context.Context, checks Checks, cfg *probeConfig) *Response {
	if len(checks) == 0 {
		return &Response{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	results := make(chan outcome, len(checks))
	for name, probe := range checks {
		go func() {
			c := Check{Status: StatusHealthy}
			if err := probe(ctx); err != nil {
				c = Check{Status: StatusUnhealthy, Error: err.Error()}
				cfg.log.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
				)
			}
			results <- outcome{name: name, check: c}
		}()
	}

	resp := &Response{
		Status: StatusHealthy,
		Checks: make(map[string]Check, len(checks)),
	}
	for range checks {
		o := <-results
		resp.Checks[o.name] = o.check
		if o.check.Status != StatusHealthy {
			resp.Status = StatusUnhealthy
		}
	}
	return resp
}

// respond negotiates plain text vs JSON: ?format=json or an Accept header
// asking for application/json gets the structured body.
func respond(w http.ResponseWriter, r *http.Request, resp *Response) {
	status := http.StatusOK
	if resp.Status != StatusHealthy {
		status = http.StatusServiceUnavailable
	}

	wantsJSON := r.URL.Query().Get("format") == "json" ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
	if wantsJSON {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	w.WriteHeader(status)
	if status == http.StatusOK {
		_, _ = w.Write([]byte("OK"))
	} else {
		_, _ = w.Write([]byte("Service Unavailable"))
	}
}
