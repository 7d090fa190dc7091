package janitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/filestore/pkg/logger"
	"github.com/dmitrymomot/filestore/pkg/storage"
)

// Sentinel errors for the janitor package.
var (
	// ErrListingNotSupported is returned when the backend cannot enumerate keys.
	ErrListingNotSupported = errors.New("janitor: backend does not support listing")

	// ErrInvalidSchedule is returned for unparseable cron expressions.
	ErrInvalidSchedule = errors.New("janitor: invalid cron schedule")
)

// Config holds cleanup configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	// Schedule is a 5-field cron expression (default: hourly).
	Schedule string `env:"JANITOR_SCHEDULE" envDefault:"0 * * * *"`

	// Retention is how long files are kept before being swept.
	Retention time.Duration `env:"JANITOR_RETENTION" envDefault:"720h"`

	// Prefix limits sweeping to keys under this prefix.
	Prefix string `env:"JANITOR_PREFIX"`

	// DryRun logs expired keys without deleting them.
	DryRun bool `env:"JANITOR_DRY_RUN"`
}

// sweepConcurrency bounds the delete fan-out of a single sweep.
const sweepConcurrency = 8

// Janitor periodically removes files older than the retention window.
// Files without a known modification time are never touched.
type Janitor struct {
	store  storage.Storage
	lister storage.Lister
	cfg    Config
	log    *slog.Logger
	cron   *cron.Cron
	now    func() time.Time
}

// Option configures a Janitor.
type Option func(*Janitor)

// WithLogger sets the janitor logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(j *Janitor) {
		if log != nil {
			j.log = log
		}
	}
}

// withNow overrides the clock, for tests exercising retention cutoffs.
func withNow(now func() time.Time) Option {
	return func(j *Janitor) {
		j.now = now
	}
}

// New creates a Janitor sweeping the given backend.
// The backend must implement storage.Lister.
func New(store storage.Storage, cfg Config, opts ...Option) (*Janitor, error) {
	lister, ok := store.(storage.Lister)
	if !ok {
		return nil, ErrListingNotSupported
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "0 * * * *"
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 720 * time.Hour
	}

	j := &Janitor{
		store:  store,
		lister: lister,
		cfg:    cfg,
		log:    logger.NewNope(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}

	return j, nil
}

// Sweep removes all files under the configured prefix whose modification
// time is older than the retention window. Returns the number of files
// removed (or, in dry-run mode, the number that would have been).
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	infos, err := j.lister.List(ctx, j.cfg.Prefix)
	if err != nil {
		return 0, err
	}

	cutoff := j.now().Add(-j.cfg.Retention)

	var removed atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepConcurrency)

	for _, info := range infos {
		if info.ModTime.IsZero() || !info.ModTime.Before(cutoff) {
			continue
		}

		if j.cfg.DryRun {
			j.log.InfoContext(ctx, "file expired (dry run)",
				slog.String("key", info.Key),
				slog.Time("mod_time", info.ModTime),
			)
			removed.Add(1)
			continue
		}

		g.Go(func() error {
			if err := j.store.Delete(ctx, info.Key); err != nil {
				// A concurrent delete is fine; anything else stops the sweep.
				if errors.Is(err, storage.ErrNotFound) {
					return nil
				}
				return err
			}
			j.log.InfoContext(ctx, "expired file removed", slog.String("key", info.Key))
			removed.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(removed.Load()), err
	}
	return int(removed.Load()), nil
}

// Start schedules periodic sweeps and returns immediately.
// Call Stop to halt the scheduler.
func (j *Janitor) Start() error {
	c := cron.New(cron.WithParser(
		cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
	))

	_, err := c.AddFunc(j.cfg.Schedule, func() {
		n, err := j.Sweep(context.Background())
		if err != nil {
			j.log.Error("sweep failed", slog.Any("error", err))
			return
		}
		j.log.Info("sweep completed", slog.Int("removed", n))
	})
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, j.cfg.Schedule, err)
	}

	j.cron = c
	c.Start()
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	if j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
}
