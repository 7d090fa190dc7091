package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Option adjusts the connection settings applied by Open.
type Option func(*settings)

// settings carries pool and timeout tuning. The defaults assume whole file
// blobs travel through single GET/SET commands, so command timeouts are
// generous while the pool stays small.
type settings struct {
	poolSize      int
	minIdleConns  int
	idleTimeout   time.Duration
	connLifetime  time.Duration
	retryAttempts int
	retryInterval time.Duration
	dialTimeout   time.Duration
	readTimeout   time.Duration
	writeTimeout  time.Duration
}

func defaultSettings() *settings {
	return &settings{
		poolSize:      10,
		minIdleConns:  2,
		idleTimeout:   5 * time.Minute,
		connLifetime:  30 * time.Minute,
		retryAttempts: 3,
		retryInterval: 2 * time.Second,
		dialTimeout:   5 * time.Second,
		readTimeout:   30 * time.Second,
		writeTimeout:  30 * time.Second,
	}
}

// WithPool bounds the connection pool: size connections at most, minIdle
// kept warm. Defaults: 10 and 2.
func WithPool(size, minIdle int) Option {
	return func(s *settings) {
		s.poolSize = size
		s.minIdleConns = minIdle
	}
}

// WithConnLifetimes caps how long a connection may sit idle and how long
// it may live overall. Defaults: 5 and 30 minutes.
func WithConnLifetimes(idle, max time.Duration) Option {
	return func(s *settings) {
		s.idleTimeout = idle
		s.connLifetime = max
	}
}

// WithRetry sets how often Open re-dials an unreachable server before
// giving up. The interval grows linearly per attempt. Defaults: 3 attempts,
// 2 seconds.
func WithRetry(attempts int, interval time.Duration) Option {
	return func(s *settings) {
		s.retryAttempts = attempts
		s.retryInterval = interval
	}
}

// WithTimeouts sets the dial timeout and the per-command read and write
// timeouts. Reads and writes default to 30s because a single command can
// carry an entire blob.
func WithTimeouts(dial, read, write time.Duration) Option {
	return func(s *settings) {
		s.dialTimeout = dial
		s.readTimeout = read
		s.writeTimeout = write
	}
}

// Open connects to the server behind a redis:// or rediss:// URL and
// verifies it answers a ping, re-dialing per the retry settings. The
// returned client backs RedisStorage and is released through Shutdown.
func Open(ctx context.Context, url string, opts ...Option) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrFailedToParseURL
	}

	parsed, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}

	s := defaultSettings()
	for _, opt := range opts {
		opt(s)
	}
	parsed.PoolSize = s.poolSize
	parsed.MinIdleConns = s.minIdleConns
	parsed.ConnMaxIdleTime = s.idleTimeout
	parsed.ConnMaxLifetime = s.connLifetime
	parsed.DialTimeout = s.dialTimeout
	parsed.ReadTimeout = s.readTimeout
	parsed.WriteTimeout = s.writeTimeout

	return dial(ctx, parsed, s.retryAttempts, s.retryInterval)
}

// dial pings until the server answers or the attempts run out, backing off
// a little longer after each failure.
func dial(ctx context.Context, opts *redis.Options, attempts int, interval time.Duration) (redis.UniversalClient, error) {
	attempts = max(attempts, 1)

	for i := range attempts {
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		if err := wait(ctx, time.Duration(i+1)*interval); err != nil {
			return nil, errors.Join(ErrConnectionFailed, err)
		}
	}

	return nil, ErrConnectionFailed
}

func wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
