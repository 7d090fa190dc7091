package fileserver

import "time"

// Config holds HTTP server configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	// Addr is the listen address.
	Addr string `env:"FILESERVER_ADDR" envDefault:":8080"`

	// MaxUploadSize caps the size of multipart upload bodies in bytes.
	MaxUploadSize int64 `env:"FILESERVER_MAX_UPLOAD_SIZE" envDefault:"33554432"` // 32 MiB

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration `env:"FILESERVER_READ_TIMEOUT" envDefault:"30s"`

	// WriteTimeout is the maximum duration before timing out response writes.
	WriteTimeout time.Duration `env:"FILESERVER_WRITE_TIMEOUT" envDefault:"60s"`

	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `env:"FILESERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// applyDefaults fills in default values for empty config fields.
func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.MaxUploadSize == 0 {
		c.MaxUploadSize = 32 << 20
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 60 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}
