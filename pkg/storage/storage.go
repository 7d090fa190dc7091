package storage

import (
	"context"
	"io"
	"time"
)

// Storage defines the interface for file storage backends.
type Storage interface {
	// Put uploads data from a reader under an auto-generated key.
	// The size parameter is used for content-length.
	// Options can customize key, prefix, tenant, ACL, and content type.
	Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error)

	// Get retrieves a file from storage.
	// The caller is responsible for closing the returned reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file from storage.
	Delete(ctx context.Context, key string) error

	// URL generates a URL for accessing the file.
	// For private files, returns a signed URL. For public files, returns the public URL.
	URL(ctx context.Context, key string, opts ...URLOption) (string, error)

	// Save persists content under the given name and returns the final name.
	// The name is passed through AvailableName first. Key-based backends must
	// return the name verbatim: no separator translation, no normalization.
	// Only path-based backends may rewrite names, and they do so in ValidName.
	Save(ctx context.Context, name string, r io.Reader, size int64) (string, error)

	// ValidName returns a name suitable for this backend.
	// Key-based backends treat names as opaque and return them unchanged.
	ValidName(name string) string

	// AvailableName resolves naming conflicts for the given name.
	// maxLength limits the resulting name length; zero means unlimited.
	// Key-based backends have overwrite semantics and return the name as is.
	AvailableName(ctx context.Context, name string, maxLength int) (string, error)
}

// Lister is implemented by backends that can enumerate stored files.
// Used by cleanup routines and bulk helpers.
type Lister interface {
	// List returns metadata for all files whose key starts with prefix.
	// An empty prefix lists everything.
	List(ctx context.Context, prefix string) ([]FileInfo, error)
}

// TargetFunc computes the destination name for an upload from the owning
// record and the raw filename. The result is passed through the backend's
// ValidName before use.
type TargetFunc func(owner any, filename string) string

// Target specifies where uploaded files go: either a literal path template
// (strftime directives are expanded against the current time) or a function.
// Func takes precedence over Path when both are set.
type Target struct {
	Path string
	Func TargetFunc
}

// FilenameGenerator is implemented by backends that take over destination
// naming entirely, bypassing the default directory-joining logic. Flat
// key-based backends implement it to keep keys intact: the result is a plain
// concatenation of the backend prefix, the resolved target, and the
// validated filename.
type FilenameGenerator interface {
	GenerateFilename(owner any, target Target, filename string) string
}

// FileInfo contains metadata about a stored file.
type FileInfo struct {
	// ModTime is the last modification time, when the backend tracks one.
	// Backends without timestamps leave it zero.
	ModTime time.Time

	// Key is the storage key (path) of the file.
	Key string

	// ContentType is the detected MIME type.
	ContentType string

	// ACL is the access control setting.
	ACL ACL

	// Size is the file size in bytes.
	Size int64
}

// ACL represents access control levels for stored files.
type ACL string

const (
	// ACLPrivate makes the file accessible only via signed URLs.
	ACLPrivate ACL = "private"

	// ACLPublicRead makes the file publicly readable.
	ACLPublicRead ACL = "public-read"
)

// Default configuration values.
const (
	DefaultRegion          = "us-east-1"
	DefaultMaxDownloadSize = 50 << 20 // 50MB
	DefaultSignedURLExpiry = 15 * 60  // 15 minutes in seconds
)

// Config holds S3-compatible storage configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string `env:"STORAGE_BUCKET,required"`

	// AccessKey is the AWS access key ID (required).
	AccessKey string `env:"STORAGE_ACCESS_KEY,required"`

	// SecretKey is the AWS secret access key (required).
	SecretKey string `env:"STORAGE_SECRET_KEY,required"`

	// Endpoint is the custom S3 endpoint URL (optional, for MinIO or other S3-compatible services).
	Endpoint string `env:"STORAGE_ENDPOINT"`

	// Region is the AWS region (default: us-east-1).
	Region string `env:"STORAGE_REGION"`

	// PublicURL is the CDN or public URL prefix for public files (optional).
	// If set, public URLs will use this prefix instead of the S3 URL.
	PublicURL string `env:"STORAGE_PUBLIC_URL"`

	// KeyPrefix is prepended verbatim to every destination key produced by
	// GenerateFilename. Keys are opaque, so any characters are allowed.
	KeyPrefix string `env:"STORAGE_KEY_PREFIX"`

	// DefaultACL is the default ACL for uploaded files (default: private).
	DefaultACL ACL `env:"STORAGE_DEFAULT_ACL"`

	// PathStyle enables path-style URLs (required for MinIO).
	PathStyle bool `env:"STORAGE_PATH_STYLE"`

	// MaxDownloadSize is the maximum size for URL downloads in bytes (default: 50MB).
	MaxDownloadSize int64 `env:"STORAGE_MAX_DOWNLOAD"`
}

// applyDefaults fills in default values for empty config fields.
func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.DefaultACL == "" {
		c.DefaultACL = ACLPrivate
	}
	if c.MaxDownloadSize == 0 {
		c.MaxDownloadSize = DefaultMaxDownloadSize
	}
}

// validate checks that required configuration fields are set.
func (c *Config) validate() error {
	if c.Bucket == "" {
		return ErrInvalidConfig
	}
	if c.AccessKey == "" {
		return ErrInvalidConfig
	}
	if c.SecretKey == "" {
		return ErrInvalidConfig
	}
	return nil
}
