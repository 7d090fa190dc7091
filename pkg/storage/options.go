package storage

import "time"

// Option configures a single Put call.
type Option func(*putOptions)

// putOptions collects per-upload settings before a backend builds the
// destination key and writes the blob. Zero values mean "let the backend
// decide": a generated ULID key, detected content type, default ACL.
type putOptions struct {
	key             string
	tenant          string
	prefix          string
	contentType     string
	acl             ACL
	validationRules []ValidationRule
}

// newPutOptions applies opts over the backend's default ACL.
// Every backend's Put starts here so the option set behaves identically
// across disk, memory, S3, Redis and Postgres.
func newPutOptions(defaultACL ACL, opts ...Option) *putOptions {
	o := &putOptions{acl: defaultACL}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithKey pins the destination key instead of generating one, overwriting
// whatever is already stored there. Tenant and prefix are ignored when a
// key is pinned.
func WithKey(key string) Option {
	return func(o *putOptions) {
		o.key = key
	}
}

// WithTenant isolates the upload under a tenant segment, which becomes the
// first element of the generated key: "{tenant}/{prefix}/{ulid}.{ext}".
func WithTenant(id string) Option {
	return func(o *putOptions) {
		o.tenant = id
	}
}

// WithPrefix groups the upload under a path segment between the tenant (if
// any) and the generated filename, e.g. WithPrefix("avatars").
func WithPrefix(prefix string) Option {
	return func(o *putOptions) {
		o.prefix = prefix
	}
}

// WithContentType skips magic-byte detection and records ct as the stored
// content type. The generated key's extension follows it too.
func WithContentType(ct string) Option {
	return func(o *putOptions) {
		o.contentType = ct
	}
}

// WithACL stores the file under the given ACL instead of the backend
// default. Only the S3 backend distinguishes access levels when resolving
// URLs; the others record the value as metadata.
func WithACL(acl ACL) Option {
	return func(o *putOptions) {
		o.acl = acl
	}
}

// WithValidation runs the rules against the upload before any bytes reach
// the backend. The first failing rule aborts the Put with a
// *FileValidationError.
func WithValidation(rules ...ValidationRule) Option {
	return func(o *putOptions) {
		o.validationRules = append(o.validationRules, rules...)
	}
}

// URLOption configures how a stored file's URL is resolved.
type URLOption func(*urlOptions)

// DefaultURLExpiry bounds signed URLs that did not ask for an explicit
// lifetime.
const DefaultURLExpiry = 15 * time.Minute

type urlOptions struct {
	downloadName string
	expiry       time.Duration
	forceSigned  bool
	forcePublic  bool
}

func newURLOptions(opts ...URLOption) *urlOptions {
	o := &urlOptions{expiry: DefaultURLExpiry}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithExpiry sets how long a signed URL stays valid.
func WithExpiry(d time.Duration) URLOption {
	return func(o *urlOptions) {
		o.expiry = d
	}
}

// WithDownload serves the file as an attachment named filename via
// Content-Disposition. Implies a signed URL.
func WithDownload(filename string) URLOption {
	return func(o *urlOptions) {
		o.downloadName = filename
		o.forceSigned = true
	}
}

// WithSigned resolves a signed URL even for publicly readable files. A
// positive expiry overrides DefaultURLExpiry.
func WithSigned(expiry time.Duration) URLOption {
	return func(o *urlOptions) {
		o.forceSigned = true
		if expiry > 0 {
			o.expiry = expiry
		}
	}
}

// WithPublic resolves the plain public URL even for files stored private.
// The object must actually be readable at that URL for the link to work.
func WithPublic() URLOption {
	return func(o *urlOptions) {
		o.forcePublic = true
	}
}
