package upload

import (
	"context"
	"io"
	"path"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/dmitrymomot/filestore/pkg/storage"
)

// Field binds an upload target to a storage backend and produces destination
// names for incoming files. Naming is delegated to the backend: path-based
// backends get sanitized, normalized paths while key-based backends receive
// their keys untouched.
type Field struct {
	storage   storage.Storage
	target    storage.Target
	maxLength int
	now       func() time.Time
}

// Option configures a Field.
type Option func(*Field)

// To sets a literal upload target path. strftime directives (%Y, %m, %d,
// ...) are expanded against the current time when a name is generated.
func To(target string) Option {
	return func(f *Field) {
		f.target.Path = target
	}
}

// ToFunc sets a callable upload target. The function receives the owning
// record and the raw filename and returns the destination name relative to
// the storage root. It takes precedence over To.
func ToFunc(fn storage.TargetFunc) Option {
	return func(f *Field) {
		f.target.Func = fn
	}
}

// MaxLength limits the length of saved names. Zero means unlimited.
func MaxLength(n int) Option {
	return func(f *Field) {
		f.maxLength = n
	}
}

// withNow overrides the clock, for tests exercising strftime expansion.
func withNow(now func() time.Time) Option {
	return func(f *Field) {
		f.now = now
	}
}

// New creates a Field storing files in s.
func New(s storage.Storage, opts ...Option) *Field {
	f := &Field{
		storage: s,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Storage returns the backend this field stores files in.
func (f *Field) Storage() storage.Storage {
	return f.storage
}

// Target returns the configured upload target.
func (f *Field) Target() storage.Target {
	return f.target
}

// GenerateFilename produces the destination name for filename uploaded on
// behalf of owner.
//
// Backends implementing storage.FilenameGenerator control naming entirely;
// this keeps flat keys intact on stores without real folders. Otherwise the
// target is resolved (callable first, literal with strftime expansion
// second), the base filename is passed through the backend's ValidName, and
// the parts are joined as a cleaned slash path.
func (f *Field) GenerateFilename(owner any, filename string) string {
	if g, ok := f.storage.(storage.FilenameGenerator); ok {
		return g.GenerateFilename(owner, f.target, filename)
	}

	name := filename
	if f.target.Func != nil {
		name = f.target.Func(owner, filename)
	} else if f.target.Path != "" {
		name = path.Join(strftime.Format(f.target.Path, f.now()), filename)
	}

	dir, base := path.Split(name)
	return path.Join(path.Clean(dir), f.storage.ValidName(base))
}

// Save generates the destination name for filename and persists content
// through the backend. Returns the final stored name.
func (f *Field) Save(ctx context.Context, owner any, filename string, r io.Reader, size int64) (string, error) {
	name := f.GenerateFilename(owner, filename)

	name, err := f.storage.AvailableName(ctx, name, f.maxLength)
	if err != nil {
		return "", err
	}

	return f.storage.Save(ctx, name, r, size)
}
