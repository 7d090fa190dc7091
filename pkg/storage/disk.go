package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dmitrymomot/filestore/pkg/id"
)

// DiskConfig holds local filesystem storage configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type DiskConfig struct {
	// Root is the base directory for stored files (required).
	Root string `env:"STORAGE_DISK_ROOT,required"`

	// BaseURL is the public URL prefix files are served under (optional).
	BaseURL string `env:"STORAGE_DISK_BASE_URL"`

	// DirPerm is the permission mode for created directories (default: 0o755).
	DirPerm os.FileMode `env:"STORAGE_DISK_DIR_PERM"`

	// FilePerm is the permission mode for created files (default: 0o644).
	FilePerm os.FileMode `env:"STORAGE_DISK_FILE_PERM"`
}

// applyDefaults fills in default values for empty config fields.
func (c *DiskConfig) applyDefaults() {
	if c.DirPerm == 0 {
		c.DirPerm = 0o755
	}
	if c.FilePerm == 0 {
		c.FilePerm = 0o644
	}
}

// DiskStorage implements Storage on the local filesystem. It is the
// path-based backend: names are hierarchical paths, so ValidName rewrites
// unsafe characters and every name is resolved against the root directory
// with traversal protection.
type DiskStorage struct {
	cfg  DiskConfig
	root string
}

// NewDisk creates a DiskStorage rooted at cfg.Root, creating the directory
// if necessary.
func NewDisk(cfg DiskConfig) (*DiskStorage, error) {
	cfg.applyDefaults()
	if cfg.Root == "" {
		return nil, ErrInvalidConfig
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(root, cfg.DirPerm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &DiskStorage{cfg: cfg, root: root}, nil
}

// diskNameRegex matches characters that are not safe in filesystem names.
var diskNameRegex = regexp.MustCompile(`[^-\w.]`)

// diacriticStripper folds accented characters to their ASCII base form.
var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// ValidName sanitizes a filename for filesystem use: directory components
// are stripped, diacritics folded to ASCII, spaces replaced with
// underscores, and remaining unsafe characters removed.
func (d *DiskStorage) ValidName(name string) string {
	// Treat both separator styles as directories regardless of platform.
	name = filepath.Base(filepath.FromSlash(strings.ReplaceAll(name, `\`, "/")))

	if folded, _, err := transform.String(diacriticStripper, name); err == nil {
		name = folded
	}

	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	return diskNameRegex.ReplaceAllString(name, "")
}

// availableNameAttempts caps conflict resolution so a pathological directory
// cannot spin forever.
const availableNameAttempts = 100

// AvailableName returns a name that does not collide with an existing file.
// On conflict a short random suffix is inserted before the extension. The
// stem is truncated as needed to honor maxLength; returns ErrNameTooLong
// when no fitting name exists.
func (d *DiskStorage) AvailableName(_ context.Context, name string, maxLength int) (string, error) {
	dir, base := filepath.Split(filepath.FromSlash(name))
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	candidate := filepath.Join(dir, stem+ext)
	for range availableNameAttempts {
		if maxLength > 0 && len(candidate) > maxLength {
			over := len(candidate) - maxLength
			if over >= len(stem) {
				return "", ErrNameTooLong
			}
			stem = stem[:len(stem)-over]
			candidate = filepath.Join(dir, stem+ext)
		}

		_, err := os.Stat(filepath.Join(d.root, candidate))
		if errors.Is(err, fs.ErrNotExist) {
			return filepath.ToSlash(candidate), nil
		}
		if err != nil {
			// Permission or I/O failure, not a conflict.
			return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}

		candidate = filepath.Join(dir, stem+"_"+id.NewSuffix(7)+ext)
	}

	return "", ErrNameTooLong
}

// Save writes content under the given name, resolving conflicts first.
// The write goes through a temp file and rename so readers never observe a
// partially written file.
func (d *DiskStorage) Save(ctx context.Context, name string, r io.Reader, _ int64) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}

	name, err := d.AvailableName(ctx, name, 0)
	if err != nil {
		return "", err
	}

	full, err := d.resolve(name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(full), d.cfg.DirPerm); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := os.Chmod(tmp.Name(), d.cfg.FilePerm); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return name, nil
}

// Put writes data under an auto-generated key: {tenant}/{prefix}/{ulid}.{ext}.
func (d *DiskStorage) Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error) {
	o := newPutOptions(ACLPrivate, opts...)

	contentType, body := detectMIMEWithReader(r)
	if o.contentType != "" {
		contentType = o.contentType
	}

	if len(o.validationRules) > 0 {
		if err := ValidateReader(size, contentType, o.validationRules...); err != nil {
			return nil, err
		}
	}

	key := o.key
	if key == "" {
		var parts []string
		if o.tenant != "" {
			parts = append(parts, d.ValidName(o.tenant))
		}
		if o.prefix != "" {
			parts = append(parts, d.ValidName(o.prefix))
		}
		ext := ExtFromMIME(contentType)
		if ext == "" {
			ext = ".bin"
		}
		parts = append(parts, id.NewULID()+ext)
		key = strings.Join(parts, "/")
	}

	key, err := d.Save(ctx, key, body, size)
	if err != nil {
		return nil, err
	}

	return &FileInfo{
		Key:         key,
		Size:        size,
		ContentType: contentType,
		ACL:         o.acl,
	}, nil
}

// Get opens a stored file for reading.
func (d *DiskStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	full, err := d.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	return f, nil
}

// Delete removes a stored file. Empty parent directories are left in place.
func (d *DiskStorage) Delete(_ context.Context, key string) error {
	full, err := d.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

// URL returns the public URL for a key. Disk storage cannot sign URLs, so
// all URL options except the download name are ignored.
func (d *DiskStorage) URL(_ context.Context, key string, _ ...URLOption) (string, error) {
	if d.cfg.BaseURL == "" {
		return "", ErrURLNotConfigured
	}
	return strings.TrimSuffix(d.cfg.BaseURL, "/") + "/" + strings.TrimPrefix(key, "/"), nil
}

// Exists reports whether a key refers to a stored file.
func (d *DiskStorage) Exists(key string) bool {
	full, err := d.resolve(key)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

// List walks the root directory and returns metadata for keys under prefix.
func (d *DiskStorage) List(_ context.Context, prefix string) ([]FileInfo, error) {
	var infos []FileInfo

	err := filepath.WalkDir(d.root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		fi, err := entry.Info()
		if err != nil {
			return err
		}
		infos = append(infos, FileInfo{
			Key:         key,
			Size:        fi.Size(),
			ContentType: mime.TypeByExtension(filepath.Ext(key)),
			ModTime:     fi.ModTime(),
			ACL:         ACLPrivate,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListFailed, err)
	}

	return infos, nil
}

// resolve maps a key to an absolute path and rejects anything that escapes
// the root directory.
func (d *DiskStorage) resolve(key string) (string, error) {
	full := filepath.Join(d.root, filepath.FromSlash(key))
	if full != d.root && !strings.HasPrefix(full, d.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidName, key)
	}
	return full, nil
}

// Ensure DiskStorage implements Storage and Lister.
var (
	_ Storage = (*DiskStorage)(nil)
	_ Lister  = (*DiskStorage)(nil)
)
