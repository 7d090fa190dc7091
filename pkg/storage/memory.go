package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/dmitrymomot/filestore/pkg/id"
)

// memoryObject is a single stored blob.
type memoryObject struct {
	data        []byte
	contentType string
	acl         ACL
	modTime     time.Time
}

// MemoryStorage is a flat in-memory key-based backend. There are no real
// folders: keys are opaque strings, kept byte-for-byte as given, including
// backslashes and spaces. It backs unit tests and small ephemeral setups.
type MemoryStorage struct {
	mu        sync.RWMutex
	objects   map[string]memoryObject
	keyPrefix string
	baseURL   string
}

// MemoryOption configures a MemoryStorage.
type MemoryOption func(*MemoryStorage)

// WithMemoryKeyPrefix sets the prefix prepended to generated destination keys.
func WithMemoryKeyPrefix(prefix string) MemoryOption {
	return func(m *MemoryStorage) {
		m.keyPrefix = prefix
	}
}

// WithMemoryBaseURL sets the URL prefix returned by URL.
func WithMemoryBaseURL(u string) MemoryOption {
	return func(m *MemoryStorage) {
		m.baseURL = u
	}
}

// NewMemory creates an empty MemoryStorage.
func NewMemory(opts ...MemoryOption) *MemoryStorage {
	m := &MemoryStorage{
		objects: make(map[string]memoryObject),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ValidName returns the name unchanged: keys are opaque.
func (m *MemoryStorage) ValidName(name string) string {
	return name
}

// AvailableName returns the name unchanged: existing keys are overwritten.
func (m *MemoryStorage) AvailableName(_ context.Context, name string, _ int) (string, error) {
	return name, nil
}

// GenerateFilename concatenates the key prefix, the resolved target, and the
// validated filename. No path joining or separator rewriting happens here.
func (m *MemoryStorage) GenerateFilename(owner any, target Target, filename string) string {
	if target.Func != nil {
		return m.keyPrefix + m.ValidName(target.Func(owner, filename))
	}
	return m.keyPrefix + strftime.Format(target.Path, time.Now()) + m.ValidName(filename)
}

// Save stores content under the given name and returns the name verbatim.
func (m *MemoryStorage) Save(_ context.Context, name string, r io.Reader, _ int64) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	m.mu.Lock()
	m.objects[name] = memoryObject{
		data:        data,
		contentType: detectMIMEFromReader(bytes.NewReader(data)),
		acl:         ACLPrivate,
		modTime:     time.Now(),
	}
	m.mu.Unlock()

	return name, nil
}

// Put stores data under an auto-generated key: {tenant}/{prefix}/{ulid}.{ext}.
func (m *MemoryStorage) Put(_ context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error) {
	o := newPutOptions(ACLPrivate, opts...)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	contentType := o.contentType
	if contentType == "" {
		contentType = detectMIMEFromReader(bytes.NewReader(data))
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
			parts = append(parts, o.tenant)
		}
		if o.prefix != "" {
			parts = append(parts, o.prefix)
		}
		ext := ExtFromMIME(contentType)
		if ext == "" {
			ext = ".bin"
		}
		parts = append(parts, id.NewULID()+ext)
		key = strings.Join(parts, "/")
	}

	m.mu.Lock()
	m.objects[key] = memoryObject{
		data:        data,
		contentType: contentType,
		acl:         o.acl,
		modTime:     time.Now(),
	}
	m.mu.Unlock()

	return &FileInfo{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: contentType,
		ACL:         o.acl,
	}, nil
}

// Get returns a reader over the stored blob.
func (m *MemoryStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Delete removes a key.
func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	delete(m.objects, key)
	return nil
}

// URL returns baseURL + key, or ErrURLNotConfigured without a base URL.
func (m *MemoryStorage) URL(_ context.Context, key string, _ ...URLOption) (string, error) {
	if m.baseURL == "" {
		return "", ErrURLNotConfigured
	}
	return strings.TrimSuffix(m.baseURL, "/") + "/" + strings.TrimPrefix(key, "/"), nil
}

// List returns metadata for all keys under prefix, unordered.
func (m *MemoryStorage) List(_ context.Context, prefix string) ([]FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]FileInfo, 0, len(m.objects))
	for key, obj := range m.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		infos = append(infos, FileInfo{
			Key:         key,
			Size:        int64(len(obj.data)),
			ContentType: obj.contentType,
			ModTime:     obj.modTime,
			ACL:         obj.acl,
		})
	}
	return infos, nil
}

// Len reports the number of stored objects.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// Ensure MemoryStorage implements Storage, Lister and FilenameGenerator.
var (
	_ Storage           = (*MemoryStorage)(nil)
	_ Lister            = (*MemoryStorage)(nil)
	_ FilenameGenerator = (*MemoryStorage)(nil)
)
