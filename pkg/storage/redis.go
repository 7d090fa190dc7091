package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/filestore/pkg/id"
	redisconn "github.com/dmitrymomot/filestore/pkg/redis"
)

// RedisConfig holds Redis-backed storage configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type RedisConfig struct {
	// URL is the Redis connection URL, redis:// or rediss:// (required).
	URL string `env:"STORAGE_REDIS_URL,required"`

	// Namespace prefixes every Redis key this backend touches, keeping the
	// blobs separate from other users of the same database.
	Namespace string `env:"STORAGE_REDIS_NAMESPACE" envDefault:"filestore"`

	// KeyPrefix is prepended verbatim to generated destination keys.
	KeyPrefix string `env:"STORAGE_REDIS_KEY_PREFIX"`

	// TTL is the lifetime of stored blobs; zero keeps them until deleted.
	TTL time.Duration `env:"STORAGE_REDIS_TTL"`

	// BaseURL is the public URL prefix files are served under (optional).
	BaseURL string `env:"STORAGE_REDIS_BASE_URL"`
}

// redisMeta is the stored sidecar metadata for a blob.
type redisMeta struct {
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"mod_time"`
	ACL         ACL       `json:"acl"`
}

// RedisStorage is a flat key-based backend over Redis, suited to small
// short-lived files (exports, previews, share links). Keys are opaque and
// never rewritten. Blobs expire together with their metadata when a TTL is
// configured.
type RedisStorage struct {
	client redis.UniversalClient
	cfg    RedisConfig
}

// NewRedis creates a RedisStorage on an existing client.
// The client can be obtained from OpenRedis.
func NewRedis(client redis.UniversalClient, cfg RedisConfig) (*RedisStorage, error) {
	if client == nil {
		return nil, ErrInvalidConfig
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "filestore"
	}
	return &RedisStorage{client: client, cfg: cfg}, nil
}

// OpenRedis connects to Redis using a redis:// or rediss:// URL. Connection
// pooling, timeouts, and startup retry come from the redis package defaults.
func OpenRedis(ctx context.Context, url string) (redis.UniversalClient, error) {
	client, err := redisconn.Open(ctx, url)
	if err != nil {
		if errors.Is(err, redisconn.ErrEmptyConnectionURL) || errors.Is(err, redisconn.ErrFailedToParseURL) {
			return nil, errors.Join(ErrInvalidURL, err)
		}
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	return client, nil
}

// ValidName returns the name unchanged: Redis keys are opaque.
func (r *RedisStorage) ValidName(name string) string {
	return name
}

// AvailableName returns the name unchanged: existing keys are overwritten.
func (r *RedisStorage) AvailableName(_ context.Context, name string, _ int) (string, error) {
	return name, nil
}

// GenerateFilename concatenates the key prefix, the resolved target, and the
// validated filename without path joining.
func (r *RedisStorage) GenerateFilename(owner any, target Target, filename string) string {
	if target.Func != nil {
		return r.cfg.KeyPrefix + r.ValidName(target.Func(owner, filename))
	}
	return r.cfg.KeyPrefix + strftime.Format(target.Path, time.Now()) + r.ValidName(filename)
}

// Save stores content under the given name and returns the name verbatim.
func (r *RedisStorage) Save(ctx context.Context, name string, reader io.Reader, _ int64) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	if err := r.store(ctx, name, data, detectMIMEFromReader(bytes.NewReader(data)), ACLPrivate); err != nil {
		return "", err
	}
	return name, nil
}

// Put stores data under an auto-generated key.
func (r *RedisStorage) Put(ctx context.Context, reader io.Reader, size int64, opts ...Option) (*FileInfo, error) {
	o := newPutOptions(ACLPrivate, opts...)

	data, err := io.ReadAll(reader)
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

	if err := r.store(ctx, key, data, contentType, o.acl); err != nil {
		return nil, err
	}

	return &FileInfo{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: contentType,
		ACL:         o.acl,
	}, nil
}

// store writes blob and metadata in one pipeline so they expire together.
func (r *RedisStorage) store(ctx context.Context, key string, data []byte, contentType string, acl ACL) error {
	meta, err := json.Marshal(redisMeta{
		ContentType: contentType,
		Size:        int64(len(data)),
		ModTime:     time.Now().UTC(),
		ACL:         acl,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.blobKey(key), data, r.cfg.TTL)
	pipe.Set(ctx, r.metaKey(key), meta, r.cfg.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return nil
}

// Get returns a reader over the stored blob.
func (r *RedisStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, err := r.client.Get(ctx, r.blobKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the blob and its metadata.
func (r *RedisStorage) Delete(ctx context.Context, key string) error {
	n, err := r.client.Del(ctx, r.blobKey(key), r.metaKey(key)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return nil
}

// URL returns baseURL + key, or ErrURLNotConfigured without a base URL.
func (r *RedisStorage) URL(_ context.Context, key string, _ ...URLOption) (string, error) {
	if r.cfg.BaseURL == "" {
		return "", ErrURLNotConfigured
	}
	return strings.TrimSuffix(r.cfg.BaseURL, "/") + "/" + strings.TrimPrefix(key, "/"), nil
}

// List scans metadata keys under prefix.
// SCAN is incremental, so the listing is a best-effort snapshot.
func (r *RedisStorage) List(ctx context.Context, prefix string) ([]FileInfo, error) {
	var infos []FileInfo

	// Keys are opaque, so the prefix may contain glob metacharacters that
	// MATCH would otherwise interpret.
	pattern := escapeGlob(r.metaKey(prefix)) + "*"
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		metaKey := iter.Val()
		key := strings.TrimPrefix(metaKey, r.metaKey(""))

		raw, err := r.client.Get(ctx, metaKey).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // expired between scan and read
			}
			return nil, fmt.Errorf("%w: %v", ErrListFailed, err)
		}

		var meta redisMeta
		if err := json.Unmarshal(raw, &meta); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrListFailed, err)
		}

		infos = append(infos, FileInfo{
			Key:         key,
			Size:        meta.Size,
			ContentType: meta.ContentType,
			ModTime:     meta.ModTime,
			ACL:         meta.ACL,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListFailed, err)
	}

	return infos, nil
}

// Healthcheck returns a closure that validates Redis connectivity.
// Compatible with the health package's CheckFunc signature.
func (r *RedisStorage) Healthcheck() func(context.Context) error {
	return redisconn.Healthcheck(r.client)
}

// escapeGlob backslash-escapes SCAN MATCH metacharacters so a literal key
// prefix matches only itself.
func escapeGlob(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range []byte(s) {
		switch c {
		case '*', '?', '[', ']', '^', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func (r *RedisStorage) blobKey(key string) string {
	return r.cfg.Namespace + ":blob:" + key
}

func (r *RedisStorage) metaKey(key string) string {
	return r.cfg.Namespace + ":meta:" + key
}

// Ensure RedisStorage implements Storage, Lister and FilenameGenerator.
var (
	_ Storage           = (*RedisStorage)(nil)
	_ Lister            = (*RedisStorage)(nil)
	_ FilenameGenerator = (*RedisStorage)(nil)
)
