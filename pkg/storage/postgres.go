package storage

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ncruces/go-strftime"

	"github.com/dmitrymomot/filestore/pkg/db"
	"github.com/dmitrymomot/filestore/pkg/id"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresConfig holds Postgres-backed storage configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type PostgresConfig struct {
	// ConnectionString is the postgres:// connection URL (required).
	ConnectionString string `env:"STORAGE_DATABASE_URL,required"`

	// KeyPrefix is prepended verbatim to generated destination keys.
	KeyPrefix string `env:"STORAGE_DATABASE_KEY_PREFIX"`

	// BaseURL is the public URL prefix files are served under (optional).
	BaseURL string `env:"STORAGE_DATABASE_BASE_URL"`
}

// PostgresStorage is a flat key-based backend that keeps file content in a
// single Postgres table. Useful when files must share transactional
// durability and backup policy with the rest of the data. Keys are opaque
// and never rewritten.
type PostgresStorage struct {
	pool *pgxpool.Pool
	cfg  PostgresConfig
}

// NewPostgres creates a PostgresStorage on an existing connection pool.
// Call MigratePostgres once at startup to create the schema.
func NewPostgres(pool *pgxpool.Pool, cfg PostgresConfig) (*PostgresStorage, error) {
	if pool == nil {
		return nil, ErrInvalidConfig
	}
	return &PostgresStorage{pool: pool, cfg: cfg}, nil
}

// MigratePostgres applies the backend's schema migrations, tracking applied
// versions in the filestore_schema_migrations table.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	if err := db.Migrate(ctx, pool, migrationsFS, "migrations", "filestore_schema_migrations", slog.Default()); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}
	return nil
}

// ValidName returns the name unchanged: keys are opaque.
func (p *PostgresStorage) ValidName(name string) string {
	return name
}

// AvailableName returns the name unchanged: Save upserts existing keys.
func (p *PostgresStorage) AvailableName(_ context.Context, name string, _ int) (string, error) {
	return name, nil
}

// GenerateFilename concatenates the key prefix, the resolved target, and the
// validated filename without path joining.
func (p *PostgresStorage) GenerateFilename(owner any, target Target, filename string) string {
	if target.Func != nil {
		return p.cfg.KeyPrefix + p.ValidName(target.Func(owner, filename))
	}
	return p.cfg.KeyPrefix + strftime.Format(target.Path, time.Now()) + p.ValidName(filename)
}

// Save stores content under the given name and returns the name verbatim.
func (p *PostgresStorage) Save(ctx context.Context, name string, r io.Reader, _ int64) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	contentType := detectMIMEFromReader(bytes.NewReader(data))
	if err := p.upsert(ctx, name, data, contentType, ACLPrivate); err != nil {
		return "", err
	}
	return name, nil
}

// Put stores data under an auto-generated key.
func (p *PostgresStorage) Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error) {
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

	if err := p.upsert(ctx, key, data, contentType, o.acl); err != nil {
		return nil, err
	}

	return &FileInfo{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: contentType,
		ACL:         o.acl,
	}, nil
}

func (p *PostgresStorage) upsert(ctx context.Context, key string, data []byte, contentType string, acl ACL) error {
	const q = `
		INSERT INTO filestore_files (key, content, content_type, size, acl)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO UPDATE
		SET content = EXCLUDED.content,
		    content_type = EXCLUDED.content_type,
		    size = EXCLUDED.size,
		    acl = EXCLUDED.acl,
		    updated_at = now()`

	if _, err := p.pool.Exec(ctx, q, key, data, contentType, int64(len(data)), string(acl)); err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return nil
}

// Get returns a reader over the stored content.
func (p *PostgresStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	const q = `SELECT content FROM filestore_files WHERE key = $1`

	var data []byte
	if err := p.pool.QueryRow(ctx, q, key).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes a stored file.
func (p *PostgresStorage) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM filestore_files WHERE key = $1`

	tag, err := p.pool.Exec(ctx, q, key)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return nil
}

// URL returns baseURL + key, or ErrURLNotConfigured without a base URL.
func (p *PostgresStorage) URL(_ context.Context, key string, _ ...URLOption) (string, error) {
	if p.cfg.BaseURL == "" {
		return "", ErrURLNotConfigured
	}
	return strings.TrimSuffix(p.cfg.BaseURL, "/") + "/" + strings.TrimPrefix(key, "/"), nil
}

// List returns metadata for all keys under prefix, ordered by key.
func (p *PostgresStorage) List(ctx context.Context, prefix string) ([]FileInfo, error) {
	const q = `
		SELECT key, content_type, size, acl, updated_at
		FROM filestore_files
		WHERE key LIKE $1 ESCAPE '\'
		ORDER BY key`

	rows, err := p.pool.Query(ctx, q, escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListFailed, err)
	}
	defer rows.Close()

	var infos []FileInfo
	for rows.Next() {
		var (
			info FileInfo
			acl  string
		)
		if err := rows.Scan(&info.Key, &info.ContentType, &info.Size, &acl, &info.ModTime); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrListFailed, err)
		}
		info.ACL = ACL(acl)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListFailed, err)
	}

	return infos, nil
}

// Healthcheck returns a closure that validates database connectivity.
// Compatible with the health package's CheckFunc signature.
func (p *PostgresStorage) Healthcheck() func(context.Context) error {
	return func(ctx context.Context) error {
		return p.pool.Ping(ctx)
	}
}

// escapeLike escapes LIKE metacharacters so a prefix matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// Ensure PostgresStorage implements Storage, Lister and FilenameGenerator.
var (
	_ Storage           = (*PostgresStorage)(nil)
	_ Lister            = (*PostgresStorage)(nil)
	_ FilenameGenerator = (*PostgresStorage)(nil)
)
