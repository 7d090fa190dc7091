package filestore

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/filestore/pkg/config"
	"github.com/dmitrymomot/filestore/pkg/db"
	redisconn "github.com/dmitrymomot/filestore/pkg/redis"
	"github.com/dmitrymomot/filestore/pkg/storage"
	"github.com/dmitrymomot/filestore/pkg/upload"
)

// Type aliases - public API
type (
	// Storage is the interface all backends implement.
	Storage = storage.Storage

	// Lister is implemented by backends that can enumerate stored files.
	Lister = storage.Lister

	// FileInfo contains metadata about a stored file.
	FileInfo = storage.FileInfo

	// Target specifies where uploaded files go.
	Target = storage.Target

	// TargetFunc computes the destination name for an upload.
	TargetFunc = storage.TargetFunc

	// FilenameGenerator is implemented by backends that take over naming.
	FilenameGenerator = storage.FilenameGenerator

	// ValidationRule is a validation check applied before uploads.
	ValidationRule = storage.ValidationRule

	// Field binds an upload target to a storage backend.
	Field = upload.Field

	// Profile declares one named storage backend.
	Profile = config.Profile
)

// CleanupFunc releases the resources behind a backend (connection pools,
// clients). Safe to call once after the backend is no longer used.
type CleanupFunc func(context.Context) error

// noopCleanup is returned for backends without external resources.
func noopCleanup(context.Context) error { return nil }

// Open builds a storage backend from a profile. The returned cleanup
// function must be called when the backend is no longer needed.
func Open(ctx context.Context, p config.Profile) (Storage, CleanupFunc, error) {
	switch p.Driver {
	case config.DriverMemory:
		var opts []storage.MemoryOption
		if p.KeyPrefix != "" {
			opts = append(opts, storage.WithMemoryKeyPrefix(p.KeyPrefix))
		}
		if p.BaseURL != "" {
			opts = append(opts, storage.WithMemoryBaseURL(p.BaseURL))
		}
		return storage.NewMemory(opts...), noopCleanup, nil

	case config.DriverDisk:
		store, err := storage.NewDisk(storage.DiskConfig{
			Root:    p.Root,
			BaseURL: p.BaseURL,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, noopCleanup, nil

	case config.DriverS3:
		store, err := storage.New(storage.Config{
			Bucket:    p.Bucket,
			AccessKey: p.AccessKey,
			SecretKey: p.SecretKey,
			Endpoint:  p.Endpoint,
			Region:    p.Region,
			PublicURL: p.PublicURL,
			KeyPrefix: p.KeyPrefix,
			PathStyle: p.PathStyle,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, noopCleanup, nil

	case config.DriverRedis:
		client, err := storage.OpenRedis(ctx, p.URL)
		if err != nil {
			return nil, nil, err
		}
		store, err := storage.NewRedis(client, storage.RedisConfig{
			URL:       p.URL,
			Namespace: p.Namespace,
			KeyPrefix: p.KeyPrefix,
			TTL:       p.TTL.Std(),
			BaseURL:   p.BaseURL,
		})
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		return store, redisconn.Shutdown(client), nil

	case config.DriverPostgres:
		pool, err := db.Connect(ctx, db.Config{ConnectionString: p.ConnectionString})
		if err != nil {
			return nil, nil, err
		}
		if err := storage.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		store, err := storage.NewPostgres(pool, storage.PostgresConfig{
			ConnectionString: p.ConnectionString,
			KeyPrefix:        p.KeyPrefix,
			BaseURL:          p.BaseURL,
		})
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, db.Shutdown(pool), nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, p.Driver)
	}
}

// OpenNamed loads a profile file and opens the named backend.
func OpenNamed(ctx context.Context, path, name string) (Storage, CleanupFunc, error) {
	f, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	p, err := f.Profile(name)
	if err != nil {
		return nil, nil, err
	}
	return Open(ctx, p)
}
