package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filestore/pkg/config"
	"github.com/dmitrymomot/filestore/pkg/storage"
)

const sampleProfiles = `
profiles:
  uploads:
    driver: disk
    root: /var/data/uploads
    base_url: https://files.example.com/
  archive:
    driver: s3
    bucket: archive
    region: us-east-1
    access_key: AKIATEST
    secret_key: secret
    path_style: true
  cache:
    driver: redis
    url: redis://localhost:6379/0
    namespace: testcache
    ttl: 24h
  records:
    driver: postgres
    connection_string: postgres://localhost/files
    key_prefix: "records/"
  scratch:
    driver: memory
`

func writeProfiles(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("parses all drivers", func(t *testing.T) {
		t.Parallel()

		f, err := config.Load(writeProfiles(t, sampleProfiles))
		require.NoError(t, err)
		require.Len(t, f.Profiles, 5)

		uploads, err := f.Profile("uploads")
		require.NoError(t, err)
		assert.Equal(t, config.DriverDisk, uploads.Driver)
		assert.Equal(t, "/var/data/uploads", uploads.Root)
		assert.Equal(t, "https://files.example.com/", uploads.BaseURL)

		archive, err := f.Profile("archive")
		require.NoError(t, err)
		assert.Equal(t, config.DriverS3, archive.Driver)
		assert.Equal(t, "archive", archive.Bucket)
		assert.True(t, archive.PathStyle)

		cache, err := f.Profile("cache")
		require.NoError(t, err)
		assert.Equal(t, 24*time.Hour, cache.TTL.Std())
		assert.Equal(t, "testcache", cache.Namespace)

		records, err := f.Profile("records")
		require.NoError(t, err)
		assert.Equal(t, "records/", records.KeyPrefix)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.ErrorIs(t, err, config.ErrInvalidFile)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		_, err := config.Load(writeProfiles(t, "profiles: ["))
		require.ErrorIs(t, err, config.ErrInvalidFile)
	})

	t.Run("unknown driver rejected", func(t *testing.T) {
		t.Parallel()

		_, err := config.Load(writeProfiles(t, "profiles:\n  bad:\n    driver: carrier-pigeon\n"))
		require.ErrorIs(t, err, config.ErrUnknownDriver)
	})

	t.Run("unknown profile", func(t *testing.T) {
		t.Parallel()

		f, err := config.Load(writeProfiles(t, sampleProfiles))
		require.NoError(t, err)

		_, err = f.Profile("nope")
		require.ErrorIs(t, err, config.ErrUnknownProfile)
	})
}

func TestLoadFS(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profiles.yaml"), []byte(sampleProfiles), 0o644))

	f, err := config.LoadFS(os.DirFS(dir), "profiles.yaml")
	require.NoError(t, err)
	assert.Len(t, f.Profiles, 5)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("STORAGE_DISK_ROOT", "/tmp/files")
	t.Setenv("STORAGE_DISK_BASE_URL", "https://cdn.test/")

	cfg, err := config.FromEnv[storage.DiskConfig]()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/files", cfg.Root)
	assert.Equal(t, "https://cdn.test/", cfg.BaseURL)
}
