package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutBytes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stores data", func(t *testing.T) {
		t.Parallel()
		store := NewMemory()

		info, err := PutBytes(ctx, store, []byte("hello bytes"))
		require.NoError(t, err)
		require.NotNil(t, info)
		assert.Equal(t, int64(11), info.Size)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("empty data rejected", func(t *testing.T) {
		t.Parallel()

		_, err := PutBytes(ctx, NewMemory(), nil)
		require.ErrorIs(t, err, ErrEmptyFile)
	})
}

func TestSaveBytes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("key-based backend keeps name verbatim", func(t *testing.T) {
		t.Parallel()
		store := NewMemory()

		name, err := SaveBytes(ctx, store, `dir with space\file.txt`, []byte("x"))
		require.NoError(t, err)
		assert.Equal(t, `dir with space\file.txt`, name)
	})

	t.Run("path-based backend resolves conflicts", func(t *testing.T) {
		t.Parallel()
		store := newTestDisk(t)

		first, err := SaveBytes(ctx, store, "report.txt", []byte("a"))
		require.NoError(t, err)
		assert.Equal(t, "report.txt", first)

		second, err := SaveBytes(ctx, store, "report.txt", []byte("b"))
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("empty data rejected", func(t *testing.T) {
		t.Parallel()

		_, err := SaveBytes(ctx, NewMemory(), "name.txt", nil)
		require.ErrorIs(t, err, ErrEmptyFile)
	})
}

func TestPutFromURL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("downloads and stores", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("remote file body"))
		}))
		defer srv.Close()

		store := NewMemory()
		info, err := PutFromURL(ctx, store, srv.URL, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(16), info.Size)
	})

	t.Run("rejects invalid URL", func(t *testing.T) {
		t.Parallel()

		_, err := PutFromURL(ctx, NewMemory(), "ftp://example.com/file", 0)
		require.ErrorIs(t, err, ErrInvalidURL)
	})

	t.Run("rejects oversized download", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("a", 100)))
		}))
		defer srv.Close()

		_, err := PutFromURL(ctx, NewMemory(), srv.URL, 10)
		require.ErrorIs(t, err, ErrDownloadTooLarge)
	})

	t.Run("propagates HTTP errors", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := PutFromURL(ctx, NewMemory(), srv.URL, 0)
		require.ErrorIs(t, err, ErrDownloadFailed)
	})
}

func TestDeleteMany(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("removes all keys", func(t *testing.T) {
		t.Parallel()
		store := NewMemory()

		keys := []string{"a.txt", "b.txt", "c.txt"}
		for _, key := range keys {
			_, err := store.Save(ctx, key, strings.NewReader("x"), 1)
			require.NoError(t, err)
		}

		require.NoError(t, DeleteMany(ctx, store, keys...))
		assert.Equal(t, 0, store.Len())
	})

	t.Run("missing key surfaces ErrNotFound", func(t *testing.T) {
		t.Parallel()
		store := NewMemory()

		_, err := store.Save(ctx, "present.txt", strings.NewReader("x"), 1)
		require.NoError(t, err)

		err = DeleteMany(ctx, store, "present.txt", "missing.txt")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("no keys is a no-op", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, DeleteMany(ctx, NewMemory()))
	})
}
