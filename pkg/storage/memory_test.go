package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_KeysAreOpaque(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemory()

	t.Run("valid name is identity", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{
			"plain.txt",
			"with space.txt",
			`odd\key with\backslashes`,
			"nested/looking/key.bin",
		} {
			assert.Equal(t, name, store.ValidName(name))
		}
	})

	t.Run("available name is identity", func(t *testing.T) {
		t.Parallel()

		got, err := store.AvailableName(ctx, "taken.txt", 5)
		require.NoError(t, err)
		assert.Equal(t, "taken.txt", got)
	})

	t.Run("save keeps the key verbatim", func(t *testing.T) {
		t.Parallel()
		s := NewMemory()

		key := `my-file-key\with odd characters`
		name, err := s.Save(ctx, key, strings.NewReader("content"), 7)
		require.NoError(t, err)
		require.Equal(t, key, name)

		rc, err := s.Get(ctx, key)
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "content", string(data))
	})

	t.Run("save overwrites existing key", func(t *testing.T) {
		t.Parallel()
		s := NewMemory()

		_, err := s.Save(ctx, "same.txt", strings.NewReader("first"), 5)
		require.NoError(t, err)
		_, err = s.Save(ctx, "same.txt", strings.NewReader("second"), 6)
		require.NoError(t, err)

		rc, err := s.Get(ctx, "same.txt")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))
		assert.Equal(t, 1, s.Len())
	})

	t.Run("empty name rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewMemory().Save(ctx, "", strings.NewReader("x"), 1)
		require.ErrorIs(t, err, ErrEmptyName)
	})
}

func TestMemoryStorage_GenerateFilename(t *testing.T) {
	t.Parallel()

	t.Run("prefix plus literal folder plus name", func(t *testing.T) {
		t.Parallel()
		store := NewMemory(WithMemoryKeyPrefix("mys3folder/"))

		got := store.GenerateFilename(nil,
			Target{Path: "not/a/folder/"},
			`my-file-key\with odd characters`,
		)
		assert.Equal(t, `mys3folder/not/a/folder/my-file-key\with odd characters`, got)
	})

	t.Run("callable target bypasses path handling", func(t *testing.T) {
		t.Parallel()
		store := NewMemory(WithMemoryKeyPrefix("mys3folder/"))

		got := store.GenerateFilename(nil,
			Target{Func: func(_ any, filename string) string {
				return "not/a/folder/" + filename
			}},
			`my-file-key\with odd characters`,
		)
		assert.Equal(t, `mys3folder/not/a/folder/my-file-key\with odd characters`, got)
	})
}

func TestMemoryStorage_DeleteAndList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("delete missing key", func(t *testing.T) {
		t.Parallel()

		err := NewMemory().Delete(ctx, "missing")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list filters by prefix", func(t *testing.T) {
		t.Parallel()
		store := NewMemory()

		for _, key := range []string{"a/1.txt", "a/2.txt", "b/3.txt"} {
			_, err := store.Save(ctx, key, strings.NewReader("x"), 1)
			require.NoError(t, err)
		}

		infos, err := store.List(ctx, "a/")
		require.NoError(t, err)
		require.Len(t, infos, 2)
		for _, info := range infos {
			assert.True(t, strings.HasPrefix(info.Key, "a/"))
			assert.False(t, info.ModTime.IsZero())
		}
	})
}

func TestMemoryStorage_URL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("with base URL", func(t *testing.T) {
		t.Parallel()
		store := NewMemory(WithMemoryBaseURL("https://cdn.test/"))

		u, err := store.URL(ctx, "a/b.txt")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.test/a/b.txt", u)
	})

	t.Run("without base URL", func(t *testing.T) {
		t.Parallel()

		_, err := NewMemory().URL(ctx, "a/b.txt")
		require.ErrorIs(t, err, ErrURLNotConfigured)
	})
}

func TestMemoryStorage_Put(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("detects content type", func(t *testing.T) {
		t.Parallel()
		store := NewMemory()

		info, err := store.Put(ctx, strings.NewReader("%PDF-1.4 fake"), 13)
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", info.ContentType)
		assert.True(t, strings.HasSuffix(info.Key, ".pdf"), "key %q", info.Key)
	})

	t.Run("validation applies", func(t *testing.T) {
		t.Parallel()
		store := NewMemory()

		_, err := store.Put(ctx, strings.NewReader(""), 0,
			WithValidation(NotEmpty()),
		)
		var verr *FileValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, ErrCodeEmptyFile, verr.Code)
	})
}
