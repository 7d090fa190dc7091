package upload

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filestore/pkg/storage"
)

func newDiskField(t *testing.T, opts ...Option) *Field {
	t.Helper()

	store, err := storage.NewDisk(storage.DiskConfig{Root: t.TempDir()})
	require.NoError(t, err)

	return New(store, opts...)
}

func TestField_GenerateFilename(t *testing.T) {
	t.Parallel()

	t.Run("literal target sanitizes the filename", func(t *testing.T) {
		t.Parallel()

		f := newDiskField(t, To("some/folder/"))
		got := f.GenerateFilename(nil, "test with space.txt")
		assert.Equal(t, "some/folder/test_with_space.txt", got)
	})

	t.Run("callable target sanitizes the filename", func(t *testing.T) {
		t.Parallel()

		f := newDiskField(t, ToFunc(func(_ any, filename string) string {
			return "some/folder/" + filename
		}))
		got := f.GenerateFilename(nil, "test with space.txt")
		assert.Equal(t, "some/folder/test_with_space.txt", got)
	})

	t.Run("callable receives the owning record", func(t *testing.T) {
		t.Parallel()

		type account struct{ ID string }

		f := newDiskField(t, ToFunc(func(owner any, filename string) string {
			return "users/" + owner.(account).ID + "/" + filename
		}))
		got := f.GenerateFilename(account{ID: "42"}, "resume.pdf")
		assert.Equal(t, "users/42/resume.pdf", got)
	})

	t.Run("literal target expands strftime directives", func(t *testing.T) {
		t.Parallel()

		fixed := time.Date(2024, 5, 9, 12, 30, 0, 0, time.UTC)
		f := newDiskField(t,
			To("reports/%Y/%m/%d/"),
			withNow(func() time.Time { return fixed }),
		)
		got := f.GenerateFilename(nil, "summary.txt")
		assert.Equal(t, "reports/2024/05/09/summary.txt", got)
	})

	t.Run("no target keeps the bare filename", func(t *testing.T) {
		t.Parallel()

		f := newDiskField(t)
		assert.Equal(t, "notes.txt", f.GenerateFilename(nil, "notes.txt"))
	})

	t.Run("diacritics fold to ascii on disk storage", func(t *testing.T) {
		t.Parallel()

		f := newDiskField(t, To("docs/"))
		assert.Equal(t, "docs/resume.pdf", f.GenerateFilename(nil, "résumé.pdf"))
	})
}

func TestField_GenerateFilename_KeyBased(t *testing.T) {
	t.Parallel()

	const (
		prefix = "mys3folder/"
		folder = "not/a/folder/"
		key    = `my-file-key\with odd characters`
	)

	t.Run("literal target keeps the key verbatim", func(t *testing.T) {
		t.Parallel()

		store := storage.NewMemory(storage.WithMemoryKeyPrefix(prefix))
		f := New(store, To(folder))

		got := f.GenerateFilename(nil, key)
		assert.Equal(t, prefix+folder+key, got)
	})

	t.Run("callable target keeps the key verbatim", func(t *testing.T) {
		t.Parallel()

		store := storage.NewMemory(storage.WithMemoryKeyPrefix(prefix))
		f := New(store, ToFunc(func(_ any, filename string) string {
			// Deliberately non-normalized path.
			return folder + filename
		}))

		got := f.GenerateFilename(nil, key)
		assert.Equal(t, prefix+folder+key, got)
	})

	t.Run("save returns the generated key unchanged", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := storage.NewMemory(storage.WithMemoryKeyPrefix(prefix))
		f := New(store, To(folder))

		name := f.GenerateFilename(nil, key)
		require.Equal(t, prefix+folder+key, name)

		saved, err := store.Save(ctx, name, strings.NewReader("test"), 4)
		require.NoError(t, err)
		assert.Equal(t, prefix+folder+key, saved)

		rc, err := store.Get(ctx, saved)
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "test", string(data))
	})
}

func TestField_Save(t *testing.T) {
	t.Parallel()

	t.Run("persists and returns the stored name", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store, err := storage.NewDisk(storage.DiskConfig{Root: t.TempDir()})
		require.NoError(t, err)
		f := New(store, To("some/folder/"))

		name, err := f.Save(ctx, nil, "test with space.txt", strings.NewReader("hello"), 5)
		require.NoError(t, err)
		assert.Equal(t, "some/folder/test_with_space.txt", name)

		rc, err := store.Get(ctx, name)
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("conflicting name gets a suffix", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store, err := storage.NewDisk(storage.DiskConfig{Root: t.TempDir()})
		require.NoError(t, err)
		f := New(store, To("inbox/"))

		first, err := f.Save(ctx, nil, "report.txt", strings.NewReader("one"), 3)
		require.NoError(t, err)
		require.Equal(t, "inbox/report.txt", first)

		second, err := f.Save(ctx, nil, "report.txt", strings.NewReader("two"), 3)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
		assert.True(t, strings.HasPrefix(second, "inbox/report_"), "got %q", second)
		assert.True(t, strings.HasSuffix(second, ".txt"), "got %q", second)
	})

	t.Run("max length truncates the stem", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store, err := storage.NewDisk(storage.DiskConfig{Root: t.TempDir()})
		require.NoError(t, err)
		f := New(store, MaxLength(16))

		name, err := f.Save(ctx, nil, "a_very_long_report_name.txt", strings.NewReader("x"), 1)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(name), 16)
		assert.True(t, strings.HasSuffix(name, ".txt"), "got %q", name)
	})
}
