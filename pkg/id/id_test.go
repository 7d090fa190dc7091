package id_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filestore/pkg/id"
)

func TestNewULID(t *testing.T) {
	t.Parallel()

	t.Run("length and alphabet", func(t *testing.T) {
		t.Parallel()

		ulid := id.NewULID()
		require.Len(t, ulid, 26)
		for _, c := range ulid {
			assert.Contains(t, "0123456789ABCDEFGHJKMNPQRSTVWXYZ", string(c))
		}
	})

	t.Run("unique across calls", func(t *testing.T) {
		t.Parallel()

		seen := make(map[string]bool)
		for range 1000 {
			ulid := id.NewULID()
			require.False(t, seen[ulid], "duplicate ULID: %s", ulid)
			seen[ulid] = true
		}
	})

	t.Run("sortable by creation time", func(t *testing.T) {
		t.Parallel()

		first := id.NewULID()
		time.Sleep(2 * time.Millisecond)
		second := id.NewULID()

		assert.Less(t, first, second)
	})
}

func TestNewSuffix(t *testing.T) {
	t.Parallel()

	t.Run("requested length", func(t *testing.T) {
		t.Parallel()

		for _, n := range []int{1, 7, 32} {
			assert.Len(t, id.NewSuffix(n), n)
		}
	})

	t.Run("lowercase alphabet", func(t *testing.T) {
		t.Parallel()

		s := id.NewSuffix(64)
		assert.Equal(t, strings.ToLower(s), s)
	})

	t.Run("non-positive length yields empty", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, id.NewSuffix(0))
		assert.Empty(t, id.NewSuffix(-3))
	})
}
