package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPutOptions(t *testing.T) {
	t.Parallel()

	t.Run("defaults carry the backend ACL", func(t *testing.T) {
		t.Parallel()

		o := newPutOptions(ACLPrivate)
		assert.Equal(t, ACLPrivate, o.acl)
		assert.Empty(t, o.key)
		assert.Empty(t, o.prefix)
		assert.Empty(t, o.tenant)
		assert.Empty(t, o.contentType)
		assert.Empty(t, o.validationRules)
	})

	t.Run("all options apply", func(t *testing.T) {
		t.Parallel()

		o := newPutOptions(ACLPrivate,
			WithKey("explicit/key.txt"),
			WithPrefix("avatars"),
			WithTenant("tenant1"),
			WithContentType("image/png"),
			WithACL(ACLPublicRead),
			WithValidation(MaxSize(10), ImageOnly()),
		)

		assert.Equal(t, "explicit/key.txt", o.key)
		assert.Equal(t, "avatars", o.prefix)
		assert.Equal(t, "tenant1", o.tenant)
		assert.Equal(t, "image/png", o.contentType)
		assert.Equal(t, ACLPublicRead, o.acl)
		assert.Len(t, o.validationRules, 2)
	})

	t.Run("WithValidation accumulates", func(t *testing.T) {
		t.Parallel()

		o := newPutOptions(ACLPrivate,
			WithValidation(MaxSize(10)),
			WithValidation(NotEmpty()),
		)
		assert.Len(t, o.validationRules, 2)
	})
}

func TestURLOptions(t *testing.T) {
	t.Parallel()

	t.Run("default expiry applies", func(t *testing.T) {
		t.Parallel()

		o := newURLOptions()
		assert.Equal(t, DefaultURLExpiry, o.expiry)
		assert.False(t, o.forceSigned)
		assert.False(t, o.forcePublic)
	})

	t.Run("WithDownload implies signed", func(t *testing.T) {
		t.Parallel()

		o := newURLOptions(WithDownload("report.pdf"))
		assert.Equal(t, "report.pdf", o.downloadName)
		assert.True(t, o.forceSigned)
	})

	t.Run("WithSigned keeps default expiry on zero", func(t *testing.T) {
		t.Parallel()

		o := newURLOptions(WithSigned(0))
		assert.True(t, o.forceSigned)
		assert.Equal(t, DefaultURLExpiry, o.expiry)

		o = newURLOptions(WithSigned(time.Hour))
		assert.Equal(t, time.Hour, o.expiry)
	})

	t.Run("WithExpiry and WithPublic", func(t *testing.T) {
		t.Parallel()

		o := newURLOptions(WithExpiry(5*time.Minute), WithPublic())
		assert.Equal(t, 5*time.Minute, o.expiry)
		assert.True(t, o.forcePublic)
	})
}
