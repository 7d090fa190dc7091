package storage

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtFromMIME(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mimeType string
		want     string
	}{
		{"image/jpeg", ".jpg"},
		{"image/png", ".png"},
		{"application/pdf", ".pdf"},
		{"text/plain", ".txt"},
		{"text/plain; charset=utf-8", ".txt"},
		{"IMAGE/PNG", ".png"},
		{"application/unknown", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExtFromMIME(tt.mimeType))
		})
	}
}

func TestDetectMIMEFromReader(t *testing.T) {
	t.Parallel()

	t.Run("png magic bytes", func(t *testing.T) {
		t.Parallel()
		data := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
		assert.Equal(t, "image/png", detectMIMEFromReader(bytes.NewReader(data)))
	})

	t.Run("pdf magic bytes", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "application/pdf", detectMIMEFromReader(strings.NewReader("%PDF-1.4")))
	})

	t.Run("plain text", func(t *testing.T) {
		t.Parallel()
		got := detectMIMEFromReader(strings.NewReader("just some text"))
		assert.True(t, strings.HasPrefix(got, "text/plain"), "got %q", got)
	})

	t.Run("empty reader", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, MIMEOctetStream, detectMIMEFromReader(strings.NewReader("")))
	})
}

func TestDetectMIMEWithReader(t *testing.T) {
	t.Parallel()

	t.Run("seekable reader rewinds", func(t *testing.T) {
		t.Parallel()

		r := strings.NewReader("%PDF-1.4 body")
		mimeType, rs := detectMIMEWithReader(r)
		assert.Equal(t, "application/pdf", mimeType)

		data, err := io.ReadAll(rs)
		assert.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 body", string(data))
	})

	t.Run("non-seekable reader buffers everything", func(t *testing.T) {
		t.Parallel()

		r := io.NopCloser(strings.NewReader("%PDF-1.4 body"))
		mimeType, rs := detectMIMEWithReader(r)
		assert.Equal(t, "application/pdf", mimeType)

		data, err := io.ReadAll(rs)
		assert.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 body", string(data))
	})
}

func TestNormalizeMIME(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text/plain", normalizeMIME("text/plain; charset=utf-8"))
	assert.Equal(t, "image/png", normalizeMIME(" IMAGE/PNG "))
	assert.Equal(t, "", normalizeMIME(""))
}

func TestMatchesMIME(t *testing.T) {
	t.Parallel()

	assert.True(t, matchesMIME("image/png", []string{"image/*"}))
	assert.True(t, matchesMIME("application/pdf; q=1", []string{"application/pdf"}))
	assert.False(t, matchesMIME("video/mp4", []string{"image/*", "application/pdf"}))
	assert.False(t, matchesMIME("image/png", nil))
}
