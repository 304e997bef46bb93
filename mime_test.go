package uploadkit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectMIME(t *testing.T) {
	t.Parallel()

	t.Run("png magic bytes", func(t *testing.T) {
		t.Parallel()

		file := NewFileFromBytes("anything.bin", "application/octet-stream", pngHeader)
		assert.Equal(t, "image/png", DetectMIME(file))
	})

	t.Run("declared type is ignored", func(t *testing.T) {
		t.Parallel()

		file := NewFileFromBytes("fake.png", "image/png", []byte("plain text body"))
		got := DetectMIME(file)
		assert.Equal(t, "text/plain", normalizeMIME(got))
	})

	t.Run("nil file", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, MIMEOctetStream, DetectMIME(nil))
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()

		file := NewFileFromBytes("empty", "", nil)
		assert.Equal(t, MIMEOctetStream, DetectMIME(file))
	})

	t.Run("short content still detected", func(t *testing.T) {
		t.Parallel()

		got := detectMIMEFromReader(strings.NewReader("%PDF-1.7\n"))
		assert.Equal(t, "application/pdf", normalizeMIME(got))
	})
}

func TestExtFromMIME(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".png", ExtFromMIME("image/png"))
	assert.Equal(t, ".txt", ExtFromMIME("text/plain; charset=utf-8"))
	assert.Equal(t, ".jpg", ExtFromMIME("IMAGE/JPEG"))
	assert.Equal(t, "", ExtFromMIME("application/x-unknown"))
}

func TestMatchesMIME(t *testing.T) {
	t.Parallel()

	require.True(t, matchesMIME("image/png", []string{"image/png"}))
	require.True(t, matchesMIME("image/png; charset=binary", []string{"image/png"}))
	require.True(t, matchesMIME("image/webp", []string{"image/*"}))
	require.True(t, matchesMIME("IMAGE/PNG", []string{"image/png"}))
	require.False(t, matchesMIME("application/pdf", []string{"image/*"}))
	require.False(t, matchesMIME("image/png", nil))
}
