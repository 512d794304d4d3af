package uploads

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func TestSaveCountDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	url, err := s.Save(bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, URLPrefix))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	n, _ = s.Count()
	assert.Equal(t, 1, n)
	_, err = os.Stat(filepath.Join(dir, strings.TrimPrefix(url, URLPrefix)))
	require.NoError(t, err)

	require.NoError(t, s.Delete(url))
	n, _ = s.Count()
	assert.Equal(t, 0, n)

	// Deleting again is fine.
	assert.NoError(t, s.Delete(url))
}

func TestSaveRejectsNonImage(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = s.Save(strings.NewReader("#!/bin/sh\necho hi\n"))
	assert.ErrorIs(t, err, ErrInvalidImage)

	n, _ := s.Count()
	assert.Equal(t, 0, n, "rejected uploads leave nothing behind")
}

func TestDeleteRejectsForeignPaths(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	for _, url := range []string{"/etc/passwd", "/uploads/../x", "/uploads/", "/uploads/.hidden"} {
		assert.Error(t, s.Delete(url), url)
	}
}

func TestServeHTTP(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	url, err := s.Save(bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle("GET /uploads/{name}", s)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/missing.jpg", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
