// Package uploads stores item images on local disk and serves them back.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/erazemk/inventory/internal/imaging"
	"github.com/erazemk/inventory/internal/metrics"
)

// URLPrefix is the path under which stored files are served.
const URLPrefix = "/uploads/"

const tempPrefix = ".tmp-"

// ErrInvalidImage is returned by Save when the content cannot be decoded.
var ErrInvalidImage = errors.New("invalid image")

// Store is a flat directory of uploaded files.
type Store struct {
	dir string
}

// New returns a Store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save processes the image in r, writes it under a fresh name and returns
// its public URL.
func (s *Store) Save(r io.Reader) (string, error) {
	img, err := imaging.Process(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	name := uuid.NewString() + img.Ext
	tmp, err := os.CreateTemp(s.dir, tempPrefix+"*")
	if err != nil {
		return "", fmt.Errorf("creating upload: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(img.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("storing upload: %w", err)
	}

	metrics.UploadOperations.WithLabelValues("save").Inc()
	metrics.UploadBytes.Add(float64(len(img.Data)))
	slog.Info("upload stored", "name", name, "mime", img.MIME, "bytes", len(img.Data))
	return URLPrefix + name, nil
}

// Delete removes the file behind url. Missing files are not an error.
func (s *Store) Delete(url string) error {
	name, ok := nameFromURL(url)
	if !ok {
		return fmt.Errorf("not an upload URL: %q", url)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting upload: %w", err)
	}
	metrics.UploadOperations.WithLabelValues("delete").Inc()
	return nil
}

// Count returns the number of stored files.
func (s *Store) Count() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("listing uploads: %w", err)
	}
	n := 0
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), tempPrefix) {
			n++
		}
	}
	return n, nil
}

// ServeHTTP serves GET /uploads/{name}.
func (s *Store) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !validName(name) {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; img-src 'self'; style-src 'unsafe-inline'")
	http.ServeFile(w, r, filepath.Join(s.dir, name))
}

func nameFromURL(url string) (string, bool) {
	name, ok := strings.CutPrefix(url, URLPrefix)
	return name, ok && validName(name)
}

func validName(name string) bool {
	return name != "" && !strings.HasPrefix(name, ".") &&
		filepath.Base(name) == name && !strings.ContainsAny(name, `/\`)
}
