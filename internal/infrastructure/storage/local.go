// Package storage holds the FileStore implementations for uploaded images.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctvnews/newsroom/internal/metrics"
)

// PublicPrefix is the URL path under which the local store is served.
const PublicPrefix = "/uploads"

// Local writes uploads into a directory served by the HTTP layer.
type Local struct {
	dir string
}

// NewLocal prepares dir and returns a Local store rooted there.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Dir returns the directory files are written to.
func (l *Local) Dir() string { return l.dir }

func (l *Local) Put(ctx context.Context, name, _ string, body io.Reader, _ int64) (string, error) {
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(l.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: %w", name, err)
	}

	metrics.UploadBytes.Observe(float64(n))
	return PublicPrefix + "/" + name, nil
}
