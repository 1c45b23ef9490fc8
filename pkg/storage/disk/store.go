package disk

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists uploaded blobs on the local filesystem. Each blob is written
// under a freshly generated UUID prefix, so concurrent uploads never collide
// and public paths never repeat. Rows in the database reference blobs by
// public path only; nothing here enforces referential integrity.
type Store struct {
	dir          string
	publicPrefix string
}

// New builds a disk store rooted at dir, exposing blobs under publicPrefix.
func New(dir, publicPrefix string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage dir is required")
	}
	prefix := strings.TrimSuffix(publicPrefix, "/")
	if prefix == "" {
		prefix = "/images"
	}
	return &Store{dir: dir, publicPrefix: prefix}, nil
}

// Dir returns the filesystem root backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// PublicPrefix returns the URL prefix the stored blobs are served under.
func (s *Store) PublicPrefix() string {
	return s.publicPrefix
}

// Save writes the blob to disk under "<uuid>_<filename>" and returns the
// public-relative path to record in the database. The directory is created on
// demand; nothing is recorded when the write fails.
func (s *Store) Save(ctx context.Context, fileName string, src io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating storage dir: %w", err)
	}

	uniqueName := fmt.Sprintf("%s_%s", uuid.NewString(), sanitizeFileName(fileName))
	absPath := filepath.Join(s.dir, uniqueName)

	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("creating blob file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(absPath)
		return "", fmt.Errorf("writing blob file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(absPath)
		return "", fmt.Errorf("closing blob file: %w", err)
	}

	return s.publicPrefix + "/" + uniqueName, nil
}

// Remove deletes the blob referenced by a public path. A missing file is not
// an error: deletion is best-effort and must stay idempotent.
func (s *Store) Remove(ctx context.Context, publicPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(publicPath) == "" {
		return nil
	}

	fileName := path.Base(strings.TrimPrefix(publicPath, "/"))
	if fileName == "" || fileName == "." || fileName == "/" {
		return nil
	}

	if err := os.Remove(filepath.Join(s.dir, fileName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing blob file: %w", err)
	}
	return nil
}

// sanitizeFileName keeps only the base name and drops path separators so a
// crafted filename cannot escape the storage directory.
func sanitizeFileName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "" || base == "." || base == "/" {
		return "upload"
	}
	return base
}
