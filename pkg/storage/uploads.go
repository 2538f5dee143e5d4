package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadStore persists uploaded files on disk under a base directory and
// exposes them through a public URL path (e.g. /uploads/<name>).
type UploadStore struct {
	baseDir    string
	publicPath string
}

// NewUploadStore ensures the base directory exists and returns a handle.
func NewUploadStore(baseDir, publicPath string) (*UploadStore, error) {
	if baseDir == "" {
		baseDir = "./public/uploads"
	}
	if publicPath == "" {
		publicPath = "/uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &UploadStore{baseDir: baseDir, publicPath: strings.TrimRight(publicPath, "/")}, nil
}

// SaveStream stores the reader under a generated unique name, keeping the
// original extension, and returns the public path to persist alongside the
// record.
func (s *UploadStore) SaveStream(originalName string, r io.Reader) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	target := filepath.Join(s.baseDir, name)

	file, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer file.Close() //nolint:errcheck

	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("write upload stream: %w", err)
	}

	return path.Join(s.publicPath, name), nil
}

// Delete removes a stored file by its public path, ignoring missing files.
func (s *UploadStore) Delete(publicPath string) error {
	name := path.Base(publicPath)
	if name == "." || name == "/" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.baseDir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}

// Dir exposes the serving directory for static mounting.
func (s *UploadStore) Dir() string {
	return s.baseDir
}

// PublicPath returns the URL prefix uploads are served under.
func (s *UploadStore) PublicPath() string {
	return s.publicPath
}
