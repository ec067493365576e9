package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/sharelist/core/internal/infrastructure/config"
)

var (
	// ErrFileTooLarge is returned when an upload exceeds the configured cap.
	ErrFileTooLarge = errors.New("uploaded file exceeds size limit")
	// ErrUnsupportedType is returned for extensions outside the allow list.
	ErrUnsupportedType = errors.New("unsupported file type")
)

var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

// UploadStore writes task images to the local filesystem and hands back the
// public path the task row persists verbatim.
type UploadStore struct {
	dir        string
	publicPath string
	maxBytes   int64
}

// NewUploadStore creates the upload directory if needed.
func NewUploadStore(cfg config.UploadsConfig) (*UploadStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}

	return &UploadStore{
		dir:        cfg.Dir,
		publicPath: cfg.PublicPath,
		maxBytes:   cfg.MaxSizeMB << 20,
	}, nil
}

// Dir returns the on-disk directory backing the store.
func (s *UploadStore) Dir() string {
	return s.dir
}

// PublicPath returns the URL prefix the stored files are served under.
func (s *UploadStore) PublicPath() string {
	return s.publicPath
}

// Save streams an uploaded file to disk under a generated name and returns
// its public path. The original filename only contributes its extension.
func (s *UploadStore) Save(originalName string, size int64, r io.Reader) (string, error) {
	if size > s.maxBytes {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", ErrUnsupportedType
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	// LimitReader guards against clients lying about the declared size.
	written, err := io.Copy(dst, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if written > s.maxBytes {
		os.Remove(dst.Name())
		return "", ErrFileTooLarge
	}

	return path.Join(s.publicPath, name), nil
}
