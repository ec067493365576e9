package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sharelist/core/internal/infrastructure/config"
)

func newTestStore(t *testing.T) *UploadStore {
	t.Helper()
	store, err := NewUploadStore(config.UploadsConfig{
		Dir:        t.TempDir(),
		MaxSizeMB:  1,
		PublicPath: "/uploads",
	})
	if err != nil {
		t.Fatalf("new upload store: %v", err)
	}
	return store
}

func TestSaveWritesFileUnderGeneratedName(t *testing.T) {
	store := newTestStore(t)

	publicPath, err := store.Save("photo.PNG", 4, strings.NewReader("data"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if !strings.HasPrefix(publicPath, "/uploads/") {
		t.Fatalf("expected public path under /uploads, got %q", publicPath)
	}
	if !strings.HasSuffix(publicPath, ".png") {
		t.Fatalf("expected lowercased extension, got %q", publicPath)
	}
	if strings.Contains(publicPath, "photo") {
		t.Fatalf("original filename leaked into %q", publicPath)
	}

	onDisk := filepath.Join(store.Dir(), filepath.Base(publicPath))
	content, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(content) != "data" {
		t.Fatalf("stored content mismatch: %q", content)
	}
}

func TestSaveRejectsUnsupportedExtension(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Save("malware.exe", 4, strings.NewReader("data")); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestSaveRejectsOversizedUpload(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Save("big.png", 2<<20, strings.NewReader("x")); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge for declared size, got %v", err)
	}

	// A client under-declaring the size is caught while streaming.
	oversized := strings.NewReader(strings.Repeat("x", (1<<20)+1))
	if _, err := store.Save("big.png", 10, oversized); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge for actual size, got %v", err)
	}

	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("rejected uploads left %d files behind", len(entries))
	}
}
