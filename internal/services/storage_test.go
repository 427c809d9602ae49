package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sasikalanalagatla/File-converter/internal/models"
)

func TestStorageSaveAndPurge(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorage(dir, nil)

	path, err := storage.Save(models.UploadedFile{Name: "doc.pdf", Data: []byte("%PDF-1.4 test")})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}

	storage.PurgeAll()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still exists after purge: %s", path)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir not empty after purge: %d entries", len(entries))
	}
}

func TestStorageSaveRejectsEmpty(t *testing.T) {
	storage := NewStorage(t.TempDir(), nil)

	_, err := storage.Save(models.UploadedFile{Name: "empty.pdf"})
	if err == nil {
		t.Fatal("expected error for empty payload")
	}
	if !models.IsValidation(err) {
		t.Errorf("expected validation error, got %T", err)
	}
}

func TestPurgeAllIdempotent(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorage(dir, nil)

	if _, err := storage.Save(models.UploadedFile{Name: "doc.pdf", Data: []byte("%PDF-1.4")}); err != nil {
		t.Fatal(err)
	}

	// Calling purge repeatedly must never error or panic, even when files are
	// already gone.
	storage.PurgeAll()
	storage.PurgeAll()
	storage.PurgeAll()
}

func TestPurgeAllToleratesMissingFiles(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorage(dir, nil)

	storage.Track(filepath.Join(dir, "never-created.pdf"))
	storage.PurgeAll() // must not panic or error
}

func TestScratchPathIsTracked(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorage(dir, nil)

	path := storage.ScratchPath("merged", ".pdf")
	if err := os.WriteFile(path, []byte("scratch"), 0o600); err != nil {
		t.Fatal(err)
	}

	storage.PurgeAll()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("scratch file survived purge: %s", path)
	}
}

func TestScratchPathsAreUnique(t *testing.T) {
	storage := NewStorage(t.TempDir(), nil)

	a := storage.ScratchPath("jpg-page-1", ".jpg")
	b := storage.ScratchPath("jpg-page-1", ".jpg")
	if a == b {
		t.Errorf("scratch paths collide: %s", a)
	}
}
