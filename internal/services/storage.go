package services

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/sasikalanalagatla/File-converter/internal/models"
)

// Storage tracks every temporary artifact created for one request — uploaded
// copies, per-page raster files, merge scratch output — and deletes them all
// when the request completes, success or failure. One instance per request;
// paths never collide across requests because names are uuid-scoped.
type Storage struct {
	tempDir string
	tracked []string
	log     *slog.Logger
}

// NewStorage creates a request-scoped artifact tracker rooted at tempDir.
func NewStorage(tempDir string, log *slog.Logger) *Storage {
	if log == nil {
		log = slog.Default()
	}
	return &Storage{tempDir: tempDir, log: log}
}

// Save writes an uploaded file to a uniquely named temp file and tracks it.
func (s *Storage) Save(file models.UploadedFile) (string, error) {
	if len(file.Data) == 0 {
		return "", models.NewValidationError("file is empty: " + file.Name)
	}

	path := filepath.Join(s.tempDir, fmt.Sprintf("pdf-upload-%s.pdf", uuid.New().String()))
	if err := os.WriteFile(path, file.Data, 0o600); err != nil {
		return "", models.NewProcessingError("failed to store file "+file.Name, err)
	}

	s.tracked = append(s.tracked, path)
	s.log.Debug("Saved uploaded file temporarily.", "name", file.Name, "path", path)
	return path, nil
}

// ScratchPath reserves a tracked path for an intermediate artifact with the
// given prefix and extension. The file itself is created by the caller.
func (s *Storage) ScratchPath(prefix, ext string) string {
	path := filepath.Join(s.tempDir, fmt.Sprintf("%s-%s%s", prefix, uuid.New().String(), ext))
	s.tracked = append(s.tracked, path)
	return path
}

// Track registers an externally created path for deletion at purge time.
func (s *Storage) Track(path string) {
	s.tracked = append(s.tracked, path)
}

// PurgeAll deletes every tracked path best-effort and clears the tracked set,
// so calling it more than once per request is safe. A missing file or a
// failed delete is logged, never raised.
func (s *Storage) PurgeAll() {
	for _, path := range s.tracked {
		err := os.Remove(path)
		switch {
		case err == nil:
			s.log.Debug("Deleted temp artifact.", "path", path)
		case os.IsNotExist(err):
			// Already gone; purge is idempotent.
		default:
			s.log.Warn("Failed to delete temp artifact.", "path", path, "error", err)
		}
	}
	s.tracked = nil
}
