package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/sasikalanalagatla/File-converter/internal/config"
	"github.com/sasikalanalagatla/File-converter/internal/models"
	"github.com/sasikalanalagatla/File-converter/internal/services"
)

// maxUploadBytes caps the in-memory part of the multipart parse.
const maxUploadBytes = 64 << 20

var (
	converterInstance *services.ConverterService
	once              sync.Once
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Register the HTTP function with the framework.
	functions.HTTP("ConvertPDF", handleConvert)
}

func main() {
	port := config.GetEnv("PORT", "8080")
	if err := funcframework.Start(port); err != nil {
		slog.Error("Server failed.", "error", err)
		os.Exit(1)
	}
}

// handleConvert is the HTTP handler for the conversion endpoint. It decodes
// the multipart upload, delegates to the converter service, and streams the
// result back as a binary attachment.
func handleConvert(w http.ResponseWriter, r *http.Request) {
	// Use sync.Once for robust, one-time initialization of the service.
	once.Do(func() {
		converterInstance = services.NewConverter(config.Load())
	})

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use POST with multipart form data")
		return
	}

	files, format, err := decodeUpload(r)
	if err != nil {
		slog.Error("Could not decode upload.", "error", err)
		writeError(w, http.StatusBadRequest, "could not parse multipart upload")
		return
	}

	result, err := converterInstance.Process(r.Context(), files, format)
	if err != nil {
		if models.IsValidation(err) {
			slog.Warn("Request rejected.", "error", err)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("Processing failed.", "error", err)
		writeError(w, http.StatusInternalServerError, "processing failed: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	if _, err := w.Write(result.Bytes); err != nil {
		slog.Error("Failed to write response.", "filename", result.Filename, "error", err)
	}
}

// decodeUpload reads the repeated "file" field and the optional "format"
// value from the multipart form.
func decodeUpload(r *http.Request) ([]models.UploadedFile, string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, "", err
	}

	var files []models.UploadedFile
	for _, header := range r.MultipartForm.File["file"] {
		part, err := header.Open()
		if err != nil {
			return nil, "", err
		}
		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, "", err
		}
		files = append(files, models.UploadedFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	return files, r.FormValue("format"), nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(models.ErrorResponse{Error: message}); err != nil {
		slog.Error("Failed to encode error response.", "error", err)
	}
}
