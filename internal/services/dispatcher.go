package services

import (
	"context"
	"log/slog"
	"os"

	"github.com/sasikalanalagatla/File-converter/internal/config"
	"github.com/sasikalanalagatla/File-converter/internal/models"
	"github.com/sasikalanalagatla/File-converter/internal/pdfutil"
)

// ConverterService owns the end-to-end request lifecycle: validate inputs,
// persist them, run the chosen operation, hand back result bytes, and purge
// every artifact regardless of outcome.
type ConverterService struct {
	config config.Config
	log    *slog.Logger
}

// NewConverter creates a ConverterService with the given configuration.
func NewConverter(cfg config.Config) *ConverterService {
	return &ConverterService{
		config: cfg,
		log:    slog.Default(),
	}
}

// Process handles one conversion request. With more than one valid input the
// operation is always a merge and the format token is ignored; with exactly
// one input the token selects the converter. Every temporary artifact created
// along the way is purged before returning, on success and on failure alike.
func (s *ConverterService) Process(ctx context.Context, files []models.UploadedFile, format string) (*models.ConversionResult, error) {
	if len(files) == 0 {
		return nil, models.NewValidationError("please upload at least one file")
	}

	storage := NewStorage(s.config.TempDir, s.log)
	defer storage.PurgeAll()

	var savedPaths []string
	for _, file := range files {
		if len(file.Data) == 0 {
			s.log.Warn("Skipping empty file in upload list.", "name", file.Name)
			continue
		}
		if !pdfutil.IsPDFName(file.Name) || !pdfutil.IsPDFContentType(file.ContentType) || !pdfutil.HasPDFMagic(file.Data) {
			return nil, models.NewValidationError("only PDF files are allowed, invalid file: " + file.Name)
		}

		path, err := storage.Save(file)
		if err != nil {
			return nil, err
		}
		savedPaths = append(savedPaths, path)
	}

	if len(savedPaths) == 0 {
		return nil, models.NewValidationError("no valid PDF files uploaded")
	}

	if len(savedPaths) > 1 {
		s.log.Info("Merging PDF files.", "count", len(savedPaths))
		data, err := s.mergePDFs(savedPaths, storage)
		if err != nil {
			return nil, err
		}
		return &models.ConversionResult{Bytes: data, Filename: models.MergedFilename}, nil
	}

	if format == "" {
		return nil, models.NewValidationError("please select a format")
	}
	target, err := models.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	path := savedPaths[0]
	logCtx := s.log.With("format", target.String(), "path", path)
	logCtx.Info("Converting PDF.")

	var data []byte
	switch target {
	case models.FormatWord:
		data, err = s.convertToWord(path)
	case models.FormatMarkdown:
		data, err = s.convertToMarkdown(path)
	case models.FormatJSON:
		data, err = s.convertToJSON(path)
	case models.FormatCSV:
		data, err = s.extractTablesAsCSV(path)
	case models.FormatJPG:
		data, err = s.convertToJPGArchive(ctx, path, storage)
	case models.FormatMergeNoop:
		data, err = os.ReadFile(path)
		if err != nil {
			err = models.NewProcessingError("failed to read original file", err)
		}
	case models.FormatCompress:
		data, err = s.compressPDF(path)
	}
	if err != nil {
		return nil, err
	}

	logCtx.Info("Conversion completed.", "bytes", len(data))
	return &models.ConversionResult{Bytes: data, Filename: target.OutputFilename()}, nil
}
