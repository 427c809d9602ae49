package services

import (
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/sasikalanalagatla/File-converter/internal/models"
	"github.com/sasikalanalagatla/File-converter/internal/pdfutil"
)

// mergePDFs concatenates the pages of the given PDFs in input order into one
// document and returns its bytes. The dispatcher only calls this with two or
// more inputs; a single input is still handled by returning its bytes
// unchanged. The scratch output file is tracked, so a failed merge leaves no
// artifact behind.
func (s *ConverterService) mergePDFs(paths []string, storage *Storage) ([]byte, error) {
	if len(paths) == 1 {
		data, err := os.ReadFile(paths[0])
		if err != nil {
			return nil, models.NewProcessingError("merge failed", err)
		}
		return data, nil
	}

	outPath := storage.ScratchPath("merged", ".pdf")
	if err := api.MergeCreateFile(paths, outPath, false, pdfutil.RelaxedConfiguration()); err != nil {
		return nil, models.NewProcessingError("merge failed", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, models.NewProcessingError("merge failed", err)
	}

	pageCount, err := pdfutil.PageCount(outPath)
	if err != nil {
		pageCount = -1 // observability only, never fails the merge
	}
	s.log.Info("Merged PDF files.", "inputs", len(paths), "pages", pageCount, "bytes", len(data))
	return data, nil
}
