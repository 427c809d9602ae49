package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"io"
	"os"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/sync/errgroup"

	"github.com/sasikalanalagatla/File-converter/internal/models"
)

// pageJPEGQuality is the encode quality for page rasters. These are
// screenshots of whole pages, not print masters, so a high-but-lossy setting
// is enough.
const pageJPEGQuality = 90

// convertToJPGArchive rasterizes each page at the configured DPI in RGB,
// encodes it as JPEG into a tracked temp file, and collects all page images
// into one ZIP, one entry per page, 1-based. Pages render concurrently but
// the archive is assembled in page order. Any rasterization failure aborts
// the request; the tracked per-page files are purged with the rest of the
// request's artifacts.
func (s *ConverterService) convertToJPGArchive(ctx context.Context, path string, storage *Storage) ([]byte, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, models.NewProcessingError("failed to open PDF for rendering", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, models.NewProcessingError("PDF has no pages", nil)
	}

	// Reserve all page paths up front so tracking stays single-goroutine.
	pagePaths := make([]string, pageCount)
	for i := range pagePaths {
		pagePaths[i] = storage.ScratchPath(fmt.Sprintf("jpg-page-%d", i+1), ".jpg")
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.config.RasterWorkers)

	for i := 0; i < pageCount; i++ {
		pageIndex := i
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := doc.ImageDPI(pageIndex, s.config.RasterDPI)
			if err != nil {
				return fmt.Errorf("page %d: render failed: %w", pageIndex+1, err)
			}
			out, err := os.Create(pagePaths[pageIndex])
			if err != nil {
				return fmt.Errorf("page %d: %w", pageIndex+1, err)
			}
			err = jpeg.Encode(out, img, &jpeg.Options{Quality: pageJPEGQuality})
			if cerr := out.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("page %d: encode failed: %w", pageIndex+1, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, models.NewProcessingError("page rendering failed", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, pagePath := range pagePaths {
		entry, err := zw.Create(fmt.Sprintf("page-%d.jpg", i+1))
		if err != nil {
			return nil, models.NewProcessingError("zip archive failed", err)
		}
		src, err := os.Open(pagePath)
		if err != nil {
			return nil, models.NewProcessingError("zip archive failed", err)
		}
		_, err = io.Copy(entry, src)
		src.Close()
		if err != nil {
			return nil, models.NewProcessingError("zip archive failed", err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, models.NewProcessingError("zip archive failed", err)
	}

	s.log.Info("Rendered pages to JPG archive.", "pages", pageCount, "bytes", buf.Len())
	return buf.Bytes(), nil
}
