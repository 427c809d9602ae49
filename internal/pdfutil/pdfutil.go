// Package pdfutil holds small helpers shared by the conversion services.
// Container parsing itself is delegated to the PDF libraries; nothing here
// reimplements it.
package pdfutil

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var pdfMagic = []byte("%PDF-")

// IsPDFName reports whether a declared filename carries the canonical
// extension.
func IsPDFName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// IsPDFContentType reports whether a content-type hint, when present, matches
// the expected MIME type. An absent hint is accepted.
func IsPDFContentType(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	return mediaType == "application/pdf" || mediaType == "application/octet-stream"
}

// HasPDFMagic reports whether the payload starts with the PDF header.
func HasPDFMagic(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	return api.PageCountFile(path)
}

// RelaxedConfiguration returns a pdfcpu configuration tolerant of the mildly
// malformed files real uploads tend to be.
func RelaxedConfiguration() *model.Configuration {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}
