package models

import "strings"

// Format identifies the target representation requested for a single
// uploaded PDF. The token sent by the client is parsed exactly once, at the
// dispatcher boundary; everything downstream switches on this type.
type Format int

const (
	FormatWord Format = iota
	FormatMarkdown
	FormatJSON
	FormatCSV
	FormatJPG
	FormatMergeNoop
	FormatCompress
)

// OutputFilename is the canonical attachment name for each operation.
func (f Format) OutputFilename() string {
	switch f {
	case FormatWord:
		return "converted.docx"
	case FormatMarkdown:
		return "converted.md"
	case FormatJSON:
		return "converted.json"
	case FormatCSV:
		return "converted.csv"
	case FormatJPG:
		return "pdf-pages.zip"
	case FormatMergeNoop:
		return "original.pdf"
	case FormatCompress:
		return "compressed.pdf"
	}
	return "converted.bin"
}

func (f Format) String() string {
	switch f {
	case FormatWord:
		return "word"
	case FormatMarkdown:
		return "markdown"
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	case FormatJPG:
		return "jpg"
	case FormatMergeNoop:
		return "merge"
	case FormatCompress:
		return "compress"
	}
	return "unknown"
}

// MergedFilename is the attachment name for a multi-file merge.
const MergedFilename = "merged.pdf"

// ParseFormat maps a client token onto a Format, case-insensitively.
func ParseFormat(token string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "word":
		return FormatWord, nil
	case "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "jpg":
		return FormatJPG, nil
	case "merge":
		return FormatMergeNoop, nil
	case "compress":
		return FormatCompress, nil
	}
	return 0, NewValidationError("invalid format: " + token)
}
