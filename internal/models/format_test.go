package models

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		token   string
		want    Format
		wantErr bool
	}{
		{"word", FormatWord, false},
		{"markdown", FormatMarkdown, false},
		{"json", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"jpg", FormatJPG, false},
		{"merge", FormatMergeNoop, false},
		{"compress", FormatCompress, false},
		{"WORD", FormatWord, false},
		{"CoMpReSs", FormatCompress, false},
		{"  csv  ", FormatCSV, false},
		{"pdf", 0, true},
		{"docx", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.token)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q): expected error, got %v", tt.token, got)
			} else if !IsValidation(err) {
				t.Errorf("ParseFormat(%q): expected validation error, got %T", tt.token, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q): unexpected error: %v", tt.token, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatWord, "converted.docx"},
		{FormatMarkdown, "converted.md"},
		{FormatJSON, "converted.json"},
		{FormatCSV, "converted.csv"},
		{FormatJPG, "pdf-pages.zip"},
		{FormatMergeNoop, "original.pdf"},
		{FormatCompress, "compressed.pdf"},
	}

	for _, tt := range tests {
		if got := tt.format.OutputFilename(); got != tt.want {
			t.Errorf("%v.OutputFilename() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestErrorClassification(t *testing.T) {
	ve := NewValidationError("bad input")
	if !IsValidation(ve) {
		t.Error("validation error not recognized")
	}

	cause := errors.New("disk full")
	pe := NewProcessingError("merge failed", cause)
	if IsValidation(pe) {
		t.Error("processing error misclassified as validation")
	}
	if !errors.Is(pe, cause) {
		t.Error("processing error does not unwrap to its cause")
	}
	if pe.Error() != "merge failed: disk full" {
		t.Errorf("unexpected message: %q", pe.Error())
	}
}
