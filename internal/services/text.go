package services

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/sasikalanalagatla/File-converter/internal/docx"
	"github.com/sasikalanalagatla/File-converter/internal/models"
)

// textRun is one positioned fragment of page text. PDF coordinates: origin
// bottom-left, Y grows upward.
type textRun struct {
	x, y, w float64
	size    float64
	s       string
}

const (
	// lineYTolerance: runs whose baselines differ by no more than this sit on
	// the same visual line.
	lineYTolerance = 2.0
	// wordGap: horizontal space between runs that still reads as one word
	// boundary rather than glued text.
	wordGap = 1.5
)

// extractText produces all pages' text concatenated in page order, assembled
// in reading order, with leading/trailing whitespace trimmed.
func extractText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", models.NewProcessingError("text extraction failed", err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		lines := assembleLines(pageRuns(p))
		if text := strings.TrimSpace(strings.Join(lines, "\n")); text != "" {
			pages = append(pages, text)
		}
	}

	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}

func pageRuns(p pdf.Page) []textRun {
	content := p.Content()
	runs := make([]textRun, 0, len(content.Text))
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		runs = append(runs, textRun{x: t.X, y: t.Y, w: t.W, size: t.FontSize, s: t.S})
	}
	return runs
}

// assembleLines sorts runs into reading order (top to bottom, left to right)
// and joins them into visual lines.
func assembleLines(runs []textRun) []string {
	if len(runs) == 0 {
		return nil
	}
	sort.SliceStable(runs, func(i, j int) bool {
		if d := runs[i].y - runs[j].y; d > lineYTolerance || d < -lineYTolerance {
			return runs[i].y > runs[j].y
		}
		return runs[i].x < runs[j].x
	})

	var lines []string
	var sb strings.Builder
	lineY := runs[0].y
	prevEnd := runs[0].x

	for i, r := range runs {
		if i > 0 && lineY-r.y > lineYTolerance {
			lines = append(lines, strings.TrimRight(sb.String(), " "))
			sb.Reset()
			lineY = r.y
		} else if i > 0 && r.x-prevEnd > wordGap && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(r.s)
		prevEnd = r.x + r.w
	}
	lines = append(lines, strings.TrimRight(sb.String(), " "))
	return lines
}

// convertToWord wraps the extracted text as a single paragraph in a minimal
// office document container.
func (s *ConverterService) convertToWord(path string) ([]byte, error) {
	text, err := extractText(path)
	if err != nil {
		return nil, err
	}
	out, err := docx.Write(text)
	if err != nil {
		return nil, models.NewProcessingError("word conversion failed", err)
	}
	return out, nil
}

var excessNewlines = regexp.MustCompile(`\n{3,}`)

// normalizeMarkdown normalizes line endings, collapses runs of 3+ newlines
// to exactly 2, and trims. No carriage return survives, paired or bare.
func normalizeMarkdown(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func (s *ConverterService) convertToMarkdown(path string) ([]byte, error) {
	text, err := extractText(path)
	if err != nil {
		return nil, err
	}
	return []byte(normalizeMarkdown(text)), nil
}

var jsonEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\b", `\b`,
	"\f", `\f`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// jsonDocument wraps text as a single fixed-key JSON object. No other JSON
// structure is ever produced.
func jsonDocument(text string) string {
	return `{"extractedText": "` + jsonEscaper.Replace(text) + `"}`
}

func (s *ConverterService) convertToJSON(path string) ([]byte, error) {
	text, err := extractText(path)
	if err != nil {
		return nil, err
	}
	return []byte(jsonDocument(text)), nil
}
