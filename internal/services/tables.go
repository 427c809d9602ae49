package services

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/sasikalanalagatla/File-converter/internal/models"
)

// Table detection infers rows and columns from the spatial clustering of
// positioned text, not from drawn grid lines. A page region qualifies as a
// table when at least two adjacent lines split into two or more cells whose
// left edges align.
const (
	// cellGap: horizontal whitespace wide enough to separate two cells on
	// the same line, in text-space units.
	cellGap = 12.0
	// columnTolerance: cell left edges within this distance belong to the
	// same column.
	columnTolerance = 6.0
)

const fallbackHeader = `"Extracted Text (No Tables Detected)"`

// cellSegment is one cell candidate: a horizontally contiguous run of text.
type cellSegment struct {
	x    float64
	text string
}

// extractTablesAsCSV emits every detected table as quoted CSV. If no table
// is found on any page, the whole output is replaced by a single-column CSV
// of the extracted text. The fallback is all-or-nothing at document level:
// one table anywhere suppresses it entirely.
func (s *ConverterService) extractTablesAsCSV(path string) ([]byte, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, models.NewProcessingError("csv conversion failed", err)
	}
	defer f.Close()

	var sb strings.Builder
	foundAnyTable := false

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, table := range detectTables(pageRuns(p)) {
			foundAnyTable = true
			writeCSVTable(&sb, table)
		}
	}

	if !foundAnyTable {
		text, err := extractText(path)
		if err != nil {
			return nil, err
		}
		sb.Reset()
		sb.WriteString(fallbackHeader)
		sb.WriteByte('\n')
		for _, line := range strings.Split(text, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				sb.WriteString(quoteCSV(trimmed))
				sb.WriteByte('\n')
			}
		}
	}

	return []byte(sb.String()), nil
}

// detectTables clusters positioned runs into tables: rows of cell text, in
// reading order.
func detectTables(runs []textRun) [][][]string {
	lines := segmentLines(runs)

	var tables [][][]string
	for start := 0; start < len(lines); {
		// A block is a maximal run of consecutive multi-cell lines.
		if len(lines[start]) < 2 {
			start++
			continue
		}
		end := start + 1
		for end < len(lines) && len(lines[end]) >= 2 {
			end++
		}
		if end-start >= 2 {
			if table := alignColumns(lines[start:end]); table != nil {
				tables = append(tables, table)
			}
		}
		start = end
	}
	return tables
}

// segmentLines groups runs into visual lines and splits each line into cell
// segments on gaps wider than cellGap.
func segmentLines(runs []textRun) [][]cellSegment {
	if len(runs) == 0 {
		return nil
	}
	sorted := make([]textRun, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if d := sorted[i].y - sorted[j].y; d > lineYTolerance || d < -lineYTolerance {
			return sorted[i].y > sorted[j].y
		}
		return sorted[i].x < sorted[j].x
	})

	var lines [][]cellSegment
	var current []textRun
	lineY := sorted[0].y

	flush := func() {
		if len(current) > 0 {
			lines = append(lines, splitSegments(current))
			current = nil
		}
	}

	for _, r := range sorted {
		if lineY-r.y > lineYTolerance {
			flush()
			lineY = r.y
		}
		current = append(current, r)
	}
	flush()
	return lines
}

func splitSegments(line []textRun) []cellSegment {
	var segs []cellSegment
	var sb strings.Builder
	segStart := line[0].x
	prevEnd := line[0].x

	for i, r := range line {
		gap := r.x - prevEnd
		switch {
		case i == 0:
		case gap > cellGap:
			segs = append(segs, cellSegment{x: segStart, text: strings.TrimSpace(sb.String())})
			sb.Reset()
			segStart = r.x
		case gap > wordGap:
			sb.WriteByte(' ')
		}
		sb.WriteString(r.s)
		prevEnd = r.x + r.w
	}
	segs = append(segs, cellSegment{x: segStart, text: strings.TrimSpace(sb.String())})
	return segs
}

// alignColumns verifies that the block's cell edges form consistent columns
// and materializes the cell grid. Returns nil when the block does not align.
func alignColumns(block [][]cellSegment) [][]string {
	columns := clusterColumns(block)
	if len(columns) < 2 {
		return nil
	}

	fill := make([]int, len(columns))
	rows := make([][]string, 0, len(block))
	for _, line := range block {
		row := make([]string, len(columns))
		for _, seg := range line {
			col := nearestColumn(columns, seg.x)
			if row[col] != "" {
				row[col] += " " + seg.text
			} else {
				row[col] = seg.text
				fill[col]++
			}
		}
		rows = append(rows, row)
	}

	// The block only reads as a table when at least two columns recur across
	// at least two rows; otherwise it is scattered text.
	shared := 0
	for _, n := range fill {
		if n >= 2 {
			shared++
		}
	}
	if shared < 2 {
		return nil
	}
	return rows
}

// clusterColumns merges all segment left edges in the block into column
// anchors within columnTolerance.
func clusterColumns(block [][]cellSegment) []float64 {
	var edges []float64
	for _, line := range block {
		for _, seg := range line {
			edges = append(edges, seg.x)
		}
	}
	sort.Float64s(edges)

	var columns []float64
	for _, x := range edges {
		if len(columns) == 0 || x-columns[len(columns)-1] > columnTolerance {
			columns = append(columns, x)
		}
	}
	return columns
}

func nearestColumn(columns []float64, x float64) int {
	best := 0
	for i, c := range columns {
		if diff(x, c) < diff(x, columns[best]) {
			best = i
		}
	}
	return best
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

// writeCSVTable emits one table: every field double-quoted with embedded
// quotes doubled, one blank line after the table.
func writeCSVTable(sb *strings.Builder, table [][]string) {
	for _, row := range table {
		for i, cell := range row {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(quoteCSV(cell))
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
}

func quoteCSV(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
