package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// assemblePDF serializes numbered objects into a minimal uncompressed
// document with an exact cross-reference table and writes it to dir.
func assemblePDF(t *testing.T, dir, name string, objs []string) string {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// writeTextPDF builds a document with one page per content stream, all pages
// sharing a single Helvetica resource.
func writeTextPDF(t *testing.T, dir, name string, pageStreams ...string) string {
	t.Helper()

	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // Pages node, filled in once the kids are numbered.
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var kids []string
	for i, stream := range pageStreams {
		pageNr := 4 + 2*i
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNr))
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", pageNr+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}
	objs[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pageStreams))

	return assemblePDF(t, dir, name, objs)
}

// writeImagePDF builds a one-page document whose only content is a DCT-encoded
// image XObject of the given pixel dimensions.
func writeImagePDF(t *testing.T, dir, name string, jpegData []byte, w, h int) string {
	t.Helper()

	content := "q 612 0 0 792 0 0 cm /Im1 Do Q"
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /XObject << /Im1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		fmt.Sprintf("<< /Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /DCTDecode /Length %d >>\nstream\n%s\nendstream",
			w, h, len(jpegData), jpegData),
	}

	return assemblePDF(t, dir, name, objs)
}

// gradientJPEG encodes a w x h gradient so the payload does not compress away
// to nothing.
func gradientJPEG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := img.PixOffset(x, y)
			img.Pix[o] = uint8(x * 255 / w)
			img.Pix[o+1] = uint8(y * 255 / h)
			img.Pix[o+2] = uint8((x + y) % 256)
			img.Pix[o+3] = 0xff
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode fixture jpeg: %v", err)
	}
	return buf.Bytes()
}

// prosePage draws one word per line, top left of the page, 20 units apart.
func prosePage(words ...string) string {
	var sb strings.Builder
	sb.WriteString("BT /F1 12 Tf 72 700 Td")
	for i, w := range words {
		if i > 0 {
			sb.WriteString(" 0 -20 Td")
		}
		fmt.Fprintf(&sb, " (%s) Tj", w)
	}
	sb.WriteString(" ET")
	return sb.String()
}

// tablePage lays cells out on a fixed grid: columns 120 units apart, rows 20.
func tablePage(rows [][]string) string {
	var sb strings.Builder
	sb.WriteString("BT /F1 12 Tf 72 700 Td")
	for r, row := range rows {
		if r > 0 {
			fmt.Fprintf(&sb, " %d -20 Td", -120*(len(rows[r-1])-1))
		}
		for c, cell := range row {
			if c > 0 {
				sb.WriteString(" 120 0 Td")
			}
			fmt.Fprintf(&sb, " (%s) Tj", cell)
		}
	}
	sb.WriteString(" ET")
	return sb.String()
}
