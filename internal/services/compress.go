package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/filter"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	xdraw "golang.org/x/image/draw"

	"github.com/sasikalanalagatla/File-converter/internal/models"
	"github.com/sasikalanalagatla/File-converter/internal/pdfutil"
)

// compressPDF shrinks a PDF by downscaling and re-encoding its embedded
// raster images in place. The document structure is untouched: each image is
// replaced under its original object number, so page layout and content
// streams keep working. A single undecodable or un-reencodable image is
// skipped, not fatal; only failing to serialize the document fails the
// operation.
func (s *ConverterService) compressPDF(path string) ([]byte, error) {
	logCtx := s.log.With("path", path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, models.NewProcessingError("PDF compression failed", err)
	}
	originalSize := info.Size()

	f, err := os.Open(path)
	if err != nil {
		return nil, models.NewProcessingError("PDF compression failed", err)
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, pdfutil.RelaxedConfiguration())
	if err != nil {
		return nil, models.NewProcessingError("PDF compression failed", err)
	}

	anyChange := false
	seen := make(map[int]bool)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		for _, objNr := range pdfcpu.ImageObjNrs(ctx, pageNr) {
			if seen[objNr] {
				continue
			}
			seen[objNr] = true
			if s.compressImageObject(ctx, objNr, logCtx) {
				anyChange = true
			}
		}
	}

	if err := s.bumpVersion(ctx); err != nil {
		return nil, models.NewProcessingError("PDF compression failed", err)
	}

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, models.NewProcessingError("PDF compression failed", err)
	}

	logCtx.Info("Compression finished.",
		"originalBytes", originalSize,
		"newBytes", buf.Len(),
		"imagesChanged", anyChange,
	)
	return buf.Bytes(), nil
}

// compressImageObject processes one image XObject. Returns true when the
// object was downscaled or replaced.
func (s *ConverterService) compressImageObject(ctx *model.Context, objNr int, logCtx *slog.Logger) bool {
	entry := ctx.Table[objNr]
	if entry == nil || entry.Free {
		return false
	}
	sd, ok := entry.Object.(types.StreamDict)
	if !ok {
		return false
	}

	wp := sd.IntEntry("Width")
	hp := sd.IntEntry("Height")
	if wp == nil || hp == nil {
		return false
	}
	w, h := *wp, *hp

	opts := s.config.Compression
	if w < opts.MinImageDim || h < opts.MinImageDim {
		return false
	}

	img, err := decodeImageStream(&sd)
	if err != nil {
		logCtx.Warn("Skipping problematic image.", "obj", objNr, "error", err)
		return false
	}

	changed := false
	if w > opts.TargetMaxDim || h > opts.TargetMaxDim {
		img = downscale(img, opts.TargetMaxDim)
		changed = true
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: opts.JPEGQuality}); err != nil {
		// Keep the original object; a downscale still counts as a change.
		logCtx.Warn("Failed to JPEG-compress image, keeping original.",
			"obj", objNr, "width", w, "height", h, "error", err)
		return changed
	}

	bounds := img.Bounds()
	replaceImageStream(&sd, buf.Bytes(), bounds.Dx(), bounds.Dy())
	entry.Object = sd
	return true
}

// decodeImageStream decodes an image XObject to pixels. DCTDecode streams
// are plain JPEG; FlateDecode streams are raw 8-bit samples in DeviceRGB or
// DeviceGray. Anything else is reported as undecodable and skipped upstream.
func decodeImageStream(sd *types.StreamDict) (image.Image, error) {
	if len(sd.FilterPipeline) != 1 {
		return nil, fmt.Errorf("unsupported filter pipeline (%d filters)", len(sd.FilterPipeline))
	}

	switch sd.FilterPipeline[0].Name {
	case filter.DCT:
		return jpeg.Decode(bytes.NewReader(sd.Raw))

	case filter.Flate:
		if err := sd.Decode(); err != nil {
			return nil, fmt.Errorf("flate decode: %w", err)
		}
		return imageFromRawSamples(sd)

	default:
		return nil, fmt.Errorf("unsupported image filter %s", sd.FilterPipeline[0].Name)
	}
}

// imageFromRawSamples rebuilds an image from decoded raw sample bytes.
func imageFromRawSamples(sd *types.StreamDict) (image.Image, error) {
	w := sd.IntEntry("Width")
	h := sd.IntEntry("Height")
	bpc := sd.IntEntry("BitsPerComponent")
	cs := sd.NameEntry("ColorSpace")
	if w == nil || h == nil || bpc == nil || cs == nil {
		return nil, fmt.Errorf("missing image stream attributes")
	}
	if *bpc != 8 {
		return nil, fmt.Errorf("unsupported bits per component %d", *bpc)
	}

	width, height := *w, *h

	var comps int
	switch *cs {
	case "DeviceRGB":
		comps = 3
	case "DeviceGray":
		comps = 1
	default:
		return nil, fmt.Errorf("unsupported color space %s", *cs)
	}

	if len(sd.Content) < width*height*comps {
		return nil, fmt.Errorf("raw sample buffer too short: %d for %dx%dx%d", len(sd.Content), width, height, comps)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * comps
			o := img.PixOffset(x, y)
			if comps == 3 {
				img.Pix[o], img.Pix[o+1], img.Pix[o+2] = sd.Content[i], sd.Content[i+1], sd.Content[i+2]
			} else {
				img.Pix[o], img.Pix[o+1], img.Pix[o+2] = sd.Content[i], sd.Content[i], sd.Content[i]
			}
			img.Pix[o+3] = 0xff
		}
	}
	return img, nil
}

// downscale resizes img so its larger dimension equals targetMax, preserving
// aspect ratio, with bilinear interpolation. Never upscales.
func downscale(img image.Image, targetMax int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	maxDim := w
	if h > maxDim {
		maxDim = h
	}
	if maxDim <= targetMax {
		return img
	}

	scale := float64(targetMax) / float64(maxDim)
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// replaceImageStream swaps the stream's payload for JPEG data under the same
// object number, updating the dict attributes to match.
func replaceImageStream(sd *types.StreamDict, jpegData []byte, w, h int) {
	sd.Raw = jpegData
	sd.Content = nil
	sd.FilterPipeline = []types.PDFFilter{{Name: filter.DCT}}

	length := int64(len(jpegData))
	sd.StreamLength = &length

	sd.Dict["Filter"] = types.Name(filter.DCT)
	sd.Dict["Width"] = types.Integer(w)
	sd.Dict["Height"] = types.Integer(h)
	sd.Dict["BitsPerComponent"] = types.Integer(8)
	sd.Dict["ColorSpace"] = types.Name("DeviceRGB")
	sd.Dict["Length"] = types.Integer(len(jpegData))
	delete(sd.Dict, "DecodeParms")
	delete(sd.Dict, "Decode")
}

// bumpVersion raises the document's header version to at least the
// configured floor.
func (s *ConverterService) bumpVersion(ctx *model.Context) error {
	minVersion, err := model.PDFVersion(s.config.Compression.MinPDFVersion)
	if err != nil {
		return fmt.Errorf("invalid minimum PDF version %q: %w", s.config.Compression.MinPDFVersion, err)
	}
	if ctx.HeaderVersion == nil || *ctx.HeaderVersion < minVersion {
		ctx.HeaderVersion = &minVersion
	}
	return nil
}
