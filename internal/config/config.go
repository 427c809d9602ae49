package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the conversion service, read from the
// environment (with optional .env support for local development).
type Config struct {
	Port          string
	TempDir       string
	RasterDPI     float64
	RasterWorkers int
	Compression   CompressionOptions
}

// CompressionOptions are the tunables of the compress operation. The
// defaults match the historical behavior; each can be overridden via the
// environment.
type CompressionOptions struct {
	// MinImageDim: embedded images with either dimension below this are too
	// small to matter and are skipped.
	MinImageDim int
	// TargetMaxDim: images larger than this on either axis are downscaled,
	// preserving aspect ratio.
	TargetMaxDim int
	// JPEGQuality for re-encoding, 1-100.
	JPEGQuality int
	// MinPDFVersion is the floor the output header version is bumped to.
	MinPDFVersion string
}

// DefaultCompressionOptions returns the default compression tunables.
func DefaultCompressionOptions() CompressionOptions {
	return CompressionOptions{
		MinImageDim:   100,
		TargetMaxDim:  1200,
		JPEGQuality:   70,
		MinPDFVersion: "1.5",
	}
}

// Load reads configuration from the environment. A missing .env file is not
// an error.
func Load() Config {
	_ = godotenv.Load()

	comp := DefaultCompressionOptions()
	comp.MinImageDim = getEnvInt("COMPRESS_MIN_IMAGE_DIM", comp.MinImageDim)
	comp.TargetMaxDim = getEnvInt("COMPRESS_TARGET_MAX_DIM", comp.TargetMaxDim)
	comp.JPEGQuality = getEnvInt("COMPRESS_JPEG_QUALITY", comp.JPEGQuality)
	comp.MinPDFVersion = GetEnv("COMPRESS_MIN_PDF_VERSION", comp.MinPDFVersion)

	return Config{
		Port:          GetEnv("PORT", "8080"),
		TempDir:       GetEnv("CONVERTER_TEMP_DIR", os.TempDir()),
		RasterDPI:     getEnvFloat("RASTER_DPI", 150),
		RasterWorkers: getEnvInt("RASTER_WORKERS", 4),
		Compression:   comp,
	}
}

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
