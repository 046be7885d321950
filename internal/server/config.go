package server

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ironsheep/pixasobu-mcp/internal/imaging"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvLogLevel     = "PIXASOBU_LOG_LEVEL"
	EnvOutputFormat = "PIXASOBU_OUTPUT_FORMAT"
	EnvJPEGQuality  = "PIXASOBU_JPEG_QUALITY"
)

// Config holds server settings.
type Config struct {
	// Debug enables per-call logging to stderr.
	Debug bool

	// OutputFormat is the inline encoding used when a call does not name
	// one: "png" or "jpeg".
	OutputFormat string

	// JPEGQuality is used when a call does not set quality.
	JPEGQuality int
}

// DefaultConfig returns PNG output, JPEG quality 95 and logging off.
func DefaultConfig() Config {
	return Config{
		OutputFormat: "png",
		JPEGQuality:  imaging.DefaultJPEGQuality,
	}
}

// ConfigFromEnv builds a Config from environment variables, starting from
// DefaultConfig. getenv is usually os.Getenv.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	cfg.Debug = strings.EqualFold(getenv(EnvLogLevel), "debug")

	if v := getenv(EnvOutputFormat); v != "" {
		if _, err := imaging.ParseFormat(v); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvOutputFormat, err)
		}
		cfg.OutputFormat = strings.ToLower(strings.TrimSpace(v))
	}

	if v := getenv(EnvJPEGQuality); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 1 || q > 100 {
			return Config{}, fmt.Errorf("%s: want an integer between 1 and 100, got %q", EnvJPEGQuality, v)
		}
		cfg.JPEGQuality = q
	}

	return cfg, nil
}
