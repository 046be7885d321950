package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality matches the quality imaging uses when none is given.
const DefaultJPEGQuality = 95

// ErrUnsupportedFormat is returned for output formats other than PNG and JPEG.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// EncodeResult contains an encoded image ready to be returned inline.
type EncodeResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// SaveResult describes an image written to disk.
type SaveResult struct {
	Path          string `json:"path"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Format        string `json:"format"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// ParseFormat maps "png", "jpeg" or "jpg" (any case) to an output format.
func ParseFormat(name string) (imaging.Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "png":
		return imaging.PNG, nil
	case "jpeg", "jpg":
		return imaging.JPEG, nil
	}
	return 0, fmt.Errorf("%w: %q (want png or jpeg)", ErrUnsupportedFormat, name)
}

// CheckQuality reports whether quality is a valid JPEG quality (1-100).
func CheckQuality(quality int) error {
	if quality < 1 || quality > 100 {
		return fmt.Errorf("jpeg quality must be between 1 and 100, got %d", quality)
	}
	return nil
}

// Encode encodes img as PNG or JPEG and returns it base64 encoded. quality
// only applies to JPEG.
func Encode(img image.Image, format string, quality int) (*EncodeResult, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if err := CheckQuality(quality); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, f, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	mime := "image/png"
	if f == imaging.JPEG {
		mime = "image/jpeg"
	}

	return &EncodeResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    mime,
	}, nil
}

// SaveFormat returns the output format Save would use for path.
func SaveFormat(path string) (imaging.Format, error) {
	f, err := imaging.FormatFromFilename(path)
	if err != nil || (f != imaging.PNG && f != imaging.JPEG) {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return f, nil
}

// Save writes img to path. The format is taken from the file extension;
// only PNG and JPEG are accepted.
func Save(img image.Image, path string, quality int) (*SaveResult, error) {
	f, err := SaveFormat(path)
	if err != nil {
		return nil, err
	}
	if err := CheckQuality(quality); err != nil {
		return nil, err
	}

	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &SaveResult{
		Path:          path,
		Width:         img.Bounds().Dx(),
		Height:        img.Bounds().Dy(),
		Format:        strings.ToLower(f.String()),
		FileSizeBytes: stat.Size(),
	}, nil
}

// Fit scales img down so neither side exceeds maxDimension, preserving the
// aspect ratio. Images that already fit, and maxDimension <= 0, are
// returned as is.
func Fit(img image.Image, maxDimension int) image.Image {
	b := img.Bounds()
	if maxDimension <= 0 || (b.Dx() <= maxDimension && b.Dy() <= maxDimension) {
		return img
	}
	return imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
}
