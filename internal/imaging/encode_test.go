package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func createGradientImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / width), G: uint8(y * 255 / height), B: 128, A: 255})
		}
	}
	return img
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"png", false},
		{"PNG", false},
		{"jpeg", false},
		{"jpg", false},
		{" JPG ", false},
		{"gif", true},
		{"", true},
	}

	for _, tt := range tests {
		_, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q): err=%v, wantErr=%v", tt.input, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("ParseFormat(%q): got %v, want ErrUnsupportedFormat", tt.input, err)
		}
	}
}

func TestEncode_PNG(t *testing.T) {
	img := createGradientImage(40, 30)

	result, err := Encode(img, "png", DefaultJPEGQuality)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}
	if result.Width != 40 || result.Height != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", result.Width, result.Height)
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}

	// PNG is lossless.
	r, g, b, _ := decoded.At(20, 10).RGBA()
	want := img.NRGBAAt(20, 10)
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
		t.Errorf("pixel changed: got (%d,%d,%d), want %+v", r>>8, g>>8, b>>8, want)
	}
}

func TestEncode_JPEG(t *testing.T) {
	img := createGradientImage(64, 48)

	result, err := Encode(img, "jpg", 80)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if result.MimeType != "image/jpeg" {
		t.Errorf("MimeType: got %s, want image/jpeg", result.MimeType)
	}

	data, _ := base64.StdEncoding.DecodeString(result.ImageBase64)
	decoded, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid JPEG: %v", err)
	}
	if decoded.Bounds().Dx() != 64 || decoded.Bounds().Dy() != 48 {
		t.Errorf("dimensions: got %v", decoded.Bounds())
	}
}

func TestEncode_Errors(t *testing.T) {
	img := createGradientImage(4, 4)

	if _, err := Encode(img, "tiff", 90); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("tiff: got %v, want ErrUnsupportedFormat", err)
	}
	for _, q := range []int{0, -5, 101} {
		if _, err := Encode(img, "jpeg", q); err == nil {
			t.Errorf("quality %d: expected error", q)
		}
	}
}

func TestSave(t *testing.T) {
	img := createGradientImage(32, 16)
	dir := t.TempDir()

	tests := []struct {
		name   string
		format string
	}{
		{"out.png", "png"},
		{"out.jpg", "jpeg"},
		{"out.JPEG", "jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			result, err := Save(img, path, DefaultJPEGQuality)
			if err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if result.Format != tt.format {
				t.Errorf("Format: got %s, want %s", result.Format, tt.format)
			}
			if result.FileSizeBytes <= 0 {
				t.Error("FileSizeBytes should be positive")
			}

			cache := NewImageCache()
			back, err := cache.Load(path)
			if err != nil {
				t.Fatalf("saved file does not load: %v", err)
			}
			if back.Bounds().Dx() != 32 || back.Bounds().Dy() != 16 {
				t.Errorf("dimensions: got %v", back.Bounds())
			}
		})
	}
}

func TestSave_UnsupportedExtension(t *testing.T) {
	img := createGradientImage(4, 4)
	dir := t.TempDir()

	for _, name := range []string{"out.gif", "out.bmp", "out"} {
		if _, err := Save(img, filepath.Join(dir, name), 90); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: got %v, want ErrUnsupportedFormat", name, err)
		}
	}
}

func TestSaveFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    imaging.Format
		wantErr bool
	}{
		{"/tmp/a.png", imaging.PNG, false},
		{"/tmp/a.JPG", imaging.JPEG, false},
		{"/tmp/a.jpeg", imaging.JPEG, false},
		{"/tmp/a.gif", 0, true},
		{"/tmp/a", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := SaveFormat(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("got %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("got %v, %v; want %v", got, err, tt.want)
			}
		})
	}
}

func TestCheckQuality(t *testing.T) {
	for _, q := range []int{1, 50, 100} {
		if err := CheckQuality(q); err != nil {
			t.Errorf("quality %d: unexpected error %v", q, err)
		}
	}
	for _, q := range []int{0, -1, 101, 500} {
		if err := CheckQuality(q); err == nil {
			t.Errorf("quality %d: expected error", q)
		}
	}
}

func TestFit(t *testing.T) {
	img := createGradientImage(200, 100)

	tests := []struct {
		max        int
		wantWidth  int
		wantHeight int
	}{
		{0, 200, 100},
		{-1, 200, 100},
		{500, 200, 100},
		{200, 200, 100},
		{100, 100, 50},
		{50, 50, 25},
	}

	for _, tt := range tests {
		out := Fit(img, tt.max)
		if out.Bounds().Dx() != tt.wantWidth || out.Bounds().Dy() != tt.wantHeight {
			t.Errorf("Fit(%d): got %dx%d, want %dx%d",
				tt.max, out.Bounds().Dx(), out.Bounds().Dy(), tt.wantWidth, tt.wantHeight)
		}
	}
}
