package raster

import (
	"errors"
	"fmt"
)

// Channel offsets within a 3-channel pixel.
const (
	B = 0
	G = 1
	R = 2
)

// ErrInvalidBuffer reports a buffer with zero dimensions, an unsupported
// channel count, or a sample slice whose length does not match its shape.
var ErrInvalidBuffer = errors.New("invalid buffer")

// Buffer is a W×H raster of 8-bit samples with 1 (gray) or 3 (B,G,R) channels.
type Buffer struct {
	// Width is the number of pixels per row.
	Width int

	// Height is the number of rows.
	Height int

	// Channels is 1 for grayscale and 3 for B,G,R color.
	Channels int

	// Pix holds Width*Height*Channels samples, row-major and interleaved.
	Pix []uint8
}

// New allocates a zeroed buffer of the given shape.
func New(width, height, channels int) (*Buffer, error) {
	if err := checkShape(width, height, channels); err != nil {
		return nil, err
	}
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}, nil
}

// FromPix wraps an existing sample slice. The slice is not copied.
func FromPix(width, height, channels int, pix []uint8) (*Buffer, error) {
	b := &Buffer{Width: width, Height: height, Channels: channels, Pix: pix}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the buffer invariants.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidBuffer)
	}
	if err := checkShape(b.Width, b.Height, b.Channels); err != nil {
		return err
	}
	if want := b.Width * b.Height * b.Channels; len(b.Pix) != want {
		return fmt.Errorf("%w: %d samples for %dx%dx%d, want %d",
			ErrInvalidBuffer, len(b.Pix), b.Width, b.Height, b.Channels, want)
	}
	return nil
}

func checkShape(width, height, channels int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidBuffer, width, height)
	}
	if channels != 1 && channels != 3 {
		return fmt.Errorf("%w: %d channels, want 1 or 3", ErrInvalidBuffer, channels)
	}
	return nil
}

// Stride returns the number of samples per row.
func (b *Buffer) Stride() int {
	return b.Width * b.Channels
}

// Row returns the samples of row y. The slice aliases Pix.
func (b *Buffer) Row(y int) []uint8 {
	s := b.Stride()
	return b.Pix[y*s : (y+1)*s]
}

// At returns sample c of the pixel at (x, y).
func (b *Buffer) At(x, y, c int) uint8 {
	return b.Pix[(y*b.Width+x)*b.Channels+c]
}

// Set stores sample c of the pixel at (x, y).
func (b *Buffer) Set(x, y, c int, v uint8) {
	b.Pix[(y*b.Width+x)*b.Channels+c] = v
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Channels: b.Channels, Pix: pix}
}

// NewLike allocates a zeroed buffer with the same width and height as b and
// the given channel count.
func (b *Buffer) NewLike(channels int) *Buffer {
	return &Buffer{
		Width:    b.Width,
		Height:   b.Height,
		Channels: channels,
		Pix:      make([]uint8, b.Width*b.Height*channels),
	}
}

// SameShape reports whether o has the same width, height and channel count.
func (b *Buffer) SameShape(o *Buffer) bool {
	return b.Width == o.Width && b.Height == o.Height && b.Channels == o.Channels
}

// Equal reports whether o has the same shape and identical samples.
func (b *Buffer) Equal(o *Buffer) bool {
	if !b.SameShape(o) {
		return false
	}
	for i, v := range b.Pix {
		if o.Pix[i] != v {
			return false
		}
	}
	return true
}

// ClampRound converts a computed sample to uint8, rounding half away from
// zero and saturating at 0 and 255. NaN maps to 0.
func ClampRound(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 254.5 {
		return 255
	}
	return uint8(v + 0.5)
}
