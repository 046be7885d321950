package raster

import (
	"fmt"

	"github.com/anthonynsimon/bild/parallel"
)

// ITU-R BT.601 luma weights, the same weights used for edge detection.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Luma returns the rounded BT.601 luma of a B,G,R triple.
func Luma(b, g, r uint8) uint8 {
	return ClampRound(lumaR*float64(r) + lumaG*float64(g) + lumaB*float64(b))
}

// ToGray converts a buffer to a single channel using BT.601 luma weights.
// A grayscale input is copied unchanged.
func ToGray(src *Buffer) (*Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if src.Channels == 1 {
		return src.Clone(), nil
	}

	dst := src.NewLike(1)
	parallel.Line(src.Height, func(start, end int) {
		for y := start; y < end; y++ {
			in := src.Row(y)
			out := dst.Row(y)
			for x := range out {
				i := x * 3
				out[x] = Luma(in[i+B], in[i+G], in[i+R])
			}
		}
	})
	return dst, nil
}

// GrayToColor replicates a single-channel buffer into three identical
// channels.
func GrayToColor(src *Buffer) (*Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if src.Channels != 1 {
		return nil, fmt.Errorf("%w: GrayToColor needs 1 channel, got %d", ErrInvalidBuffer, src.Channels)
	}

	dst := src.NewLike(3)
	parallel.Line(src.Height, func(start, end int) {
		for y := start; y < end; y++ {
			in := src.Row(y)
			out := dst.Row(y)
			for x, v := range in {
				i := x * 3
				out[i+B] = v
				out[i+G] = v
				out[i+R] = v
			}
		}
	})
	return dst, nil
}

// Restore returns gray in the requested channel layout: unchanged for 1
// channel, replicated for 3.
func Restore(gray *Buffer, channels int) (*Buffer, error) {
	if channels == 1 {
		if err := gray.Validate(); err != nil {
			return nil, err
		}
		if gray.Channels != 1 {
			return nil, fmt.Errorf("%w: Restore needs 1 channel, got %d", ErrInvalidBuffer, gray.Channels)
		}
		return gray, nil
	}
	if channels != 3 {
		return nil, fmt.Errorf("%w: %d channels, want 1 or 3", ErrInvalidBuffer, channels)
	}
	return GrayToColor(gray)
}
