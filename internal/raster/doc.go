// Package raster provides the in-memory pixel buffer shared by all filters,
// together with the color space operations most filters start from.
//
// # Layout
//
// A Buffer is a rectangular grid of 8-bit samples stored row-major and
// interleaved:
//
//	offset(x, y, c) = (y*Width + x)*Channels + c
//
// Channels is either 1 (grayscale) or 3 (color). Color buffers always use the
// channel order B, G, R. Conversion to and from image.Image is done by the
// imaging package, which owns decoding.
//
// # Ownership
//
// Buffers are plain values with an exported Pix slice. Filters treat their
// input as read-only and always return a freshly allocated Buffer, so a Buffer
// handed to a filter can be shared between goroutines without locking.
//
// # Errors
//
// Malformed buffers (zero dimensions, unsupported channel counts, or a Pix
// slice of the wrong length) are reported as ErrInvalidBuffer, wrapped with
// details. Use errors.Is to test for it.
package raster
