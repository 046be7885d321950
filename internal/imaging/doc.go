// Package imaging moves images between files and the raster buffers the
// enhancement filters operate on.
//
// # Decoding
//
// ImageCache decodes files with EXIF auto-orientation and keeps them keyed
// by path. PNG, JPEG, GIF, BMP, TIFF and WebP are accepted.
//
// # Conversion
//
// ToBuffer always produces a 3-channel buffer in B,G,R order with alpha
// dropped, the same layout a color decode produces regardless of whether
// the file is grayscale. FromBuffer maps 1-channel buffers to *image.Gray
// and 3-channel buffers to opaque *image.NRGBA.
//
// # Encoding
//
// Encode returns PNG or JPEG data base64 encoded for inline transport.
// Save writes a file whose format is chosen by extension. Fit bounds the
// longest side for previews.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The conversion and encoding
// functions are stateless.
package imaging
