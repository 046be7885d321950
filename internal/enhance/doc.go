// Package enhance implements the pixel-domain enhancement filters.
//
// Every filter maps one raster.Buffer to a new raster.Buffer with the same
// width, height and channel count. Inputs are never modified.
//
// # Filters
//
// Point transforms (one output sample depends on one input sample):
//   - Histogram Equalization
//   - Contrast Stretching
//   - Gamma Correction
//   - Log Transformation
//   - Negative Transformation
//
// Neighborhood operations:
//   - Gaussian Blur
//   - Sharpening
//   - Sobel Edge Detection
//
// Composite effects:
//   - Cartoon Effect
//   - Watercolor Effect
//
// All point transforms except the negative work on the BT.601 luma of the
// image and return it in the caller's channel layout.
//
// # Entry Point
//
// Callers normally go through the registry:
//
//	out, err := enhance.ApplyNamed(buf, "Gamma Correction", enhance.Params{"gamma": 0.5})
//
// or build a validated Spec once and reuse it:
//
//	spec, err := enhance.NewSpec(enhance.GaussianBlur, enhance.Params{"kernel_size": 7})
//	out, err := enhance.Apply(buf, spec)
//
// # Errors
//
// ErrUnknownFilter, ErrInvalidParameter and ErrInvalidBuffer are returned
// before any pixel is computed. Numeric degeneracies (a constant image in
// contrast stretching, an all-black image in the log transform, a flat image
// in Sobel normalization) are not errors; each has a defined output.
//
// # Concurrency
//
// Filters are stateless and safe for concurrent use. Rows are processed in
// parallel; reductions only use integer sums, min and max, so the result does
// not depend on scheduling.
package enhance
