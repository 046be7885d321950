package enhance

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/pixasobu-mcp/internal/raster"
)

// Gaussian kernel sizes accepted by Blur.
const (
	MinKernelSize = 3
	MaxKernelSize = 21
)

var (
	sharpenKernel = &convolution.Kernel{
		Matrix: []float64{
			0, -1, 0,
			-1, 5, -1,
			0, -1, 0,
		},
		Width:  3,
		Height: 3,
	}

	sobelXKernel = &convolution.Kernel{
		Matrix: []float64{
			-1, 0, 1,
			-2, 0, 2,
			-1, 0, 1,
		},
		Width:  3,
		Height: 3,
	}

	sobelYKernel = &convolution.Kernel{
		Matrix: []float64{
			-1, -2, -1,
			0, 0, 0,
			1, 2, 1,
		},
		Width:  3,
		Height: 3,
	}
)

// Blur applies a separable Gaussian blur with an odd kernel size in
// [MinKernelSize, MaxKernelSize] to every channel independently.
//
// Sigma is derived from the size as 0.3*((size-1)/2 - 1) + 0.8. Borders are
// reflected about the edge pixel (dcb|abcd|dcb), so edges are not darkened.
func Blur(src *raster.Buffer, size int) (*raster.Buffer, error) {
	if err := checkKernelSize(size); err != nil {
		return nil, err
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}
	return separable(src, gaussianKernel(size)), nil
}

func checkKernelSize(size int) error {
	if size < MinKernelSize || size > MaxKernelSize || size%2 == 0 {
		return fmt.Errorf("%w: kernel_size must be odd and in [%d,%d], got %d",
			ErrInvalidParameter, MinKernelSize, MaxKernelSize, size)
	}
	return nil
}

// gaussianKernel returns a normalized 1-D Gaussian kernel of the given size.
func gaussianKernel(size int) *convolution.Kernel {
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	k := convolution.NewKernel(size, 1)

	r := size / 2
	sum := 0.0
	for i := range k.Matrix {
		d := float64(i - r)
		k.Matrix[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += k.Matrix[i]
	}
	for i := range k.Matrix {
		k.Matrix[i] /= sum
	}
	return k
}

// Sharpen convolves every channel with the 3×3 kernel
//
//	 0 -1  0
//	-1  5 -1
//	 0 -1  0
func Sharpen(src *raster.Buffer) (*raster.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	return correlate(src, sharpenKernel), nil
}

// Sobel computes the Sobel gradient magnitude sqrt(Gx² + Gy²) of the luma and
// stretches it linearly so the weakest gradient maps to 0 and the strongest
// to 255. A flat image has no gradient and yields an all-black result.
func Sobel(src *raster.Buffer) (*raster.Buffer, error) {
	gray, err := raster.ToGray(src)
	if err != nil {
		return nil, err
	}

	plane := make([]float64, len(gray.Pix))
	for i, v := range gray.Pix {
		plane[i] = float64(v)
	}
	mag := gradientMagnitude(plane, gray.Width, gray.Height)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, m := range mag {
		lo = math.Min(lo, m)
		hi = math.Max(hi, m)
	}

	out := gray.NewLike(1)
	if hi > lo {
		scale := 255 / (hi - lo)
		for i, m := range mag {
			out.Pix[i] = raster.ClampRound((m - lo) * scale)
		}
	}
	return raster.Restore(out, src.Channels)
}

// gradientMagnitude returns the Sobel magnitude of a single-channel plane.
func gradientMagnitude(plane []float64, width, height int) []float64 {
	gx := correlatePlane(plane, width, height, sobelXKernel)
	gy := correlatePlane(plane, width, height, sobelYKernel)
	for i := range gx {
		gx[i] = math.Sqrt(gx[i]*gx[i] + gy[i]*gy[i])
	}
	return gx
}

// correlate applies k to every channel of src with reflect-101 borders.
func correlate(src *raster.Buffer, k *convolution.Kernel) *raster.Buffer {
	ch := src.Channels
	rx, ry := k.Width/2, k.Height/2
	xs := borderTable(src.Width, rx, reflect101)
	ys := borderTable(src.Height, ry, reflect101)

	dst := src.NewLike(ch)
	parallel.Line(src.Height, func(start, end int) {
		for y := start; y < end; y++ {
			out := dst.Row(y)
			for x := 0; x < src.Width; x++ {
				for c := 0; c < ch; c++ {
					sum := 0.0
					for ky := 0; ky < k.Height; ky++ {
						in := src.Row(ys[y+ky])
						for kx := 0; kx < k.Width; kx++ {
							sum += k.At(kx, ky) * float64(in[xs[x+kx]*ch+c])
						}
					}
					out[x*ch+c] = raster.ClampRound(sum)
				}
			}
		}
	})
	return dst
}

// correlatePlane applies k to a float plane with reflect-101 borders.
func correlatePlane(plane []float64, width, height int, k *convolution.Kernel) []float64 {
	rx, ry := k.Width/2, k.Height/2
	xs := borderTable(width, rx, reflect101)
	ys := borderTable(height, ry, reflect101)

	out := make([]float64, len(plane))
	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				sum := 0.0
				for ky := 0; ky < k.Height; ky++ {
					row := ys[y+ky] * width
					for kx := 0; kx < k.Width; kx++ {
						sum += k.At(kx, ky) * plane[row+xs[x+kx]]
					}
				}
				out[y*width+x] = sum
			}
		}
	})
	return out
}

// separable applies the 1-D kernel k horizontally and then vertically.
func separable(src *raster.Buffer, k *convolution.Kernel) *raster.Buffer {
	w, h, ch := src.Width, src.Height, src.Channels
	r := k.Width / 2
	xs := borderTable(w, r, reflect101)
	ys := borderTable(h, r, reflect101)
	stride := w * ch

	tmp := make([]float64, len(src.Pix))
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			in := src.Row(y)
			for x := 0; x < w; x++ {
				for c := 0; c < ch; c++ {
					sum := 0.0
					for i, kv := range k.Matrix {
						sum += kv * float64(in[xs[x+i]*ch+c])
					}
					tmp[y*stride+x*ch+c] = sum
				}
			}
		}
	})

	dst := src.NewLike(ch)
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			out := dst.Row(y)
			for i := range out {
				sum := 0.0
				for j, kv := range k.Matrix {
					sum += kv * tmp[ys[y+j]*stride+i]
				}
				out[i] = raster.ClampRound(sum)
			}
		}
	})
	return dst
}

// borderTable maps positions -r..n+r-1 (stored at offset r) to in-range
// indices using the given border rule.
func borderTable(n, r int, rule func(i, n int) int) []int {
	table := make([]int, n+2*r)
	for i := range table {
		table[i] = rule(i-r, n)
	}
	return table
}

// reflect101 mirrors an index about the edge samples without repeating them:
// for n=4, -2 -1 | 0 1 2 3 | 4 5 maps to 2 1 | 0 1 2 3 | 2 1.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*(n-1) - i
		}
	}
	return i
}

// replicate clamps an index to the nearest edge sample.
func replicate(i, n int) int {
	return clamp(i, 0, n-1)
}

// clamp constrains an integer value to the range [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
