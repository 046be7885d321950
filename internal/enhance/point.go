package enhance

import (
	"fmt"
	"math"
	"sync"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/pixasobu-mcp/internal/raster"
)

// logEpsilon keeps the logarithm argument away from 1 for zero intensities.
// It is added inside the logarithm after the "1 +" offset: ln(1 + v + ε).
const logEpsilon = 1e-5

// lut is a lookup table applied to every sample.
type lut [256]uint8

// EqualizeHistogram spreads the luma histogram over the full [0,255] range.
//
// The first occupied intensity maps to 0 and every intensity v maps to
//
//	round((cdf(v) - cdf(first)) * 255 / (N - cdf(first)))
//
// where N is the pixel count. An image with a single intensity is returned
// unchanged. The result has the input's channel layout.
func EqualizeHistogram(src *raster.Buffer) (*raster.Buffer, error) {
	gray, err := raster.ToGray(src)
	if err != nil {
		return nil, err
	}

	table := equalizeTable(histogram(gray), len(gray.Pix))
	return raster.Restore(applyTable(gray, &table), src.Channels)
}

func equalizeTable(hist [256]int, total int) lut {
	var table lut
	first := 0
	for hist[first] == 0 {
		first++
	}
	if hist[first] == total {
		table[first] = uint8(first)
		return table
	}

	scale := 255 / float64(total-hist[first])
	sum := 0
	for v := first + 1; v < 256; v++ {
		sum += hist[v]
		table[v] = raster.ClampRound(float64(sum) * scale)
	}
	return table
}

// StretchContrast linearly maps the observed luma range [rmin, rmax] onto
// [outMin, outMax]. A constant-intensity image has no range to stretch and
// is returned as an unchanged copy.
func StretchContrast(src *raster.Buffer, outMin, outMax uint8) (*raster.Buffer, error) {
	if outMin >= outMax {
		return nil, fmt.Errorf("%w: output range [%d,%d] is empty", ErrInvalidParameter, outMin, outMax)
	}
	gray, err := raster.ToGray(src)
	if err != nil {
		return nil, err
	}

	lo, hi := minMax(gray)
	if lo == hi {
		return src.Clone(), nil
	}

	var table lut
	inRange := float64(hi - lo)
	outRange := float64(outMax - outMin)
	for v := range table {
		table[v] = raster.ClampRound(float64(v-int(lo))/inRange*outRange + float64(outMin))
	}
	return raster.Restore(applyTable(gray, &table), src.Channels)
}

// CorrectGamma maps luma v to 255 * (v/255)^gamma. Gamma must be a finite
// positive number.
//
// The transform works on luma, so a color input comes back as its gray
// projection replicated over three channels, whatever the gamma. Gamma 1 is
// therefore the identity only for gray images (one channel, or three equal
// channels); for any other color image it returns the image's luma.
func CorrectGamma(src *raster.Buffer, gamma float64) (*raster.Buffer, error) {
	if !(gamma > 0) || math.IsInf(gamma, 1) {
		return nil, fmt.Errorf("%w: gamma must be positive, got %v", ErrInvalidParameter, gamma)
	}
	gray, err := raster.ToGray(src)
	if err != nil {
		return nil, err
	}

	var table lut
	for v := range table {
		table[v] = raster.ClampRound(255 * math.Pow(float64(v)/255, gamma))
	}
	return raster.Restore(applyTable(gray, &table), src.Channels)
}

// LogTransform maps luma v to c * ln(1 + v + ε) with c = 255 / ln(1 + max).
// An all-black image has no scale and is returned black.
func LogTransform(src *raster.Buffer) (*raster.Buffer, error) {
	gray, err := raster.ToGray(src)
	if err != nil {
		return nil, err
	}

	_, hi := minMax(gray)
	if hi == 0 {
		return src.NewLike(src.Channels), nil
	}

	var table lut
	c := 255 / math.Log1p(float64(hi))
	for v := range table {
		table[v] = raster.ClampRound(c * math.Log1p(float64(v)+logEpsilon))
	}
	return raster.Restore(applyTable(gray, &table), src.Channels)
}

// Negate inverts every sample of every channel. It is its own inverse.
func Negate(src *raster.Buffer) (*raster.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	var table lut
	for v := range table {
		table[v] = uint8(255 - v)
	}
	return applyTable(src, &table), nil
}

// applyTable maps every sample of src through table into a new buffer.
func applyTable(src *raster.Buffer, table *lut) *raster.Buffer {
	dst := src.NewLike(src.Channels)
	parallel.Line(src.Height, func(start, end int) {
		for y := start; y < end; y++ {
			in := src.Row(y)
			out := dst.Row(y)
			for i, v := range in {
				out[i] = table[v]
			}
		}
	})
	return dst
}

// histogram counts the samples of a single-channel buffer.
func histogram(gray *raster.Buffer) [256]int {
	var (
		mu   sync.Mutex
		hist [256]int
	)
	parallel.Line(gray.Height, func(start, end int) {
		var local [256]int
		for y := start; y < end; y++ {
			for _, v := range gray.Row(y) {
				local[v]++
			}
		}
		mu.Lock()
		for i, n := range local {
			hist[i] += n
		}
		mu.Unlock()
	})
	return hist
}

// minMax returns the smallest and largest sample of a buffer.
func minMax(buf *raster.Buffer) (lo, hi uint8) {
	var mu sync.Mutex
	lo, hi = 255, 0
	parallel.Line(buf.Height, func(start, end int) {
		rowLo, rowHi := uint8(255), uint8(0)
		for y := start; y < end; y++ {
			for _, v := range buf.Row(y) {
				rowLo = min(rowLo, v)
				rowHi = max(rowHi, v)
			}
		}
		mu.Lock()
		lo = min(lo, rowLo)
		hi = max(hi, rowHi)
		mu.Unlock()
	})
	return lo, hi
}
