package enhance

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/pixasobu-mcp/internal/raster"
)

// Cartoon effect tuning.
const (
	cartoonMedianSize    = 5
	cartoonBlockSize     = 9
	cartoonThresholdC    = 9
	cartoonBilateralSize = 9
	cartoonSigmaColor    = 300.0
	cartoonSigmaSpace    = 300.0
)

// maskOn marks interior (non-edge) pixels in the cartoon threshold mask.
const maskOn uint8 = 255

// Watercolor effect tuning.
const (
	watercolorSigmaS     = 60.0
	watercolorSigmaR     = 0.6
	watercolorIterations = 3
	watercolorEdgeGain   = 0.35
)

// Cartoon flattens colors and outlines edges.
//
//  1. Luma is median filtered (5×5) to suppress noise.
//  2. A mean-C adaptive threshold (block 9, C 9) marks a pixel as interior
//     when it is brighter than its neighborhood mean minus C.
//  3. The color image is bilateral filtered (diameter 9, sigma 300/300).
//  4. Pixels outside the interior mask are set to black.
//
// A uniform image is returned unchanged.
func Cartoon(src *raster.Buffer) (*raster.Buffer, error) {
	gray, err := raster.ToGray(src)
	if err != nil {
		return nil, err
	}

	mask := adaptiveThreshold(medianFilter(gray, cartoonMedianSize), cartoonBlockSize, cartoonThresholdC)
	smooth := bilateral(src, cartoonBilateralSize, cartoonSigmaColor, cartoonSigmaSpace)

	ch := src.Channels
	parallel.Line(src.Height, func(start, end int) {
		for y := start; y < end; y++ {
			m := mask.Row(y)
			out := smooth.Row(y)
			for x, v := range m {
				if v == maskOn {
					continue
				}
				for c := 0; c < ch; c++ {
					out[x*ch+c] = 0
				}
			}
		}
	})
	return smooth, nil
}

// medianFilter returns the size×size median of a gray buffer, replicating
// edge pixels.
func medianFilter(gray *raster.Buffer, size int) *raster.Buffer {
	r := size / 2
	xs := borderTable(gray.Width, r, replicate)
	ys := borderTable(gray.Height, r, replicate)

	dst := gray.NewLike(1)
	parallel.Line(gray.Height, func(start, end int) {
		window := make([]uint8, size*size)
		for y := start; y < end; y++ {
			out := dst.Row(y)
			for x := range out {
				n := 0
				for ky := 0; ky < size; ky++ {
					in := gray.Row(ys[y+ky])
					for kx := 0; kx < size; kx++ {
						window[n] = in[xs[x+kx]]
						n++
					}
				}
				insertionSort(window)
				out[x] = window[len(window)/2]
			}
		}
	})
	return dst
}

func insertionSort(s []uint8) {
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && s[j] > v {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
}

// adaptiveThreshold binarizes a gray buffer against the rounded mean of each
// pixel's block×block neighborhood (edges replicated): 255 where
// v > mean - c, otherwise 0.
func adaptiveThreshold(gray *raster.Buffer, block, c int) *raster.Buffer {
	w, h := gray.Width, gray.Height
	r := block / 2
	xs := borderTable(w, r, replicate)
	ys := borderTable(h, r, replicate)

	rowSums := make([]int, w*h)
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			in := gray.Row(y)
			for x := 0; x < w; x++ {
				sum := 0
				for k := 0; k < block; k++ {
					sum += int(in[xs[x+k]])
				}
				rowSums[y*w+x] = sum
			}
		}
	})

	area := float64(block * block)
	dst := gray.NewLike(1)
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			in := gray.Row(y)
			out := dst.Row(y)
			for x := range out {
				sum := 0
				for k := 0; k < block; k++ {
					sum += rowSums[ys[y+k]*w+x]
				}
				mean := int(raster.ClampRound(float64(sum) / area))
				if int(in[x])-mean > -c {
					out[x] = maskOn
				}
			}
		}
	})
	return dst
}

// bilateral smooths src with weights that fall off with both spatial
// distance and L1 color distance. Only offsets inside the inscribed circle of
// the diameter×diameter window contribute. Borders are reflected.
func bilateral(src *raster.Buffer, diameter int, sigmaColor, sigmaSpace float64) *raster.Buffer {
	w, h, ch := src.Width, src.Height, src.Channels
	r := diameter / 2
	xs := borderTable(w, r, reflect101)
	ys := borderTable(h, r, reflect101)

	type tap struct {
		dx, dy int
		weight float64
	}
	spaceCoeff := -0.5 / (sigmaSpace * sigmaSpace)
	var taps []tap
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d2 := float64(dx*dx + dy*dy)
			if d2 > float64(r*r) {
				continue
			}
			taps = append(taps, tap{dx: dx, dy: dy, weight: math.Exp(d2 * spaceCoeff)})
		}
	}

	colorCoeff := -0.5 / (sigmaColor * sigmaColor)
	colorWeight := make([]float64, 255*ch+1)
	for i := range colorWeight {
		colorWeight[i] = math.Exp(float64(i*i) * colorCoeff)
	}

	dst := src.NewLike(ch)
	parallel.Line(h, func(start, end int) {
		var sum [3]float64
		for y := start; y < end; y++ {
			center := src.Row(y)
			out := dst.Row(y)
			for x := 0; x < w; x++ {
				p := center[x*ch : x*ch+ch]
				sum = [3]float64{}
				wsum := 0.0
				for _, t := range taps {
					row := src.Row(ys[y+r+t.dy])
					off := xs[x+r+t.dx] * ch
					q := row[off : off+ch]

					diff := 0
					for c := 0; c < ch; c++ {
						diff += absInt(int(q[c]) - int(p[c]))
					}
					wt := t.weight * colorWeight[diff]
					for c := 0; c < ch; c++ {
						sum[c] += wt * float64(q[c])
					}
					wsum += wt
				}
				for c := 0; c < ch; c++ {
					out[x*ch+c] = raster.ClampRound(sum[c] / wsum)
				}
			}
		}
	})
	return dst
}

// Watercolor produces a painterly rendering: colors are flattened by an
// edge-preserving domain transform filter and strong structure edges are
// darkened.
//
// The filter runs watercolorIterations recursive passes at decreasing spatial
// scale. The range term measures neighbor distance in CIE L*a*b*, so smoothing
// stops at perceptual color boundaries rather than raw channel differences.
// A uniform image is returned unchanged.
func Watercolor(src *raster.Buffer) (*raster.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	w, h, ch := src.Width, src.Height, src.Channels

	planes := make([][]float64, ch)
	for c := range planes {
		planes[c] = make([]float64, w*h)
	}
	lab := make([][3]float64, w*h)
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			in := src.Row(y)
			for x := 0; x < w; x++ {
				i := y*w + x
				for c := 0; c < ch; c++ {
					planes[c][i] = float64(in[x*ch+c]) / 255
				}
				lab[i] = labOf(in[x*ch:x*ch+ch])
			}
		}
	})

	ratio := watercolorSigmaS / watercolorSigmaR
	dx := make([]float64, w*h)
	dy := make([]float64, w*h)
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				if x > 0 {
					dx[i] = 1 + ratio*labDistance(lab[i], lab[i-1])
				}
				if y > 0 {
					dy[i] = 1 + ratio*labDistance(lab[i], lab[i-w])
				}
			}
		}
	})

	n := float64(watercolorIterations)
	wx := make([]float64, w*h)
	wy := make([]float64, w*h)
	for it := 0; it < watercolorIterations; it++ {
		sigmaH := watercolorSigmaS * math.Sqrt(3) * math.Pow(2, n-float64(it+1)) / math.Sqrt(math.Pow(4, n)-1)
		a := math.Exp(-math.Sqrt2 / sigmaH)
		parallel.Line(h, func(start, end int) {
			for i := start * w; i < end*w; i++ {
				wx[i] = math.Pow(a, dx[i])
				wy[i] = math.Pow(a, dy[i])
			}
		})
		recursiveRows(planes, wx, w, h)
		recursiveColumns(planes, wy, w, h)
	}

	luma := make([]float64, w*h)
	for i := range luma {
		if ch == 1 {
			luma[i] = planes[0][i]
		} else {
			luma[i] = 0.299*planes[raster.R][i] + 0.587*planes[raster.G][i] + 0.114*planes[raster.B][i]
		}
	}
	edges := gradientMagnitude(luma, w, h)

	dst := src.NewLike(ch)
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			out := dst.Row(y)
			for x := 0; x < w; x++ {
				i := y*w + x
				shade := 1 - math.Min(1, watercolorEdgeGain*edges[i])
				for c := 0; c < ch; c++ {
					out[x*ch+c] = raster.ClampRound(planes[c][i] * shade * 255)
				}
			}
		}
	})
	return dst, nil
}

// recursiveRows runs the causal and anti-causal domain transform recursion
// along every row. wx[i] is the feedback weight between pixel i and its left
// neighbor.
func recursiveRows(planes [][]float64, wx []float64, w, h int) {
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			base := y * w
			for _, p := range planes {
				for x := 1; x < w; x++ {
					i := base + x
					p[i] += wx[i] * (p[i-1] - p[i])
				}
				for x := w - 2; x >= 0; x-- {
					i := base + x
					p[i] += wx[i+1] * (p[i+1] - p[i])
				}
			}
		}
	})
}

// recursiveColumns is recursiveRows for columns; wy[i] is the feedback
// weight between pixel i and the pixel above it.
func recursiveColumns(planes [][]float64, wy []float64, w, h int) {
	parallel.Line(w, func(start, end int) {
		for x := start; x < end; x++ {
			for _, p := range planes {
				for y := 1; y < h; y++ {
					i := y*w + x
					p[i] += wy[i] * (p[i-w] - p[i])
				}
				for y := h - 2; y >= 0; y-- {
					i := y*w + x
					p[i] += wy[i+w] * (p[i+w] - p[i])
				}
			}
		}
	})
}

// labOf converts a 1- or 3-channel (B,G,R) pixel to CIE L*a*b*.
func labOf(px []uint8) [3]float64 {
	var col colorful.Color
	if len(px) == 1 {
		v := float64(px[0]) / 255
		col = colorful.Color{R: v, G: v, B: v}
	} else {
		col = colorful.Color{
			R: float64(px[raster.R]) / 255,
			G: float64(px[raster.G]) / 255,
			B: float64(px[raster.B]) / 255,
		}
	}
	l, a, b := col.Lab()
	return [3]float64{l, a, b}
}

func labDistance(p, q [3]float64) float64 {
	dl, da, db := p[0]-q[0], p[1]-q[1], p[2]-q[2]
	return math.Sqrt(dl*dl + da*da + db*db)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
