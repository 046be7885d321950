package imaging

import (
	"math"
	"sync"

	"github.com/anthonynsimon/bild/parallel"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/pixasobu-mcp/internal/raster"
)

// IntensityStats summarizes the luma distribution of a buffer. It is
// reported before and after filtering so a caller can see, for example,
// that contrast stretching widened the range.
type IntensityStats struct {
	Min    uint8   `json:"min"`
	Max    uint8   `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`

	// MeanColor is the average color as "#rrggbb". Gray buffers report a
	// gray color.
	MeanColor string `json:"mean_color"`
}

// Stats computes intensity statistics for buf. Luma uses the same weights
// as the grayscale conversion the filters perform.
func Stats(buf *raster.Buffer) (*IntensityStats, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		lo      = uint8(255)
		hi      = uint8(0)
		sum     uint64
		sumSq   uint64
		chanSum [3]uint64
	)
	ch := buf.Channels

	parallel.Line(buf.Height, func(start, end int) {
		localLo, localHi := uint8(255), uint8(0)
		var localSum, localSq uint64
		var localChan [3]uint64
		for y := start; y < end; y++ {
			row := buf.Row(y)
			for x := 0; x < buf.Width; x++ {
				px := row[x*ch : x*ch+ch]
				var v uint8
				if ch == 1 {
					v = px[0]
					localChan[0] += uint64(v)
				} else {
					v = raster.Luma(px[raster.B], px[raster.G], px[raster.R])
					for c := 0; c < 3; c++ {
						localChan[c] += uint64(px[c])
					}
				}
				localLo = min(localLo, v)
				localHi = max(localHi, v)
				localSum += uint64(v)
				localSq += uint64(v) * uint64(v)
			}
		}

		mu.Lock()
		lo = min(lo, localLo)
		hi = max(hi, localHi)
		sum += localSum
		sumSq += localSq
		for c := range chanSum {
			chanSum[c] += localChan[c]
		}
		mu.Unlock()
	})

	n := float64(buf.Width * buf.Height)
	mean := float64(sum) / n
	variance := math.Max(0, float64(sumSq)/n-mean*mean)

	var col colorful.Color
	if ch == 1 {
		g := float64(chanSum[0]) / n / 255
		col = colorful.Color{R: g, G: g, B: g}
	} else {
		col = colorful.Color{
			R: float64(chanSum[raster.R]) / n / 255,
			G: float64(chanSum[raster.G]) / n / 255,
			B: float64(chanSum[raster.B]) / n / 255,
		}
	}

	return &IntensityStats{
		Min:       lo,
		Max:       hi,
		Mean:      math.Round(mean*100) / 100,
		StdDev:    math.Round(math.Sqrt(variance)*100) / 100,
		MeanColor: col.Hex(),
	}, nil
}
