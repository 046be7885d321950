package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/pixasobu-mcp/internal/raster"
)

// ToBuffer converts a decoded image into a 3-channel B,G,R buffer.
//
// Every source type, including grayscale and paletted images, is first
// normalized to non-premultiplied RGBA. The alpha channel is then dropped
// without compositing, so a transparent pixel keeps its stored color.
func ToBuffer(img image.Image) (*raster.Buffer, error) {
	src := imaging.Clone(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()

	dst, err := raster.New(w, h, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			in := src.Pix[y*src.Stride : y*src.Stride+w*4]
			out := dst.Row(y)
			for x := 0; x < w; x++ {
				out[x*3+raster.B] = in[x*4+2]
				out[x*3+raster.G] = in[x*4+1]
				out[x*3+raster.R] = in[x*4+0]
			}
		}
	})
	return dst, nil
}

// FromBuffer converts a buffer back into a Go image: *image.Gray for one
// channel, opaque *image.NRGBA for three.
func FromBuffer(buf *raster.Buffer) (image.Image, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	w, h := buf.Width, buf.Height

	if buf.Channels == 1 {
		gray := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			copy(gray.Pix[y*gray.Stride:y*gray.Stride+w], buf.Row(y))
		}
		return gray, nil
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			in := buf.Row(y)
			out := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
			for x := 0; x < w; x++ {
				out[x*4+0] = in[x*3+raster.R]
				out[x*4+1] = in[x*3+raster.G]
				out[x*4+2] = in[x*3+raster.B]
				out[x*4+3] = 0xff
			}
		}
	})
	return dst, nil
}
