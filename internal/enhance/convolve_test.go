package enhance

import (
	"errors"
	"math"
	"testing"

	"github.com/ironsheep/pixasobu-mcp/internal/raster"
)

func TestBlur_SpreadsIsolatedPixel(t *testing.T) {
	for _, ch := range []int{1, 3} {
		src := createUniform(7, 7, ch, 0)
		for c := 0; c < ch; c++ {
			src.Set(3, 3, c, 255)
		}

		out, err := Blur(src, 3)
		if err != nil {
			t.Fatalf("Blur failed: %v", err)
		}

		for c := 0; c < ch; c++ {
			center := out.At(3, 3, c)
			if center >= 255 || center == 0 {
				t.Errorf("channels=%d: center got %d, want strictly between 0 and 255", ch, center)
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if v := out.At(3+dx, 3+dy, c); v == 0 {
						t.Errorf("channels=%d: neighbor (%d,%d) got 0, want > 0", ch, 3+dx, 3+dy)
					}
				}
			}
			if v := out.At(0, 0, c); v != 0 {
				t.Errorf("channels=%d: far corner got %d, want 0", ch, v)
			}
		}
	}
}

func TestBlur_UniformImage(t *testing.T) {
	// Kernels larger than the image exercise repeated border reflection.
	src := createUniform(5, 4, 3, 173)
	for size := MinKernelSize; size <= MaxKernelSize; size += 2 {
		out, err := Blur(src, size)
		if err != nil {
			t.Fatalf("size=%d: Blur failed: %v", size, err)
		}
		if !out.Equal(src) {
			t.Errorf("size=%d: uniform image changed", size)
		}
	}
}

func TestBlur_Smooths(t *testing.T) {
	src := createNoise(32, 32, 1, 128, 100, 9)

	out, err := Blur(src, 7)
	if err != nil {
		t.Fatalf("Blur failed: %v", err)
	}
	if totalVariation(out) >= totalVariation(src) {
		t.Error("blur should reduce total variation")
	}
}

func TestBlur_InvalidKernelSize(t *testing.T) {
	src := createUniform(4, 4, 3, 10)
	for _, size := range []int{-3, 0, 1, 2, 4, 20, 22, 23} {
		if _, err := Blur(src, size); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("size=%d: got %v, want ErrInvalidParameter", size, err)
		}
	}
}

func TestGaussianKernel(t *testing.T) {
	k := gaussianKernel(3)
	if k.Width != 3 || k.Height != 1 {
		t.Fatalf("shape: got %dx%d, want 3x1", k.Width, k.Height)
	}

	// sigma = 0.8 for size 3
	if math.Abs(k.Matrix[1]-0.5220) > 1e-3 || math.Abs(k.Matrix[0]-0.2390) > 1e-3 {
		t.Errorf("weights: got %v, want ~[0.239 0.522 0.239]", k.Matrix)
	}

	for size := MinKernelSize; size <= MaxKernelSize; size += 2 {
		k := gaussianKernel(size)
		sum := 0.0
		for i, v := range k.Matrix {
			sum += v
			if v != k.Matrix[size-1-i] {
				t.Errorf("size=%d: kernel not symmetric at %d", size, i)
			}
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("size=%d: weights sum to %v, want 1", size, sum)
		}
	}
}

func TestReflect101(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 4, 0},
		{3, 4, 3},
		{-1, 4, 1},
		{-2, 4, 2},
		{4, 4, 2},
		{5, 4, 1},
		{-7, 4, 1},
		{10, 4, 2},
		{-3, 1, 0},
		{-3, 2, 1},
	}

	for _, tt := range tests {
		if got := reflect101(tt.i, tt.n); got != tt.want {
			t.Errorf("reflect101(%d, %d): got %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tt := range tests {
		if got := clamp(tt.val, tt.lo, tt.hi); got != tt.want {
			t.Errorf("clamp(%d, %d, %d): got %d, want %d", tt.val, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestSharpen(t *testing.T) {
	src := createUniform(5, 5, 1, 50)
	src.Set(2, 2, 0, 100)

	out, err := Sharpen(src)
	if err != nil {
		t.Fatalf("Sharpen failed: %v", err)
	}

	// center: 5*100 - 4*50 = 300, clamped
	if got := out.At(2, 2, 0); got != 255 {
		t.Errorf("center: got %d, want 255", got)
	}
	// 4-neighbor: 5*50 - 100 - 3*50 = 0
	if got := out.At(2, 1, 0); got != 0 {
		t.Errorf("neighbor: got %d, want 0", got)
	}
	// diagonal is outside the kernel support
	if got := out.At(1, 1, 0); got != 50 {
		t.Errorf("diagonal: got %d, want 50", got)
	}
}

func TestSharpen_UniformImage(t *testing.T) {
	src := createUniform(6, 6, 3, 90)

	out, err := Sharpen(src)
	if err != nil {
		t.Fatalf("Sharpen failed: %v", err)
	}
	if !out.Equal(src) {
		t.Error("uniform image changed")
	}
}

func TestSobel_FlatImage(t *testing.T) {
	for _, ch := range []int{1, 3} {
		for _, k := range []uint8{0, 77, 255} {
			src := createUniform(8, 6, ch, k)

			out, err := Sobel(src)
			if err != nil {
				t.Fatalf("Sobel failed: %v", err)
			}
			if !out.SameShape(src) {
				t.Fatalf("shape changed: got %dx%dx%d", out.Width, out.Height, out.Channels)
			}
			for i, v := range out.Pix {
				if v != 0 {
					t.Fatalf("channels=%d k=%d: sample %d got %d, want 0", ch, k, i, v)
				}
			}
		}
	}
}

func TestSobel_VerticalEdge(t *testing.T) {
	src := createUniform(8, 8, 3, 0)
	for y := 0; y < 8; y++ {
		for x := 4; x < 8; x++ {
			for c := 0; c < 3; c++ {
				src.Set(x, y, c, 255)
			}
		}
	}

	out, err := Sobel(src)
	if err != nil {
		t.Fatalf("Sobel failed: %v", err)
	}

	if got := out.At(0, 4, 0); got != 0 {
		t.Errorf("flat region: got %d, want 0", got)
	}
	if got := out.At(3, 4, 0); got != 255 {
		t.Errorf("edge column: got %d, want 255", got)
	}
	for x := 0; x < 8; x++ {
		v := out.At(x, 4, 0)
		if out.At(x, 4, 1) != v || out.At(x, 4, 2) != v {
			t.Errorf("x=%d: channels differ", x)
		}
	}
}

// totalVariation sums absolute differences between horizontal and vertical
// neighbors.
func totalVariation(b *raster.Buffer) int {
	tv := 0
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			for c := 0; c < b.Channels; c++ {
				v := int(b.At(x, y, c))
				if x+1 < b.Width {
					tv += absInt(int(b.At(x+1, y, c)) - v)
				}
				if y+1 < b.Height {
					tv += absInt(int(b.At(x, y+1, c)) - v)
				}
			}
		}
	}
	return tv
}
