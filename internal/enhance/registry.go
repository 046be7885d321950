package enhance

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ironsheep/pixasobu-mcp/internal/raster"
)

// Kind identifies one of the registered filters.
type Kind int

// Registered filters, in menu order.
const (
	HistogramEqualization Kind = iota + 1
	ContrastStretching
	GammaCorrection
	LogTransformation
	NegativeTransformation
	GaussianBlur
	Sharpening
	CartoonEffect
	WatercolorEffect
	SobelEdgeDetection
)

// Parameter names.
const (
	ParamGamma      = "gamma"
	ParamKernelSize = "kernel_size"
	ParamOutMin     = "out_min"
	ParamOutMax     = "out_max"
)

// Params holds caller-supplied numeric parameters by name.
type Params map[string]float64

// ParamInfo documents one parameter a filter accepts.
type ParamInfo struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max,omitempty"` // 0 when unbounded
	Default     float64 `json:"default"`
	Integer     bool    `json:"integer"`
}

type kindInfo struct {
	name        string
	id          string
	description string
	params      []ParamInfo
}

var kinds = map[Kind]kindInfo{
	HistogramEqualization: {
		name:        "Histogram Equalization",
		id:          "histogram_equalization",
		description: "Improves contrast by redistributing intensities evenly over the full range.",
	},
	ContrastStretching: {
		name:        "Contrast Stretching",
		id:          "contrast_stretching",
		description: "Expands the range of intensities in an image to improve contrast.",
		params: []ParamInfo{
			{Name: ParamOutMin, Description: "Lowest output intensity", Min: 0, Max: 254, Default: 0, Integer: true},
			{Name: ParamOutMax, Description: "Highest output intensity", Min: 1, Max: 255, Default: 255, Integer: true},
		},
	},
	GammaCorrection: {
		name:        "Gamma Correction",
		id:          "gamma_correction",
		description: "Adjusts brightness using a non-linear power transformation.",
		params: []ParamInfo{
			{Name: ParamGamma, Description: "Exponent applied to normalized intensity (must be > 0)", Min: 0, Default: 1},
		},
	},
	LogTransformation: {
		name:        "Log Transformation",
		id:          "log_transformation",
		description: "Enhances low-intensity values in images with a high dynamic range.",
	},
	NegativeTransformation: {
		name:        "Negative Transformation",
		id:          "negative_transformation",
		description: "Creates a negative of the image.",
	},
	GaussianBlur: {
		name:        "Gaussian Blur",
		id:          "gaussian_blur",
		description: "Reduces image noise and detail using a smoothing filter.",
		params: []ParamInfo{
			{Name: ParamKernelSize, Description: "Odd kernel size", Min: MinKernelSize, Max: MaxKernelSize, Default: 5, Integer: true},
		},
	},
	Sharpening: {
		name:        "Sharpening",
		id:          "sharpening",
		description: "Enhances edges and details in an image.",
	},
	CartoonEffect: {
		name:        "Cartoon Effect",
		id:          "cartoon_effect",
		description: "Gives images a cartoonish appearance by combining edge detection with smoothing.",
	},
	WatercolorEffect: {
		name:        "Watercolor Effect",
		id:          "watercolor_effect",
		description: "Applies a painting-like stylization to the image.",
	},
	SobelEdgeDetection: {
		name:        "Sobel Edge Detection",
		id:          "sobel_edge_detection",
		description: "Highlights edges by computing gradients in the X and Y directions.",
	},
}

// Kinds returns all registered filters in menu order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String returns the display name, e.g. "Gaussian Blur".
func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ID returns the snake_case identifier, e.g. "gaussian_blur".
func (k Kind) ID() string {
	return kinds[k].id
}

// Description returns a one-line explanation of what the filter does.
func (k Kind) Description() string {
	return kinds[k].description
}

// Params describes the parameters the filter accepts.
func (k Kind) Params() []ParamInfo {
	return kinds[k].params
}

// Valid reports whether k is a registered filter.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// ParseKind resolves a display name or identifier. Matching ignores case,
// surrounding space, and the difference between spaces, hyphens and
// underscores, so "Gaussian Blur", "gaussian-blur" and "gaussian_blur" are
// all accepted.
func ParseKind(name string) (Kind, error) {
	id := normalizeName(name)
	for k, info := range kinds {
		if info.id == id {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
}

func normalizeName(name string) string {
	id := strings.ToLower(strings.TrimSpace(name))
	id = strings.NewReplacer(" ", "_", "-", "_").Replace(id)
	return id
}

// Spec is a validated filter request: a Kind plus its parameter payload.
// The zero Spec is not valid; build one with NewSpec or ParseSpec.
type Spec struct {
	kind       Kind
	gamma      float64
	kernelSize int
	outMin     uint8
	outMax     uint8
}

// Kind returns the filter the spec applies.
func (s Spec) Kind() Kind { return s.kind }

// Gamma returns the gamma exponent (Gamma Correction only).
func (s Spec) Gamma() float64 { return s.gamma }

// KernelSize returns the Gaussian kernel size (Gaussian Blur only).
func (s Spec) KernelSize() int { return s.kernelSize }

// OutputRange returns the target range (Contrast Stretching only).
func (s Spec) OutputRange() (lo, hi uint8) { return s.outMin, s.outMax }

// NewSpec validates params for kind and returns the resulting Spec.
// Missing parameters take their defaults; parameters the filter does not
// accept are rejected.
func NewSpec(kind Kind, params Params) (Spec, error) {
	info, ok := kinds[kind]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %v", ErrUnknownFilter, kind)
	}

	for name := range params {
		if !accepts(info, name) {
			return Spec{}, fmt.Errorf("%w: %s does not accept %q", ErrInvalidParameter, info.name, name)
		}
	}

	spec := Spec{kind: kind}
	switch kind {
	case GammaCorrection:
		g := paramOr(params, ParamGamma, 1)
		if !(g > 0) || math.IsInf(g, 1) {
			return Spec{}, fmt.Errorf("%w: gamma must be a positive number, got %v", ErrInvalidParameter, g)
		}
		spec.gamma = g

	case GaussianBlur:
		size, err := integerParam(params, ParamKernelSize, 5)
		if err != nil {
			return Spec{}, err
		}
		if err := checkKernelSize(size); err != nil {
			return Spec{}, err
		}
		spec.kernelSize = size

	case ContrastStretching:
		lo, err := integerParam(params, ParamOutMin, 0)
		if err != nil {
			return Spec{}, err
		}
		hi, err := integerParam(params, ParamOutMax, 255)
		if err != nil {
			return Spec{}, err
		}
		if lo < 0 || hi > 255 || lo >= hi {
			return Spec{}, fmt.Errorf("%w: output range [%d,%d] must satisfy 0 <= out_min < out_max <= 255",
				ErrInvalidParameter, lo, hi)
		}
		spec.outMin, spec.outMax = uint8(lo), uint8(hi)
	}
	return spec, nil
}

// ParseSpec resolves name with ParseKind and validates params with NewSpec.
func ParseSpec(name string, params Params) (Spec, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return Spec{}, err
	}
	return NewSpec(kind, params)
}

func accepts(info kindInfo, name string) bool {
	for _, p := range info.params {
		if p.Name == name {
			return true
		}
	}
	return false
}

func paramOr(params Params, name string, def float64) float64 {
	if v, ok := params[name]; ok {
		return v
	}
	return def
}

func integerParam(params Params, name string, def int) (int, error) {
	v, ok := params[name]
	if !ok {
		return def, nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrInvalidParameter, name, v)
	}
	return int(v), nil
}

// Apply runs the filter described by spec on src and returns a new buffer.
// src is validated before any work starts and is never modified.
func Apply(src *raster.Buffer, spec Spec) (*raster.Buffer, error) {
	if !spec.Kind().Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFilter, spec.Kind())
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}

	switch spec.Kind() {
	case HistogramEqualization:
		return EqualizeHistogram(src)
	case ContrastStretching:
		lo, hi := spec.OutputRange()
		return StretchContrast(src, lo, hi)
	case GammaCorrection:
		return CorrectGamma(src, spec.Gamma())
	case LogTransformation:
		return LogTransform(src)
	case NegativeTransformation:
		return Negate(src)
	case GaussianBlur:
		return Blur(src, spec.KernelSize())
	case Sharpening:
		return Sharpen(src)
	case CartoonEffect:
		return Cartoon(src)
	case WatercolorEffect:
		return Watercolor(src)
	case SobelEdgeDetection:
		return Sobel(src)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownFilter, spec.kind)
}

// ApplyNamed is the single entry point for callers that select a filter by
// name: it parses the name, validates params, and applies the filter.
func ApplyNamed(src *raster.Buffer, name string, params Params) (*raster.Buffer, error) {
	spec, err := ParseSpec(name, params)
	if err != nil {
		return nil, err
	}
	return Apply(src, spec)
}
