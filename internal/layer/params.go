package layer

// Params is the kind-specific parameter set of a layer. Each kind has its
// own variant carrying only the fields that mean something for it; the
// variant in a Layer always matches the layer's Kind.
type Params interface {
	LayerKind() Kind
}

// MaskShape selects the radial mask geometry.
type MaskShape string

const (
	ShapeCircle MaskShape = "circle"
	ShapeSquare MaskShape = "square"
	ShapeStar4  MaskShape = "star4"
	ShapeStar5  MaskShape = "star5"
	ShapeRings  MaskShape = "rings"
)

// Valid reports whether s is a known mask shape.
func (s MaskShape) Valid() bool {
	switch s {
	case ShapeCircle, ShapeSquare, ShapeStar4, ShapeStar5, ShapeRings:
		return true
	}
	return false
}

// WarpType selects the displacement field of a warp layer.
type WarpType string

const (
	WarpTurbulence WarpType = "turbulence"
	WarpSwirl      WarpType = "swirl"
	WarpFlow       WarpType = "flow"
)

// Valid reports whether w is a known warp type.
func (w WarpType) Valid() bool {
	switch w {
	case WarpTurbulence, WarpSwirl, WarpFlow:
		return true
	}
	return false
}

// NoiseParams drives a gradient-noise layer. Octaves above 1 stack fBM
// octaves over the base frequency.
type NoiseParams struct {
	Scale      float64 `json:"scale"`
	Seed       int64   `json:"seed"`
	Octaves    int     `json:"octaves"`
	Contrast   float64 `json:"contrast"`
	Brightness float64 `json:"brightness"`
	Invert     bool    `json:"invert"`
}

func (NoiseParams) LayerKind() Kind { return KindGradientNoise }

// CellularParams drives a Worley distance-field layer.
type CellularParams struct {
	Scale      float64 `json:"scale"`
	Seed       int64   `json:"seed"`
	Jitter     float64 `json:"jitter"`
	Contrast   float64 `json:"contrast"`
	Brightness float64 `json:"brightness"`
	Invert     bool    `json:"invert"`
}

func (CellularParams) LayerKind() Kind { return KindCellular }

// DotsParams drives a point-pattern layer.
type DotsParams struct {
	Scale         float64 `json:"scale"`
	Seed          int64   `json:"seed"`
	Jitter        float64 `json:"jitter"`
	DotBaseSize   float64 `json:"dotBaseSize"`
	SizeVariation float64 `json:"sizeVariation"`
	MaskThreshold float64 `json:"maskThreshold"`
	Contrast      float64 `json:"contrast"`
	Brightness    float64 `json:"brightness"`
	Invert        bool    `json:"invert"`
}

func (DotsParams) LayerKind() Kind { return KindDots }

// StripesParams drives a hard-edged bar pattern.
type StripesParams struct {
	Scale      float64 `json:"scale"`
	Contrast   float64 `json:"contrast"`
	Brightness float64 `json:"brightness"`
	Invert     bool    `json:"invert"`
}

func (StripesParams) LayerKind() Kind { return KindStripes }

// MaskParams drives a tile-centered radial mask.
type MaskParams struct {
	Shape      MaskShape `json:"maskType"`
	Hardness   float64   `json:"maskHardness"`
	RingCount  int       `json:"ringCount"`
	Contrast   float64   `json:"contrast"`
	Brightness float64   `json:"brightness"`
	Invert     bool      `json:"invert"`
}

func (MaskParams) LayerKind() Kind { return KindMask }

// ImageParams drives a bitmap-backed layer. Source is an opaque content
// key resolved by the image-source registry; Scale is how many repetitions
// of the bitmap span the output.
type ImageParams struct {
	Source     string  `json:"source"`
	Scale      float64 `json:"scale"`
	Contrast   float64 `json:"contrast"`
	Brightness float64 `json:"brightness"`
	Invert     bool    `json:"invert"`
}

func (ImageParams) LayerKind() Kind { return KindImage }

// WarpParams drives a displacement pass over the composite built so far.
// Strength is the nominal displacement in pixels.
type WarpParams struct {
	Type     WarpType `json:"warpType"`
	Strength float64  `json:"warpStrength"`
	Scale    float64  `json:"scale"`
	Seed     int64    `json:"seed"`
}

func (WarpParams) LayerKind() Kind { return KindWarp }

// GrainParams drives per-pixel uncorrelated grain.
type GrainParams struct {
	Contrast   float64 `json:"contrast"`
	Brightness float64 `json:"brightness"`
	Invert     bool    `json:"invert"`
}

func (GrainParams) LayerKind() Kind { return KindGrain }

func DefaultNoiseParams() NoiseParams {
	return NoiseParams{Scale: 3, Seed: 1, Octaves: 1, Contrast: 1}
}

func DefaultCellularParams() CellularParams {
	return CellularParams{Scale: 4, Seed: 1, Jitter: 1, Contrast: 1}
}

func DefaultDotsParams() DotsParams {
	return DotsParams{Scale: 8, Seed: 1, Jitter: 0.75, DotBaseSize: 0.5, SizeVariation: 0.5, Contrast: 1}
}

func DefaultStripesParams() StripesParams {
	return StripesParams{Scale: 6, Contrast: 1}
}

func DefaultMaskParams() MaskParams {
	return MaskParams{Shape: ShapeCircle, Hardness: 0.5, RingCount: 4, Contrast: 1}
}

func DefaultImageParams() ImageParams {
	return ImageParams{Scale: 1, Contrast: 1}
}

func DefaultWarpParams() WarpParams {
	return WarpParams{Type: WarpTurbulence, Strength: 20, Scale: 2, Seed: 1}
}

func DefaultGrainParams() GrainParams {
	return GrainParams{Contrast: 1}
}

// DefaultParams returns the default variant for kind.
func DefaultParams(kind Kind) Params {
	switch kind {
	case KindGradientNoise:
		return DefaultNoiseParams()
	case KindCellular:
		return DefaultCellularParams()
	case KindDots:
		return DefaultDotsParams()
	case KindStripes:
		return DefaultStripesParams()
	case KindMask:
		return DefaultMaskParams()
	case KindImage:
		return DefaultImageParams()
	case KindWarp:
		return DefaultWarpParams()
	case KindGrain:
		return DefaultGrainParams()
	}
	return nil
}
