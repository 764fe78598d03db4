package layer

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Kind identifies what a layer renders.
type Kind string

const (
	KindGradientNoise Kind = "gradient-noise"
	KindCellular      Kind = "cellular"
	KindDots          Kind = "dots"
	KindStripes       Kind = "stripes"
	KindMask          Kind = "mask"
	KindImage         Kind = "image"
	KindWarp          Kind = "warp"
	KindGrain         Kind = "grain"
)

// Valid reports whether k is a known layer kind.
func (k Kind) Valid() bool {
	switch k {
	case KindGradientNoise, KindCellular, KindDots, KindStripes,
		KindMask, KindImage, KindWarp, KindGrain:
		return true
	}
	return false
}

// BlendMode selects the compositing formula for a layer.
type BlendMode string

const (
	BlendNormal     BlendMode = "normal"
	BlendMultiply   BlendMode = "multiply"
	BlendScreen     BlendMode = "screen"
	BlendOverlay    BlendMode = "overlay"
	BlendDarken     BlendMode = "darken"
	BlendLighten    BlendMode = "lighten"
	BlendColorDodge BlendMode = "color-dodge"
	BlendColorBurn  BlendMode = "color-burn"
	BlendHardLight  BlendMode = "hard-light"
	BlendSoftLight  BlendMode = "soft-light"
	BlendDifference BlendMode = "difference"
	BlendExclusion  BlendMode = "exclusion"
)

// Valid reports whether m is one of the twelve supported modes.
func (m BlendMode) Valid() bool {
	switch m {
	case BlendNormal, BlendMultiply, BlendScreen, BlendOverlay,
		BlendDarken, BlendLighten, BlendColorDodge, BlendColorBurn,
		BlendHardLight, BlendSoftLight, BlendDifference, BlendExclusion:
		return true
	}
	return false
}

// Layer is one element of the stack. Order within the stack is the only
// relationship between layers and is semantically significant: compositing
// is strictly sequential.
type Layer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	BlendMode BlendMode `json:"blendMode"`
	Opacity   float64   `json:"opacity"`
	Visible   bool      `json:"visible"`
	Params    Params    `json:"params"`
}

var defaultNames = map[Kind]string{
	KindGradientNoise: "Noise",
	KindCellular:      "Cellular",
	KindDots:          "Dots",
	KindStripes:       "Stripes",
	KindMask:          "Mask",
	KindImage:         "Image",
	KindWarp:          "Warp",
	KindGrain:         "Grain",
}

// New creates a layer of the given kind with a fresh ID and
// kind-appropriate parameter defaults.
func New(kind Kind) Layer {
	return Layer{
		ID:        uuid.NewString(),
		Name:      defaultNames[kind],
		Kind:      kind,
		BlendMode: BlendNormal,
		Opacity:   1,
		Visible:   true,
		Params:    DefaultParams(kind),
	}
}

type layerJSON struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Kind      Kind            `json:"kind"`
	BlendMode BlendMode       `json:"blendMode"`
	Opacity   float64         `json:"opacity"`
	Visible   bool            `json:"visible"`
	Params    json.RawMessage `json:"params"`
}

// UnmarshalJSON decodes a layer, selecting the parameter variant from the
// kind tag. Unknown kinds and blend modes are rejected here so the render
// pipeline only ever sees well-typed layers. Parameter fields missing from
// the input keep their kind defaults.
func (l *Layer) UnmarshalJSON(data []byte) error {
	var raw layerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid layer: %w", err)
	}
	if !raw.Kind.Valid() {
		return fmt.Errorf("unknown layer kind %q", raw.Kind)
	}
	if !raw.BlendMode.Valid() {
		return fmt.Errorf("unknown blend mode %q", raw.BlendMode)
	}

	params, err := decodeParams(raw.Kind, raw.Params)
	if err != nil {
		return err
	}

	l.ID = raw.ID
	l.Name = raw.Name
	l.Kind = raw.Kind
	l.BlendMode = raw.BlendMode
	l.Opacity = raw.Opacity
	l.Visible = raw.Visible
	l.Params = params
	return nil
}

func decodeParams(kind Kind, data json.RawMessage) (Params, error) {
	unmarshal := func(v any) error {
		if len(data) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("invalid %s params: %w", kind, err)
		}
		return nil
	}

	switch kind {
	case KindGradientNoise:
		p := DefaultNoiseParams()
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		return p, nil
	case KindCellular:
		p := DefaultCellularParams()
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		return p, nil
	case KindDots:
		p := DefaultDotsParams()
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		return p, nil
	case KindStripes:
		p := DefaultStripesParams()
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		return p, nil
	case KindMask:
		p := DefaultMaskParams()
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		if !p.Shape.Valid() {
			return nil, fmt.Errorf("unknown mask shape %q", p.Shape)
		}
		return p, nil
	case KindImage:
		p := DefaultImageParams()
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		return p, nil
	case KindWarp:
		p := DefaultWarpParams()
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		if !p.Type.Valid() {
			return nil, fmt.Errorf("unknown warp type %q", p.Type)
		}
		return p, nil
	case KindGrain:
		p := DefaultGrainParams()
		if err := unmarshal(&p); err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, fmt.Errorf("unknown layer kind %q", kind)
}
