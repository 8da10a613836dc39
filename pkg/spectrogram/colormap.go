package spectrogram

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
)

// IntensityScale selects how raw magnitudes are mapped to display intensity.
type IntensityScale int

const (
	ScaleLinear IntensityScale = iota
	ScaleLogarithmic
	ScalePower
)

func (s IntensityScale) String() string {
	switch s {
	case ScaleLinear:
		return "linear"
	case ScaleLogarithmic:
		return "logarithmic"
	case ScalePower:
		return "power"
	default:
		return "unknown"
	}
}

// ParseIntensityScale converts a config string into an IntensityScale.
func ParseIntensityScale(s string) (IntensityScale, error) {
	switch s {
	case "linear":
		return ScaleLinear, nil
	case "logarithmic", "log":
		return ScaleLogarithmic, nil
	case "power", "sqrt":
		return ScalePower, nil
	default:
		return ScaleLinear, fmt.Errorf("unknown intensity scale: %q", s)
	}
}

// ColorScheme selects the heatmap color ramp.
type ColorScheme int

const (
	SchemeDefault ColorScheme = iota
	SchemeWarm
	SchemeCool
	SchemeMonochrome
)

func (c ColorScheme) String() string {
	switch c {
	case SchemeDefault:
		return "default"
	case SchemeWarm:
		return "warm"
	case SchemeCool:
		return "cool"
	case SchemeMonochrome:
		return "monochrome"
	default:
		return "unknown"
	}
}

// ParseColorScheme converts a config string into a ColorScheme.
func ParseColorScheme(s string) (ColorScheme, error) {
	switch s {
	case "default", "":
		return SchemeDefault, nil
	case "warm":
		return SchemeWarm, nil
	case "cool":
		return SchemeCool, nil
	case "monochrome", "mono":
		return SchemeMonochrome, nil
	default:
		return SchemeDefault, fmt.Errorf("unknown color scheme: %q", s)
	}
}

// Declutter applies a noise gate relative to the frame's loudest bin: every
// bin below max(magnitudes)*threshold is zeroed. A threshold <= 0 is the
// identity and returns the input slice unchanged. The gate is computed from
// original magnitudes, so callers apply it before any interpolation.
func Declutter(magnitudes []float64, threshold float64) []float64 {
	if threshold <= 0 || len(magnitudes) == 0 {
		return magnitudes
	}
	gate := floats.Max(magnitudes) * threshold
	gated := make([]float64, len(magnitudes))
	for i, m := range magnitudes {
		if m >= gate {
			gated[i] = m
		}
	}
	return gated
}

// rampStop is one breakpoint of a piecewise-linear color ramp.
type rampStop struct {
	pos     float64
	r, g, b float64
}

// Ramps are monotonic in perceived brightness and continuous at stop
// boundaries; adjacent segments share their endpoint exactly.
var colorRamps = map[ColorScheme][]rampStop{
	SchemeDefault: {
		{0.00, 0, 0, 0},
		{0.25, 32, 0, 96},
		{0.50, 160, 32, 128},
		{0.75, 255, 128, 32},
		{1.00, 255, 255, 224},
	},
	SchemeWarm: {
		{0.00, 0, 0, 0},
		{0.33, 128, 16, 0},
		{0.66, 255, 96, 0},
		{1.00, 255, 240, 200},
	},
	SchemeCool: {
		{0.00, 0, 0, 0},
		{0.33, 0, 32, 128},
		{0.66, 0, 160, 192},
		{1.00, 224, 255, 255},
	},
	SchemeMonochrome: {
		{0.00, 0, 0, 0},
		{1.00, 255, 255, 255},
	},
}

// ColorMap is the full intensity-to-pixel pipeline: intensity scaling with
// boost, an independent brightness multiplier, and a color ramp lookup.
// Boost and Brightness are multipliers (user percent / 100).
type ColorMap struct {
	Scale      IntensityScale
	Scheme     ColorScheme
	Boost      float64
	Brightness float64
}

// Intensity maps a raw magnitude in [0,1] to a display intensity in [0,1].
func (m ColorMap) Intensity(mag float64) float64 {
	v := mag * m.Boost

	switch m.Scale {
	case ScaleLinear:
		// already v
	case ScaleLogarithmic:
		v = math.Log10(1 + 9*v)
	case ScalePower:
		v = math.Sqrt(math.Max(v, 0))
	}
	v = clamp01(v)

	// Brightness layers after scaling and clamps again.
	return clamp01(v * m.Brightness)
}

// Pixel maps a raw magnitude to an RGBA value. Alpha equals the scaled
// intensity, so weak bins blend toward the chart background.
func (m ColorMap) Pixel(mag float64) color.RGBA {
	v := m.Intensity(mag)
	r, g, b := m.Scheme.ramp(v)
	return color.RGBA{R: r, G: g, B: b, A: uint8(v*255 + 0.5)}
}

// ramp evaluates the scheme's piecewise-linear ramp at v in [0,1].
func (c ColorScheme) ramp(v float64) (uint8, uint8, uint8) {
	stops, ok := colorRamps[c]
	if !ok {
		stops = colorRamps[SchemeDefault]
	}
	v = clamp01(v)

	for i := 1; i < len(stops); i++ {
		if v <= stops[i].pos {
			lo, hi := stops[i-1], stops[i]
			t := 0.0
			if hi.pos > lo.pos {
				t = (v - lo.pos) / (hi.pos - lo.pos)
			}
			return uint8(lo.r + t*(hi.r-lo.r) + 0.5),
				uint8(lo.g + t*(hi.g-lo.g) + 0.5),
				uint8(lo.b + t*(hi.b-lo.b) + 0.5)
		}
	}
	last := stops[len(stops)-1]
	return uint8(last.r), uint8(last.g), uint8(last.b)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
