package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"sort"

	"github.com/RyanBlaney/vocal-spectrogram/pkg/logging"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram/harmonics"
)

// Settings holds everything the compositor needs to rasterize one pass.
// Settings are fixed for a compositor's lifetime; sessions apply changed
// settings by swapping in a new compositor between passes.
type Settings struct {
	Width      int     // logical canvas width
	Height     int     // logical canvas height
	PixelRatio float64 // device pixel ratio

	MinFrequency float64
	MaxFrequency float64

	Scale          spectrogram.IntensityScale
	Scheme         spectrogram.ColorScheme
	IntensityBoost float64 // percent
	Brightness     float64 // percent
	Declutter      float64 // [0,1]
	Sharpness      float64 // [0,100]: 0 full inter-frame blend, 100 nearest frame

	ShowFrequencyMarkers bool
	TargetHarmonic       int // 0 disables the guide

	SampleRate int
	FFTSize    int
}

// State carries the per-pass transient inputs that are not settings.
type State struct {
	Recording    bool
	PlaybackTime float64 // negative hides the playback cursor
	CursorX      int     // device pixels; negative hides the crosshair
	CursorY      int
	Band         *spectrogram.FilterBand
	Counter      harmonics.CounterState
}

// Layout margins in logical pixels.
const (
	marginLeft   = 56
	marginTop    = 8
	marginRight  = 8
	marginBottom = 22
)

// Compositor rasterizes visible frames into an offscreen spectrogram bitmap
// and composites it with vector overlays onto a canvas. The overlays are
// drawn on the canvas only, never into the bitmap, so the bitmap stays
// exportable without UI chrome.
type Compositor struct {
	settings Settings
	scale    spectrogram.FreqScale
	cmap     spectrogram.ColorMap
	chart    image.Rectangle
	bitmap   *image.RGBA
	canvas   *image.RGBA
	logger   logging.Logger
}

// NewCompositor creates a compositor for the given settings.
func NewCompositor(settings Settings, logger logging.Logger) *Compositor {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	if settings.PixelRatio <= 0 {
		settings.PixelRatio = 1
	}

	px := func(v int) int { return int(float64(v)*settings.PixelRatio + 0.5) }
	pw, ph := px(settings.Width), px(settings.Height)
	chart := image.Rect(px(marginLeft), px(marginTop), pw-px(marginRight), ph-px(marginBottom))

	logger.Debug("Compositor initialized", logging.Fields{
		"width":       pw,
		"height":      ph,
		"pixel_ratio": settings.PixelRatio,
	})

	return &Compositor{
		settings: settings,
		scale:    spectrogram.NewFreqScale(settings.MinFrequency, settings.MaxFrequency),
		cmap: spectrogram.ColorMap{
			Scale:      settings.Scale,
			Scheme:     settings.Scheme,
			Boost:      settings.IntensityBoost / 100,
			Brightness: settings.Brightness / 100,
		},
		chart:  chart,
		bitmap: image.NewRGBA(image.Rect(0, 0, chart.Dx(), chart.Dy())),
		canvas: image.NewRGBA(image.Rect(0, 0, pw, ph)),
		logger: logger.WithFields(logging.Fields{"component": "compositor"}),
	}
}

// Settings returns the compositor's settings.
func (c *Compositor) Settings() Settings {
	return c.settings
}

// Bitmap returns the spectrogram-only offscreen raster from the last pass,
// read-only for export collaborators.
func (c *Compositor) Bitmap() *image.RGBA {
	return c.bitmap
}

// Canvas returns the full composited raster from the last pass.
func (c *Compositor) Canvas() *image.RGBA {
	return c.canvas
}

// WritePNG encodes the composited canvas as PNG.
func (c *Compositor) WritePNG(w io.Writer) error {
	return png.Encode(w, c.canvas)
}

// Render performs one full pass: spectrogram bitmap, then overlays back to
// front. The detection series is computed once by the caller and shared by
// the marker and guide overlays so both agree within a frame.
func (c *Compositor) Render(frames []spectrogram.Frame, window spectrogram.TimeWindow, series *harmonics.Series, state State) *image.RGBA {
	fillRect(c.canvas, c.canvas.Bounds(), backgroundColor)
	fillRect(c.canvas, c.chart, chartBGColor)

	c.drawGrid(window)
	c.drawAxes()
	if c.settings.ShowFrequencyMarkers {
		c.drawFrequencyLabels()
	}
	c.drawTimeLabels(window)

	c.renderBitmap(frames, window)
	draw.Draw(c.canvas, c.chart, c.bitmap, image.Point{}, draw.Over)

	if state.Band != nil {
		c.dimOutsideBand(*state.Band)
	}
	c.drawHarmonicMarkers(series)
	c.drawTargetGuide(series)
	c.drawCounterBadge(state.Counter)
	if state.PlaybackTime >= 0 {
		c.drawPlaybackCursor(window, state.PlaybackTime)
	}
	if state.CursorX >= 0 && state.CursorY >= 0 {
		c.drawCrosshair(window, state.CursorX, state.CursorY)
	}
	if state.Recording {
		c.drawRecordingIndicator()
	}

	return c.canvas
}

// rowMap precomputes one destination row's source-bin lookup.
type rowMap struct {
	binLow   int
	mix      float64
	sentinel bool
}

// renderBitmap rasterizes the visible frames into the offscreen bitmap with
// bilinear interpolation across time and frequency. Declutter gating runs
// on each source frame before interpolation so gating decisions are made on
// original magnitudes.
func (c *Compositor) renderBitmap(frames []spectrogram.Frame, window spectrogram.TimeWindow) {
	w, h := c.bitmap.Rect.Dx(), c.bitmap.Rect.Dy()
	fillRect(c.bitmap, c.bitmap.Bounds(), chartBGColor)

	if len(frames) == 0 || window.Duration <= 0 || w <= 0 || h <= 0 {
		return
	}

	bins := len(frames[0].Magnitudes)
	binHz := float64(c.settings.SampleRate) / float64(c.settings.FFTSize)
	if bins == 0 || binHz <= 0 {
		return
	}

	gated := make([][]float64, len(frames))
	for i, f := range frames {
		gated[i] = spectrogram.Declutter(f.Magnitudes, c.settings.Declutter)
	}

	rows := make([]rowMap, h)
	for y := range h {
		freq := c.scale.YToFreq((float64(y) + 0.5) / float64(h))
		binPos := freq / binHz
		binLow := int(binPos)
		if binLow < 0 || binLow >= bins-1 {
			rows[y] = rowMap{sentinel: true}
			continue
		}
		rows[y] = rowMap{binLow: binLow, mix: binPos - float64(binLow)}
	}

	timestamps := make([]float64, len(frames))
	for i, f := range frames {
		timestamps[i] = f.Timestamp
	}
	sharp := math.Min(math.Max(c.settings.Sharpness/100, 0), 1)

	for x := range w {
		t := window.Start + (float64(x)+0.5)/float64(w)*window.Duration
		i1 := sort.SearchFloat64s(timestamps, t)
		i0 := i1 - 1
		if i0 < 0 {
			i0, i1 = 0, 0
		}
		if i1 >= len(frames) {
			i1 = len(frames) - 1
			i0 = i1
		}

		mix := 0.0
		if i1 > i0 && timestamps[i1] > timestamps[i0] {
			mix = (t - timestamps[i0]) / (timestamps[i1] - timestamps[i0])
		}
		// Sharpness attenuates inter-frame blending: at 100 the lookup
		// snaps to the nearest frame, at 0 it is a full linear blend.
		mix = mix*(1-sharp) + math.Round(mix)*sharp

		m0, m1 := gated[i0], gated[i1]
		for y := range h {
			row := rows[y]
			if row.sentinel {
				c.bitmap.SetRGBA(x, y, sentinelColor)
				continue
			}
			v0 := m0[row.binLow]*(1-row.mix) + m0[row.binLow+1]*row.mix
			v1 := m1[row.binLow]*(1-row.mix) + m1[row.binLow+1]*row.mix
			v := v0*(1-mix) + v1*mix

			px := c.cmap.Pixel(v)
			c.bitmap.SetRGBA(x, y, compositeOver(chartBGColor, px))
		}
	}
}

// compositeOver alpha-composites src over an opaque background.
func compositeOver(bg, src color.RGBA) color.RGBA {
	a := float64(src.A) / 255
	blend := func(b, s uint8) uint8 {
		return uint8(float64(b)*(1-a) + float64(s)*a + 0.5)
	}
	return color.RGBA{
		R: blend(bg.R, src.R),
		G: blend(bg.G, src.G),
		B: blend(bg.B, src.B),
		A: 255,
	}
}
