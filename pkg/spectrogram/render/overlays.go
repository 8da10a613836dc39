package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram"
	"github.com/RyanBlaney/vocal-spectrogram/pkg/spectrogram/harmonics"
)

// Overlay palette.
var (
	backgroundColor = color.RGBA{24, 26, 32, 255}
	chartBGColor    = color.RGBA{8, 9, 12, 255}
	sentinelColor   = color.RGBA{0, 0, 0, 255}
	gridColor       = color.RGBA{255, 255, 255, 24}
	axisColor       = color.RGBA{120, 128, 140, 255}
	labelColor      = color.RGBA{150, 158, 170, 255}
	markerColor     = color.RGBA{64, 224, 255, 220}
	guideHitColor   = color.RGBA{64, 255, 128, 230}
	guideMissColor  = color.RGBA{255, 180, 48, 230}
	guideBandAlpha  = uint8(36)
	badgeBGColor    = color.RGBA{0, 0, 0, 160}
	badgeTextColor  = color.RGBA{235, 240, 245, 255}
	cursorColor     = color.RGBA{255, 255, 255, 200}
	crosshairColor  = color.RGBA{255, 255, 255, 90}
	recordingColor  = color.RGBA{255, 64, 64, 255}
	bandDimColor    = color.RGBA{0, 0, 0, 150}
)

// Markers closer together than this (logical pixels) collapse into one.
const markerMinGap = 18

// Target guide tolerance: a harmonic within this fraction of the target
// frequency counts as hitting it.
const guideTolerance = 0.05

// freqGridLines is the 1-2-5 ladder used for horizontal grid lines.
var freqGridLines = []float64{50, 100, 200, 500, 1000, 2000, 5000, 10000, 20000}

// px converts logical to device pixels.
func (c *Compositor) px(v float64) int {
	return int(v*c.settings.PixelRatio + 0.5)
}

// freqToChartY maps a frequency to a device-pixel row inside the chart.
// Frequencies at the bottom of the scale land on the last chart row, not on
// the axis row below it.
func (c *Compositor) freqToChartY(freq float64) int {
	y := c.chart.Min.Y + int(c.scale.FreqToY(freq)*float64(c.chart.Dy()))
	return min(y, c.chart.Max.Y-1)
}

func (c *Compositor) drawGrid(window spectrogram.TimeWindow) {
	for _, f := range freqGridLines {
		if !c.scale.Contains(f) {
			continue
		}
		y := c.freqToChartY(f)
		drawHLine(c.canvas, c.chart.Min.X, c.chart.Max.X-1, y, gridColor)
	}

	step := timeGridStep(window.Duration)
	if step <= 0 {
		return
	}
	for t := math.Ceil(window.Start/step) * step; t <= window.End(); t += step {
		x := c.chart.Min.X + int(window.TimeToX(t, c.chart.Dx()))
		if x < c.chart.Min.X || x >= c.chart.Max.X {
			continue
		}
		drawVLine(c.canvas, x, c.chart.Min.Y, c.chart.Max.Y-1, gridColor)
	}
}

// timeGridStep picks a grid spacing yielding at most ten divisions.
func timeGridStep(duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	for _, step := range []float64{0.1, 0.2, 0.5, 1, 2, 5, 10, 30, 60, 300} {
		if duration/step <= 10 {
			return step
		}
	}
	return 600
}

func (c *Compositor) drawAxes() {
	drawVLine(c.canvas, c.chart.Min.X-1, c.chart.Min.Y, c.chart.Max.Y, axisColor)
	drawHLine(c.canvas, c.chart.Min.X-1, c.chart.Max.X-1, c.chart.Max.Y, axisColor)
}

func (c *Compositor) drawFrequencyLabels() {
	for _, f := range freqGridLines {
		if !c.scale.Contains(f) {
			continue
		}
		y := c.freqToChartY(f)
		label := formatFrequency(f)
		drawText(c.canvas, c.chart.Min.X-c.px(6)-textWidth(label), y+4, label, labelColor)
	}
}

func (c *Compositor) drawTimeLabels(window spectrogram.TimeWindow) {
	step := timeGridStep(window.Duration)
	if step <= 0 {
		return
	}
	baseline := c.chart.Max.Y + c.px(14)
	for t := math.Ceil(window.Start/step) * step; t <= window.End(); t += step {
		x := c.chart.Min.X + int(window.TimeToX(t, c.chart.Dx()))
		if x < c.chart.Min.X || x >= c.chart.Max.X {
			continue
		}
		label := formatTime(t, step)
		drawText(c.canvas, x-textWidth(label)/2, baseline, label, labelColor)
	}
}

func formatFrequency(f float64) string {
	if f >= 1000 {
		if math.Mod(f, 1000) == 0 {
			return fmt.Sprintf("%.0fk", f/1000)
		}
		return fmt.Sprintf("%.1fk", f/1000)
	}
	return fmt.Sprintf("%.0f", f)
}

func formatTime(t, step float64) string {
	if step < 1 {
		return fmt.Sprintf("%.1fs", t)
	}
	return fmt.Sprintf("%.0fs", t)
}

// dimOutsideBand darkens the chart regions above and below the filter band.
func (c *Compositor) dimOutsideBand(band spectrogram.FilterBand) {
	band = band.Clamp()
	highY := c.freqToChartY(band.HighFreq)
	lowY := c.freqToChartY(band.LowFreq)

	if highY > c.chart.Min.Y {
		blendRect(c.canvas, image.Rect(c.chart.Min.X, c.chart.Min.Y, c.chart.Max.X, highY), bandDimColor)
	}
	if lowY < c.chart.Max.Y {
		blendRect(c.canvas, image.Rect(c.chart.Min.X, lowY, c.chart.Max.X, c.chart.Max.Y), bandDimColor)
	}
}

// marker is one harmonic marker candidate prior to cluster suppression.
type marker struct {
	y        int
	n        int
	freq     float64
	strength float64
}

// drawHarmonicMarkers draws a horizontal marker line and badge for every
// detected partial inside the visible frequency window. Markers are sorted
// by Y and any marker within markerMinGap of an already kept one is
// suppressed, keeping the highest on screen, so badges stay readable at
// high harmonic counts.
func (c *Compositor) drawHarmonicMarkers(series *harmonics.Series) {
	if series == nil {
		return
	}

	var markers []marker
	for i, h := range series.Harmonics {
		if !c.scale.Contains(h.Frequency) {
			continue
		}
		markers = append(markers, marker{
			y:        c.freqToChartY(h.Frequency),
			n:        i + 1,
			freq:     h.Frequency,
			strength: h.Strength,
		})
	}
	if len(markers) == 0 {
		return
	}

	sort.Slice(markers, func(i, j int) bool { return markers[i].y < markers[j].y })

	gap := c.px(markerMinGap)
	lastY := math.MinInt32
	for _, m := range markers {
		if m.y-lastY < gap && lastY != math.MinInt32 {
			continue
		}
		lastY = m.y

		lineColor := markerColor
		lineColor.A = uint8(80 + 140*math.Min(m.strength, 1))
		drawHLine(c.canvas, c.chart.Min.X, c.chart.Max.X-1, m.y, lineColor)

		label := fmt.Sprintf("%d× %s", m.n, formatFrequency(m.freq))
		drawText(c.canvas, c.chart.Min.X+c.px(4), m.y-3, label, markerColor)
	}
}

// drawTargetGuide renders the practice aid: a horizontal band at the target
// harmonic of the current fundamental, restyled when a detected harmonic is
// within tolerance of the target.
func (c *Compositor) drawTargetGuide(series *harmonics.Series) {
	n := c.settings.TargetHarmonic
	if n < 1 || series == nil {
		return
	}
	targetFreq := series.Fundamental * float64(n)
	if !c.scale.Contains(targetFreq) {
		return
	}

	hitting := false
	for _, h := range series.Harmonics {
		if math.Abs(h.Frequency-targetFreq) <= guideTolerance*targetFreq {
			hitting = true
			break
		}
	}

	guideColor := guideMissColor
	if hitting {
		guideColor = guideHitColor
	}

	topY := c.freqToChartY(targetFreq * (1 + guideTolerance))
	bottomY := c.freqToChartY(targetFreq * (1 - guideTolerance))
	bandColor := guideColor
	bandColor.A = guideBandAlpha
	blendRect(c.canvas, image.Rect(c.chart.Min.X, topY, c.chart.Max.X, bottomY+1), bandColor)

	centerY := c.freqToChartY(targetFreq)
	if hitting {
		drawHLine(c.canvas, c.chart.Min.X, c.chart.Max.X-1, centerY, guideColor)
	} else {
		drawDashedHLine(c.canvas, c.chart.Min.X, c.chart.Max.X-1, centerY, c.px(5), guideColor)
	}

	status := "off"
	if hitting {
		status = "hit"
	}
	label := fmt.Sprintf("target %d× %s %s", n, formatFrequency(targetFreq), status)
	drawText(c.canvas, c.chart.Max.X-textWidth(label)-c.px(6), centerY-3, label, guideColor)
}

// drawCounterBadge renders the overtone counter in the top-right corner.
func (c *Compositor) drawCounterBadge(counter harmonics.CounterState) {
	label := fmt.Sprintf("overtones %d  best %d", counter.Current, counter.Best)
	w := textWidth(label) + c.px(12)
	h := c.px(18)
	rect := image.Rect(c.chart.Max.X-w-c.px(4), c.chart.Min.Y+c.px(4),
		c.chart.Max.X-c.px(4), c.chart.Min.Y+c.px(4)+h)
	blendRect(c.canvas, rect, badgeBGColor)
	drawText(c.canvas, rect.Min.X+c.px(6), rect.Min.Y+h/2+4, label, badgeTextColor)
}

func (c *Compositor) drawPlaybackCursor(window spectrogram.TimeWindow, t float64) {
	if t < window.Start || t > window.End() {
		return
	}
	x := c.chart.Min.X + int(window.TimeToX(t, c.chart.Dx()))
	drawVLine(c.canvas, x, c.chart.Min.Y, c.chart.Max.Y-1, cursorColor)
}

func (c *Compositor) drawCrosshair(window spectrogram.TimeWindow, x, y int) {
	pt := image.Pt(x, y)
	if !pt.In(c.chart) {
		return
	}
	drawVLine(c.canvas, x, c.chart.Min.Y, c.chart.Max.Y-1, crosshairColor)
	drawHLine(c.canvas, c.chart.Min.X, c.chart.Max.X-1, y, crosshairColor)

	freq := c.scale.YToFreq(float64(y-c.chart.Min.Y) / float64(c.chart.Dy()))
	t := window.XToTime(float64(x-c.chart.Min.X), c.chart.Dx())
	label := fmt.Sprintf("%.0f Hz  %.2fs", freq, t)
	drawText(c.canvas, x+c.px(8), y-c.px(6), label, badgeTextColor)
}

func (c *Compositor) drawRecordingIndicator() {
	cx := c.chart.Min.X + c.px(12)
	cy := c.chart.Min.Y + c.px(12)
	r := c.px(5)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.canvas.SetRGBA(cx+dx, cy+dy, recordingColor)
			}
		}
	}
	drawText(c.canvas, cx+r+c.px(6), cy+4, "REC", recordingColor)
}
