package spectrogram

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Viewport holds the user-controlled zoom and scroll state. ZoomPercent is
// the visible fraction of the adjusted duration in (1,100]; ScrollPosition
// in [0,1] pans over the non-visible remainder.
type Viewport struct {
	ZoomPercent    float64
	ScrollPosition float64
}

// DefaultViewport shows the full adjusted duration.
func DefaultViewport() Viewport {
	return Viewport{ZoomPercent: 100, ScrollPosition: 0}
}

// Clamp returns the viewport with both parameters forced into range.
func (v Viewport) Clamp() Viewport {
	v.ZoomPercent = math.Min(math.Max(v.ZoomPercent, 1), 100)
	v.ScrollPosition = clamp01(v.ScrollPosition)
	return v
}

// TimeWindow is the resolved visible time range of the spectrogram.
type TimeWindow struct {
	Start    float64
	Duration float64
}

// End returns the end of the window.
func (w TimeWindow) End() float64 {
	return w.Start + w.Duration
}

// TimeToX maps a timestamp to a horizontal pixel position in [0,width].
func (w TimeWindow) TimeToX(t float64, width int) float64 {
	if w.Duration <= 0 {
		return 0
	}
	return (t - w.Start) / w.Duration * float64(width)
}

// XToTime maps a horizontal pixel position back to a timestamp.
func (w TimeWindow) XToTime(x float64, width int) float64 {
	if width <= 0 {
		return w.Start
	}
	return w.Start + x/float64(width)*w.Duration
}

// Silence trimming parameters: the noise floor is estimated from the peak
// magnitudes of the first noiseFloorFrames frames and floored at
// noiseFloorMin; content starts at the first frame exceeding
// silenceFactor times the floor.
const (
	noiseFloorFrames = 10
	noiseFloorMin    = 0.01
	silenceFactor    = 1.5
)

// Timeline is the silence-trimmed extent of a recorded series. Zoom and
// scroll units always refer to the adjusted duration, so leading dead air
// before the singer starts does not dilute the viewport.
type Timeline struct {
	ActualStart      float64
	AdjustedDuration float64
}

// ResolveTimeline trims leading silence from the frame sequence. An empty
// sequence resolves to a zero timeline.
func ResolveTimeline(frames []Frame) Timeline {
	if len(frames) == 0 {
		return Timeline{}
	}

	n := min(len(frames), noiseFloorFrames)
	peaks := make([]float64, n)
	for i := range n {
		peaks[i] = framePeak(frames[i])
	}
	floor := math.Max(stat.Mean(peaks, nil), noiseFloorMin)

	start := frames[0].Timestamp
	for _, f := range frames {
		if framePeak(f) > silenceFactor*floor {
			start = f.Timestamp
			break
		}
	}

	total := frames[len(frames)-1].Timestamp
	return Timeline{
		ActualStart:      start,
		AdjustedDuration: math.Max(total-start, 0),
	}
}

// Window resolves the viewport against the timeline into a visible window.
func (t Timeline) Window(v Viewport) TimeWindow {
	v = v.Clamp()
	visible := t.AdjustedDuration * v.ZoomPercent / 100
	slack := math.Max(t.AdjustedDuration-visible, 0)
	return TimeWindow{
		Start:    t.ActualStart + v.ScrollPosition*slack,
		Duration: visible,
	}
}

func framePeak(f Frame) float64 {
	if len(f.Magnitudes) == 0 {
		return 0
	}
	return floats.Max(f.Magnitudes)
}
