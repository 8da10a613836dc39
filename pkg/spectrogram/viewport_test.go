package spectrogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// quietThenLoud builds a frame sequence with leading near-silence followed
// by voiced content.
func quietThenLoud(quiet, loud int) []Frame {
	var frames []Frame
	ts := 0.0
	for range quiet {
		frames = append(frames, makeFrame(ts, 0.02, 0.01))
		ts += 0.1
	}
	for range loud {
		frames = append(frames, makeFrame(ts, 0.5, 0.3))
		ts += 0.1
	}
	return frames
}

func TestResolveTimelineTrimsLeadingSilence(t *testing.T) {
	frames := quietThenLoud(10, 20)

	timeline := ResolveTimeline(frames)

	assert.InDelta(t, 1.0, timeline.ActualStart, 1e-9, "content starts after the 10 quiet frames")
	assert.InDelta(t, 2.9-1.0, timeline.AdjustedDuration, 1e-9)
}

func TestResolveTimelineAllLoud(t *testing.T) {
	frames := quietThenLoud(0, 10)

	timeline := ResolveTimeline(frames)

	// The floor estimate comes from loud frames, so nothing exceeds 1.5x
	// the floor and no trimming happens.
	assert.Equal(t, 0.0, timeline.ActualStart)
}

func TestResolveTimelineEmpty(t *testing.T) {
	timeline := ResolveTimeline(nil)
	assert.Equal(t, Timeline{}, timeline)
}

func TestWindowFullZoom(t *testing.T) {
	frames := quietThenLoud(10, 20)
	timeline := ResolveTimeline(frames)

	window := timeline.Window(Viewport{ZoomPercent: 100, ScrollPosition: 0})

	assert.InDelta(t, timeline.ActualStart, window.Start, 1e-9)
	assert.InDelta(t, timeline.AdjustedDuration, window.Duration, 1e-9)
}

func TestWindowZoomAndScroll(t *testing.T) {
	timeline := Timeline{ActualStart: 2, AdjustedDuration: 10}

	window := timeline.Window(Viewport{ZoomPercent: 50, ScrollPosition: 1})

	assert.InDelta(t, 5.0, window.Duration, 1e-9)
	// Scroll 1 anchors to the newest data: start + (10-5).
	assert.InDelta(t, 7.0, window.Start, 1e-9)
	assert.InDelta(t, 12.0, window.End(), 1e-9)
}

func TestViewportClamp(t *testing.T) {
	v := Viewport{ZoomPercent: 400, ScrollPosition: -1}.Clamp()
	assert.Equal(t, 100.0, v.ZoomPercent)
	assert.Equal(t, 0.0, v.ScrollPosition)

	v = Viewport{ZoomPercent: 0, ScrollPosition: 2}.Clamp()
	assert.Equal(t, 1.0, v.ZoomPercent)
	assert.Equal(t, 1.0, v.ScrollPosition)
}

func TestTimeToXRoundTrip(t *testing.T) {
	window := TimeWindow{Start: 3, Duration: 6}
	width := 800

	for _, ts := range []float64{3, 4.5, 6, 9} {
		x := window.TimeToX(ts, width)
		assert.InDelta(t, ts, window.XToTime(x, width), 1e-9)
	}

	assert.Equal(t, 0.0, window.TimeToX(3, width))
	assert.InDelta(t, float64(width), window.TimeToX(9, width), 1e-9)
}
