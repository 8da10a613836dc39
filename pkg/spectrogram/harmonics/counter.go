package harmonics

// CounterState tracks the overtone count across render passes. It has value
// semantics: the render pass takes the prior state and returns the next, so
// the pass stays a pure function of its inputs and the counter is testable
// without a live rendering surface.
type CounterState struct {
	Current int
	Best    int
}

// Update folds one detection result into the counter. While actively
// recording, Current is monotonically non-decreasing so momentary dropouts
// mid-note do not make the badge flicker; during playback or idle review it
// tracks the latest detection exactly. Best is the running session maximum.
func (c CounterState) Update(series *Series, recording bool) CounterState {
	overtones := series.OvertoneCount()

	if recording {
		if overtones > c.Current {
			c.Current = overtones
		}
	} else {
		c.Current = overtones
	}

	if c.Current > c.Best {
		c.Best = c.Current
	}
	return c
}

// Reset returns the zero counter, used on full session reset.
func (c CounterState) Reset() CounterState {
	return CounterState{}
}
