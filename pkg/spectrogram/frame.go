package spectrogram

import (
	"sort"
	"sync"
)

// Frame is one analysis instant of the rolling spectrogram: a timestamp in
// seconds since session start and one normalized magnitude per FFT bin.
// Frames are immutable once appended.
type Frame struct {
	Timestamp  float64
	Magnitudes []float64
}

// BinCount returns the number of frequency bins in the frame.
func (f Frame) BinCount() int {
	return len(f.Magnitudes)
}

// FrameBuffer is an append-only, capacity-bounded sequence of frames.
// Insertion order is temporal order and is authoritative for all downstream
// time math. Eviction from the front invalidates raw indices, so consumers
// resolve ranges through timestamps (FramesBetween), never cached positions.
//
// There is one logical writer (frame ingestion) and one logical reader (the
// render pass); the mutex covers the slice header so a render pass sees a
// consistent snapshot-by-reference of the frames as they stood at pass
// start, even while capture keeps appending.
type FrameBuffer struct {
	mu        sync.Mutex
	maxFrames int
	binCount  int
	frames    []Frame
}

// NewFrameBuffer creates a buffer holding at most maxFrames frames.
func NewFrameBuffer(maxFrames int) *FrameBuffer {
	if maxFrames < 1 {
		maxFrames = 1
	}
	return &FrameBuffer{
		maxFrames: maxFrames,
		frames:    make([]Frame, 0, min(maxFrames, 4096)),
	}
}

// Append adds a frame, evicting the oldest frames once the buffer exceeds
// its capacity. Frames whose bin count does not match the session's are
// dropped rather than aborting the session; one malformed frame should not
// blank the visualization.
func (b *FrameBuffer) Append(frame Frame) {
	if len(frame.Magnitudes) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.binCount == 0 {
		b.binCount = len(frame.Magnitudes)
	} else if len(frame.Magnitudes) != b.binCount {
		return
	}

	b.frames = append(b.frames, frame)
	if len(b.frames) > b.maxFrames {
		b.evictOldest(len(b.frames) - b.maxFrames)
	}
}

// evictOldest drops the n oldest frames.
func (b *FrameBuffer) evictOldest(n int) {
	if n <= 0 {
		return
	}
	if n >= len(b.frames) {
		b.frames = b.frames[:0]
		return
	}
	b.frames = b.frames[n:]

	// Reclaim the abandoned prefix once it dominates the backing array.
	if cap(b.frames) > 2*b.maxFrames {
		compacted := make([]Frame, len(b.frames), b.maxFrames)
		copy(compacted, b.frames)
		b.frames = compacted
	}
}

// Len returns the current number of buffered frames.
func (b *FrameBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.frames)
}

// BinCount returns the per-frame bin count, 0 until the first frame arrives.
func (b *FrameBuffer) BinCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.binCount
}

// Frames returns a snapshot-by-reference view of the buffered frames. The
// returned slice header is stable for the duration of one render pass even
// if the buffer mutates concurrently.
func (b *FrameBuffer) Frames() []Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frames
}

// Duration returns the timestamp of the newest frame, 0 when empty.
func (b *FrameBuffer) Duration() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.frames) == 0 {
		return 0
	}
	return b.frames[len(b.frames)-1].Timestamp
}

// FramesBetween returns the contiguous frames with start <= Timestamp <= end.
func (b *FrameBuffer) FramesBetween(start, end float64) []Frame {
	return FramesBetween(b.Frames(), start, end)
}

// Reset discards all frames and the session bin count.
func (b *FrameBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = nil
	b.binCount = 0
}

// FramesBetween returns the subslice of frames with start <= Timestamp <= end.
// frames must be in timestamp order.
func FramesBetween(frames []Frame, start, end float64) []Frame {
	if len(frames) == 0 || end < start {
		return nil
	}
	lo := sort.Search(len(frames), func(i int) bool {
		return frames[i].Timestamp >= start
	})
	hi := sort.Search(len(frames), func(i int) bool {
		return frames[i].Timestamp > end
	})
	if lo >= hi {
		return nil
	}
	return frames[lo:hi]
}
