// Package history keeps a sliding time window of telemetry frames for plotting.
package history

import (
	"sync"
	"time"

	"github.com/itohio/anglemeter/pkg/angle"
	"github.com/itohio/anglemeter/pkg/telemetry"
)

// DefaultWindow is the span of history kept for the scope.
const DefaultWindow = 30 * time.Second

// Buffer holds frames inside a time window together with the angular rate
// between consecutive frames.
//
// Frames are ordered oldest first. rates[i] is the rate from frames[i] to
// frames[i+1], so n frames have n-1 rates.
type Buffer struct {
	window time.Duration

	mu     sync.RWMutex
	frames []telemetry.Frame
	rates  []float32 // deg/s

	cbMu      sync.RWMutex
	callbacks []func(frames []telemetry.Frame, rates []float32)
}

// New creates a buffer keeping window of history. Zero selects DefaultWindow.
func New(window time.Duration) *Buffer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Buffer{window: window}
}

// Window returns the history span.
func (b *Buffer) Window() time.Duration {
	return b.window
}

// Process consumes frames until input is closed.
func (b *Buffer) Process(input <-chan telemetry.Frame) {
	for f := range input {
		b.Add(f)
	}
}

// Add appends a frame, drops frames older than the window and notifies
// subscribers. A frame older than the newest one means the instrument
// restarted, and the history starts over.
func (b *Buffer) Add(f telemetry.Frame) {
	b.mu.Lock()
	if n := len(b.frames); n > 0 {
		prev := b.frames[n-1]
		switch {
		case f.Millis < prev.Millis:
			b.frames = b.frames[:0]
			b.rates = b.rates[:0]
		case f.Millis == prev.Millis:
			b.frames[n-1] = f
			if n >= 2 {
				b.rates[n-2] = Rate(b.frames[n-2], f)
			}
			b.mu.Unlock()
			b.notify()
			return
		default:
			b.rates = append(b.rates, Rate(prev, f))
		}
	}
	b.frames = append(b.frames, f)

	cutoff := int64(f.Millis) - b.window.Milliseconds()
	drop := 0
	for drop < len(b.frames)-1 && int64(b.frames[drop].Millis) < cutoff {
		drop++
	}
	if drop > 0 {
		b.frames = append(b.frames[:0], b.frames[drop:]...)
		if drop <= len(b.rates) {
			b.rates = append(b.rates[:0], b.rates[drop:]...)
		} else {
			b.rates = b.rates[:0]
		}
	}
	b.mu.Unlock()

	b.notify()
}

// Rate returns the angular speed of the displayed angle from a to b in deg/s,
// following the short way around the circle.
func Rate(a, b telemetry.Frame) float32 {
	dt := float32(int64(b.Millis)-int64(a.Millis)) / 1000
	if dt <= 0 {
		return 0
	}
	return float32(angle.Diff(b.Displayed, a.Displayed)) / 100 / dt
}

// Frames returns a copy of the buffered frames, oldest first.
func (b *Buffer) Frames() []telemetry.Frame {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]telemetry.Frame(nil), b.frames...)
}

// Rates returns a copy of the per-pair rates.
func (b *Buffer) Rates() []float32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]float32(nil), b.rates...)
}

// Len returns the number of buffered frames.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.frames)
}

// OnUpdate registers a callback invoked after every Add with copies of the
// buffer contents.
func (b *Buffer) OnUpdate(cb func(frames []telemetry.Frame, rates []float32)) {
	b.cbMu.Lock()
	defer b.cbMu.Unlock()
	b.callbacks = append(b.callbacks, cb)
}

func (b *Buffer) notify() {
	b.cbMu.RLock()
	cbs := b.callbacks
	b.cbMu.RUnlock()
	if len(cbs) == 0 {
		return
	}

	frames, rates := b.Frames(), b.Rates()
	for _, cb := range cbs {
		cb(frames, rates)
	}
}
