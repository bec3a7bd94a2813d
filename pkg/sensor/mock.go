package sensor

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/chewxy/math32"

	"github.com/itohio/anglemeter/pkg/angle"
)

// Mock simulates a potentiometer for the simulator and tests.
//
// Position and noise may be set from any goroutine.
type Mock struct {
	position atomic.Uint32
	noise    atomic.Uint32 // float32 bits, peak noise in ADC counts
	start    time.Time
	now      func() time.Time
}

// Ensure Mock implements Source.
var _ Source = (*Mock)(nil)

// NewMock creates a mock at position 0 with the given peak noise in ADC counts.
func NewMock(noise float32) *Mock {
	m := &Mock{
		start: time.Now(),
		now:   time.Now,
	}
	m.SetNoise(noise)
	return m
}

// SetNoise changes the peak noise amplitude.
func (m *Mock) SetNoise(noise float32) {
	m.noise.Store(math.Float32bits(noise))
}

// SetPosition moves the wiper to adc (clamped to 10 bits).
func (m *Mock) SetPosition(adc uint16) {
	if adc > angle.MaxADC {
		adc = angle.MaxADC
	}
	m.position.Store(uint32(adc))
}

// Position returns the wiper position without noise.
func (m *Mock) Position() uint16 {
	return uint16(m.position.Load())
}

func (m *Mock) Read() uint16 {
	pos := float32(m.position.Load())
	if noise := math.Float32frombits(m.noise.Load()); noise > 0 {
		t := float32(m.now().Sub(m.start).Nanoseconds()) * 1e-6
		// Two incommensurate tones approximate slow ADC wander.
		pos += (math32.Sin(t*0.37) + math32.Cos(t*1.13)) * noise * 0.5
	}
	pos = math32.Round(pos)
	pos = math32.Max(0, math32.Min(pos, angle.MaxADC))
	return uint16(pos)
}
