// Package sensor reads the angle potentiometer.
package sensor

import "github.com/itohio/anglemeter/pkg/angle"

// DefaultSamples is the oversampling depth of one reading.
const DefaultSamples = 64

// Source returns one 10-bit ADC sample.
type Source interface {
	Read() uint16
}

// SourceFunc adapts a function to Source.
type SourceFunc func() uint16

func (f SourceFunc) Read() uint16 { return f() }

// Averager returns the mean of several reads from Src.
type Averager struct {
	Src     Source
	Samples int
}

// NewAverager oversamples src by DefaultSamples.
func NewAverager(src Source) *Averager {
	return &Averager{Src: src, Samples: DefaultSamples}
}

func (a *Averager) Read() uint16 {
	n := a.Samples
	if n <= 0 {
		n = 1
	}
	var sum uint32
	for i := 0; i < n; i++ {
		sum += uint32(a.Src.Read())
	}
	v := sum / uint32(n)
	if v > angle.MaxADC {
		v = angle.MaxADC
	}
	return uint16(v)
}

// Shift16To10 converts a left-aligned 16-bit machine ADC value to 10 bits.
func Shift16To10(v uint16) uint16 {
	return v >> 6
}
