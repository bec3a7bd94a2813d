package angle

const (
	// FullCircle is 360° in centidegrees.
	FullCircle = 36000
	// HalfCircle is 180° in centidegrees.
	HalfCircle = 18000
	// MaxADC is the largest 10-bit sample.
	MaxADC = 1023
)

// Wrap reduces v into [0, FullCircle).
func Wrap(v int32) uint16 {
	v %= FullCircle
	if v < 0 {
		v += FullCircle
	}
	return uint16(v)
}

// Diff returns the shortest signed path from b to a, in [-HalfCircle, HalfCircle].
func Diff(a, b uint16) int32 {
	d := int32(a) - int32(b)
	if d > HalfCircle {
		d -= FullCircle
	} else if d < -HalfCircle {
		d += FullCircle
	}
	return d
}

// Distance returns the absolute shortest-path distance between a and b.
func Distance(a, b uint16) uint16 {
	d := Diff(a, b)
	if d < 0 {
		d = -d
	}
	return uint16(d)
}

// Add returns (v + delta) wrapped into [0, FullCircle).
func Add(v uint16, delta int32) uint16 {
	return Wrap(int32(v) + delta)
}

// Calibration maps the ADC span onto the full circle.
type Calibration struct {
	Min    uint16 // ADC value that maps to 0°
	Max    uint16 // ADC value that maps to 360°
	Invert bool   // Reverse the direction of rotation
}

// Calibrate converts a raw ADC sample into a calibrated angle.
//
// The sample is clamped to [Min, Max] and mapped linearly onto [0, 36000);
// the top of the span wraps to 0.
func Calibrate(adc uint16, c Calibration) uint16 {
	a := int32(adc)
	lo, hi := int32(c.Min), int32(c.Max)
	if a < lo {
		a = lo
	}
	if a > hi {
		a = hi
	}

	span := hi - lo
	if span < 1 {
		span = 1
	}

	ang := Wrap((a - lo) * FullCircle / span)
	if c.Invert {
		ang = Wrap(FullCircle - int32(ang))
	}
	return ang
}

// ApplyZero subtracts the zero offset from a calibrated angle.
func ApplyZero(angle, zero uint16) uint16 {
	return Wrap(int32(angle) - int32(zero))
}

// Sample is one processed reading.
type Sample struct {
	ADC   uint16 // 10-bit averaged sample
	Raw   uint16 // Calibrated angle before zero offset
	Shown uint16 // Angle after zero offset
}

// Process runs one ADC reading through calibration and zero offset.
func Process(adc uint16, cal Calibration, zero uint16) Sample {
	raw := Calibrate(adc, cal)
	return Sample{
		ADC:   adc,
		Raw:   raw,
		Shown: ApplyZero(raw, zero),
	}
}
