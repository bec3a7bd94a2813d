package nav

import "github.com/itohio/anglemeter/pkg/angle"

// Step is the SetValue editor granularity.
type Step uint8

const (
	StepMinute Step = iota
	StepTenMinutes
	StepDegree
	StepTenDegrees
	StepHundredDegrees

	numSteps
)

// Next returns the following step size, wrapping back to StepMinute.
func (s Step) Next() Step {
	return (s + 1) % numSteps
}

func (s Step) String() string {
	switch s {
	case StepMinute:
		return "1 min"
	case StepTenMinutes:
		return "10 min"
	case StepDegree:
		return "1 deg"
	case StepTenDegrees:
		return "10 deg"
	case StepHundredDegrees:
		return "100 deg"
	default:
		return "?"
	}
}

// Centidegrees returns the size of a degree step. Minute steps return 0.
func (s Step) Centidegrees() int32 {
	switch s {
	case StepDegree:
		return 100
	case StepTenDegrees:
		return 1000
	case StepHundredDegrees:
		return 10000
	default:
		return 0
	}
}

// Apply moves v one step up or down.
//
// Minute steps work on the degree/arc-minute split so the displayed minutes
// change by exactly one unit (or one tens digit). Degree steps are plain
// modular arithmetic.
func (s Step) Apply(v uint16, up bool) uint16 {
	switch s {
	case StepMinute:
		return stepMinutes(v, up)
	case StepTenMinutes:
		return stepTenMinutes(v, up)
	}
	d := s.Centidegrees()
	if !up {
		d = -d
	}
	return angle.Add(v, d)
}

func stepMinutes(v uint16, up bool) uint16 {
	deg, min := angle.SplitMinutes(v)
	m := int(min)
	if up {
		m++
	} else {
		m--
	}
	switch {
	case m < 0:
		m += 60
		deg = prevDegree(deg)
	case m >= 60:
		m -= 60
		deg = nextDegree(deg)
	}
	return angle.JoinMinutes(deg, uint8(m))
}

// stepTenMinutes changes the tens digit of the minutes and keeps the units.
func stepTenMinutes(v uint16, up bool) uint16 {
	deg, min := angle.SplitMinutes(v)
	tens, units := min/10, min%10
	if up {
		tens++
		if tens > 5 {
			tens = 0
			deg = nextDegree(deg)
		}
	} else {
		if tens == 0 {
			tens = 5
			deg = prevDegree(deg)
		} else {
			tens--
		}
	}
	return angle.JoinMinutes(deg, tens*10+units)
}

func nextDegree(d uint16) uint16 { return (d + 1) % 360 }
func prevDegree(d uint16) uint16 { return (d + 359) % 360 }
