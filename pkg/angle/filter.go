package angle

import "time"

const (
	// SmoothingFactor is the weight of a new sample, in sixteenths.
	SmoothingFactor = 2
	// ZeroThreshold is the band around 0 that counts as "still at zero".
	ZeroThreshold = 20
	// DisplayHysteresis is the smallest move that changes the displayed value.
	DisplayHysteresis = 10
	// ZeroStability is how long a fresh zero holds against drift.
	ZeroStability = 3000 * time.Millisecond
)

// Smooth moves prev towards shown along the shortest path by SmoothingFactor/16.
func Smooth(prev, shown uint16) uint16 {
	return Add(prev, Diff(shown, prev)*SmoothingFactor/16)
}

// NearZero reports whether v lies within ZeroThreshold of 0, either side of the wrap.
func NearZero(v uint16) bool {
	return Distance(v, 0) <= ZeroThreshold
}

// Filter is the display-side smoothing state for the main readout.
//
// The zero value is ready to use and displays the first sample it sees.
type Filter struct {
	Smoothed  uint16
	Displayed uint16
	ZeroSetAt time.Time

	zeroActive   bool
	hasDisplayed bool
}

// Reset forces the readout to exactly 0 and opens the zero-stability window.
func (f *Filter) Reset(now time.Time) {
	f.Smoothed = 0
	f.Displayed = 0
	f.ZeroSetAt = now
	f.zeroActive = true
	f.hasDisplayed = true
}

// InZeroWindow reports whether the zero-stability window is still open.
func (f *Filter) InZeroWindow(now time.Time) bool {
	return f.zeroActive && now.Sub(f.ZeroSetAt) < ZeroStability
}

// Update feeds one zero-applied angle and returns the value to display.
func (f *Filter) Update(shown uint16, now time.Time) uint16 {
	near := NearZero(shown)

	if f.InZeroWindow(now) {
		if near {
			f.Smoothed = 0
		} else {
			// Moved away for real: leave the window and follow the sensor.
			f.zeroActive = false
			f.Smoothed = shown
		}
	} else {
		f.zeroActive = false
		switch {
		case f.Smoothed == 0 && near:
		case f.Smoothed == 0:
			f.Smoothed = shown
		default:
			f.Smoothed = Smooth(f.Smoothed, shown)
			if near && NearZero(f.Smoothed) {
				f.Smoothed = 0
			}
		}
	}

	if f.Smoothed == 0 || !f.hasDisplayed || Distance(f.Smoothed, f.Displayed) >= DisplayHysteresis {
		f.Displayed = f.Smoothed
		f.hasDisplayed = true
	}
	return f.Displayed
}
