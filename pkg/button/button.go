package button

import "time"

const (
	// DefaultDebounce is how long a level must stay stable before it is accepted.
	DefaultDebounce = 25 * time.Millisecond
	// DefaultLongPress is how long a button must be held to fire a long-press.
	DefaultLongPress = 600 * time.Millisecond
)

// Phase is the state of a single button's debounce machine.
type Phase uint8

const (
	Up           Phase = iota // Button not pressed
	DebounceDown              // Pressed, waiting for the level to settle
	Down                      // Press confirmed
	DebounceUp                // Released, waiting for the level to settle
	LongPress                 // Held past the long-press threshold
)

func (p Phase) String() string {
	switch p {
	case Up:
		return "up"
	case DebounceDown:
		return "debounce-down"
	case Down:
		return "down"
	case DebounceUp:
		return "debounce-up"
	case LongPress:
		return "long-press"
	default:
		return "unknown"
	}
}

// Timing holds the debounce and long-press thresholds.
type Timing struct {
	Debounce  time.Duration
	LongPress time.Duration
}

// DefaultTiming returns the stock 25 ms / 600 ms thresholds.
func DefaultTiming() Timing {
	return Timing{
		Debounce:  DefaultDebounce,
		LongPress: DefaultLongPress,
	}
}

// Debouncer turns a sampled "is pressed" level into click and long-press events.
//
// Update must be called at a fixed tick (10 ms is typical). Events are latched
// until read with TakeClick or TakeLongPress, so each one is observed exactly once.
// A press cycle that fires a long-press never fires a click.
type Debouncer struct {
	timing Timing

	phase      Phase
	lastChange time.Time
	pressStart time.Time

	click     bool
	longPress bool
	hadLong   bool // long-press fired in the current press cycle
}

// New creates a Debouncer with the default timing.
func New() *Debouncer {
	return NewWithTiming(DefaultTiming())
}

// NewWithTiming creates a Debouncer with custom thresholds.
// Zero fields fall back to the defaults.
func NewWithTiming(t Timing) *Debouncer {
	if t.Debounce <= 0 {
		t.Debounce = DefaultDebounce
	}
	if t.LongPress <= 0 {
		t.LongPress = DefaultLongPress
	}
	return &Debouncer{timing: t, phase: Up}
}

// Update advances the state machine with the current level and time.
func (d *Debouncer) Update(pressed bool, now time.Time) {
	switch d.phase {
	case Up:
		if pressed {
			d.phase = DebounceDown
			d.lastChange = now
		}

	case DebounceDown:
		if !pressed {
			// Noise spike, never reached a stable press.
			d.phase = Up
			d.hadLong = false
			return
		}
		if now.Sub(d.lastChange) >= d.timing.Debounce {
			d.phase = Down
			d.pressStart = now
			d.click = false
			d.longPress = false
			d.hadLong = false
		}

	case Down:
		if !pressed {
			d.phase = DebounceUp
			d.lastChange = now
			return
		}
		if !d.hadLong && now.Sub(d.pressStart) >= d.timing.LongPress {
			d.phase = LongPress
			d.longPress = true
			d.hadLong = true
			d.click = false
		}

	case DebounceUp:
		if pressed {
			// Bounce on release, the press continues.
			d.phase = Down
			return
		}
		if now.Sub(d.lastChange) >= d.timing.Debounce {
			if !d.hadLong {
				d.click = true
			}
			d.phase = Up
			d.hadLong = false
		}

	case LongPress:
		if !pressed {
			// hadLong stays set so the release does not produce a click.
			d.phase = DebounceUp
			d.lastChange = now
		}
	}
}

// TakeClick reports whether a click is pending and clears it.
func (d *Debouncer) TakeClick() bool {
	if d.click {
		d.click = false
		return true
	}
	return false
}

// TakeLongPress reports whether a long-press is pending and clears it.
func (d *Debouncer) TakeLongPress() bool {
	if d.longPress {
		d.longPress = false
		return true
	}
	return false
}

// IsHeld reports whether the button is currently considered pressed.
func (d *Debouncer) IsHeld() bool {
	return d.phase == Down || d.phase == LongPress
}

// Phase returns the current state.
func (d *Debouncer) Phase() Phase {
	return d.phase
}
