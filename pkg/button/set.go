package button

import "time"

// ID names one of the instrument's four buttons.
type ID uint8

const (
	BtnUp ID = iota
	BtnDown
	BtnOK
	BtnBack

	// Count is the number of physical buttons.
	Count = 4
)

func (id ID) String() string {
	switch id {
	case BtnUp:
		return "up"
	case BtnDown:
		return "down"
	case BtnOK:
		return "ok"
	case BtnBack:
		return "back"
	default:
		return "unknown"
	}
}

// Events is one tick's worth of drained button events.
type Events struct {
	Click [Count]bool
	Long  [Count]bool
}

// Any reports whether any click or long-press is set.
func (e Events) Any() bool {
	for i := 0; i < Count; i++ {
		if e.Click[i] || e.Long[i] {
			return true
		}
	}
	return false
}

// Set is the group of four debouncers, indexed by ID.
type Set struct {
	buttons [Count]*Debouncer
}

// NewSet creates four debouncers sharing the same timing.
func NewSet(t Timing) *Set {
	s := &Set{}
	for i := range s.buttons {
		s.buttons[i] = NewWithTiming(t)
	}
	return s
}

// Update feeds one sample per button.
func (s *Set) Update(pressed [Count]bool, now time.Time) {
	for i, b := range s.buttons {
		b.Update(pressed[i], now)
	}
}

// Take drains the pending events of all buttons.
func (s *Set) Take() Events {
	var ev Events
	for i, b := range s.buttons {
		ev.Click[i] = b.TakeClick()
		ev.Long[i] = b.TakeLongPress()
	}
	return ev
}

// Button returns the debouncer for id.
func (s *Set) Button(id ID) *Debouncer {
	return s.buttons[id]
}
