// Package nav is the instrument's screen state machine: menu navigation,
// the SetValue editor and the per-screen render.
package nav

import (
	"log"
	"time"

	"github.com/itohio/anglemeter/pkg/angle"
	"github.com/itohio/anglemeter/pkg/button"
	"github.com/itohio/anglemeter/pkg/display"
	"github.com/itohio/anglemeter/pkg/settings"
)

const (
	// Cooldown is the minimum time between two accepted events.
	Cooldown = 200 * time.Millisecond
	// StepCooldown gates the OK long-press actions (step cycle, quick zero).
	StepCooldown = 250 * time.Millisecond
	// OKIgnore drops a confirm click this soon after a step-cycle long-press.
	OKIgnore = 500 * time.Millisecond
)

// Actions are the settings mutations the controller may invoke.
// *settings.Store implements it.
type Actions interface {
	Current() settings.Settings
	SetZero(raw uint16) error
	SetValue(raw, target uint16) error
	SetCalMin(adc uint16) error
	SetCalMax(adc uint16) error
	ToggleInvert() error
}

// Screen is one node of the screen graph.
type Screen uint8

const (
	Main Screen = iota
	Menu
	View
	ADC
	Zero
	SetValue
	CalMin
	CalMax
	Invert

	numScreens
)

// Valid reports whether s names a screen.
func (s Screen) Valid() bool { return s < numScreens }

func (s Screen) String() string {
	switch s {
	case Main:
		return "main"
	case Menu:
		return "menu"
	case View:
		return "view"
	case ADC:
		return "adc"
	case Zero:
		return "zero"
	case SetValue:
		return "set-value"
	case CalMin:
		return "cal-min"
	case CalMax:
		return "cal-max"
	case Invert:
		return "invert"
	default:
		return "unknown"
	}
}

// Event is a navigation input derived from button events.
type Event uint8

const (
	EvUp Event = iota
	EvDown
	EvOK
	EvOKLong
	EvBack

	numEvents
)

type menuItem struct {
	label  string
	screen Screen
}

var menuItems = [...]menuItem{
	{"View Angle", View},
	{"View ADC", ADC},
	{"Set Zero", Zero},
	{"Set Value", SetValue},
	{"Cal Min", CalMin},
	{"Cal Max", CalMax},
	{"Invert", Invert},
}

// MenuLen is the number of menu entries.
const MenuLen = len(menuItems)

// Controller owns the navigation state and renders it onto a display.
//
// Update must be called from a single goroutine at the UI tick.
type Controller struct {
	actions Actions
	lines   *display.Lines

	screen  Screen
	menuIdx int
	target  uint16
	step    Step

	filter angle.Filter

	lastEvent     time.Time
	lastStepCycle time.Time
	lastQuickZero time.Time
	stepLongAt    time.Time // zero when no step-cycle long-press is pending
	menuGuard     bool

	sample angle.Sample
	now    time.Time

	rowBuf [maxRows][]byte
}

// New creates a controller on the Main screen.
func New(actions Actions, lines *display.Lines) *Controller {
	c := &Controller{
		actions: actions,
		lines:   lines,
		screen:  Main,
	}
	for i := range c.rowBuf {
		c.rowBuf[i] = make([]byte, 0, 32)
	}
	return c
}

// Screen returns the current screen.
func (c *Controller) Screen() Screen { return c.screen }

// MenuIndex returns the highlighted menu entry.
func (c *Controller) MenuIndex() int { return c.menuIdx }

// Target returns the SetValue editor's value.
func (c *Controller) Target() uint16 { return c.target }

// Step returns the SetValue editor's step size.
func (c *Controller) Step() Step { return c.step }

// Displayed returns the smoothed main readout.
func (c *Controller) Displayed() uint16 { return c.filter.Displayed }

// Lines returns the text of the last rendered frame.
func (c *Controller) Lines() []string {
	out := make([]string, c.lines.Rows())
	for i := range out {
		out[i] = c.lines.Line(i)
	}
	return out
}

// Update runs one UI tick: smoothing, event gating, transitions and render.
func (c *Controller) Update(ev button.Events, s angle.Sample, now time.Time) {
	c.sample = s
	c.now = now
	c.filter.Update(s.Shown, now)

	c.dispatch(c.gate(events(ev)))

	c.render()
	c.lines.Flush()
}

// events lists the pending events in processing order.
func events(ev button.Events) []Event {
	var out []Event
	if ev.Click[button.BtnUp] {
		out = append(out, EvUp)
	}
	if ev.Click[button.BtnDown] {
		out = append(out, EvDown)
	}
	if ev.Click[button.BtnOK] {
		out = append(out, EvOK)
	}
	if ev.Long[button.BtnOK] {
		out = append(out, EvOKLong)
	}
	if ev.Click[button.BtnBack] || ev.Long[button.BtnBack] {
		out = append(out, EvBack)
	}
	return out
}

// gate applies the global cooldown and the menu-entry guard.
func (c *Controller) gate(evs []Event) []Event {
	guard := c.menuGuard
	c.menuGuard = false

	if len(evs) == 0 {
		return nil
	}

	if c.now.Sub(c.lastEvent) < Cooldown {
		if (c.screen == Main || c.screen == SetValue) && contains(evs, EvOKLong) {
			return []Event{EvOKLong}
		}
		return nil
	}

	// A step-cycle long-press owns its tick.
	if c.screen == SetValue && contains(evs, EvOKLong) {
		return []Event{EvOKLong}
	}
	if guard && c.screen == Menu {
		evs = remove(evs, EvOK)
	}
	return evs
}

func (c *Controller) dispatch(evs []Event) {
	for _, e := range evs {
		h := transitions[c.screen][e]
		if h == nil {
			continue
		}
		before := c.screen
		switch h(c) {
		case ignored:
			continue
		case handled:
			c.lastEvent = c.now
		case handledStop:
			c.lastEvent = c.now
			return
		}
		if c.screen != before {
			return
		}
	}
}

// mutate runs a settings mutation, logging a failure. The store keeps its
// previous value when the write fails.
func (c *Controller) mutate(name string, err error) {
	if err != nil {
		log.Printf("nav: %s failed: %v", name, err)
	}
}

func contains(evs []Event, e Event) bool {
	for _, v := range evs {
		if v == e {
			return true
		}
	}
	return false
}

func remove(evs []Event, e Event) []Event {
	out := evs[:0]
	for _, v := range evs {
		if v != e {
			out = append(out, v)
		}
	}
	return out
}
