// Package instrument wires buttons, sensor, settings, navigation and the
// display into the two-rate tick loop of the angle meter.
package instrument

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"github.com/itohio/anglemeter/pkg/angle"
	"github.com/itohio/anglemeter/pkg/button"
	"github.com/itohio/anglemeter/pkg/display"
	"github.com/itohio/anglemeter/pkg/nav"
	"github.com/itohio/anglemeter/pkg/sensor"
	"github.com/itohio/anglemeter/pkg/settings"
	"github.com/itohio/anglemeter/pkg/telemetry"
)

// Config holds the tick rates and display geometry.
type Config struct {
	ButtonTick     time.Duration
	UITick         time.Duration
	TelemetryEvery int // UI ticks between telemetry frames, 0 disables
	Cols           int
	Rows           int
	Timing         button.Timing
}

// DefaultConfig returns a 16x2 instrument with 10 ms buttons and a 20 ms UI.
func DefaultConfig() Config {
	return Config{
		ButtonTick:     10 * time.Millisecond,
		UITick:         20 * time.Millisecond,
		TelemetryEvery: 5,
		Cols:           16,
		Rows:           2,
		Timing:         button.DefaultTiming(),
	}
}

// Inputs samples the four button levels in button.ID order.
type Inputs func() [button.Count]bool

// Instrument is the running angle meter. PollButtons and Step must be called
// from one goroutine; Snapshot may be called from any.
type Instrument struct {
	cfg Config

	buttons *button.Set
	src     sensor.Source
	store   *settings.Store
	ctrl    *nav.Controller
	out     io.Writer

	start time.Time
	ticks int
	buf   []byte

	mu   sync.Mutex
	last telemetry.Frame
}

// New assembles an instrument. out may be nil to disable telemetry.
// The store should already be loaded.
func New(cfg Config, src sensor.Source, store *settings.Store, dev display.Device, out io.Writer) *Instrument {
	def := DefaultConfig()
	if cfg.ButtonTick <= 0 {
		cfg.ButtonTick = def.ButtonTick
	}
	if cfg.UITick <= 0 {
		cfg.UITick = def.UITick
	}
	if cfg.Cols <= 0 || cfg.Rows <= 0 {
		cfg.Cols, cfg.Rows = def.Cols, def.Rows
	}

	return &Instrument{
		cfg:     cfg,
		buttons: button.NewSet(cfg.Timing),
		src:     src,
		store:   store,
		ctrl:    nav.New(store, display.New(dev, cfg.Cols, cfg.Rows)),
		out:     out,
		buf:     make([]byte, 0, 64),
	}
}

// Controller exposes the navigation state.
func (in *Instrument) Controller() *nav.Controller {
	return in.ctrl
}

// PollButtons feeds one sample of the button levels.
func (in *Instrument) PollButtons(pressed [button.Count]bool, now time.Time) {
	in.buttons.Update(pressed, now)
}

// Step runs one UI tick: sample, navigate, render and optionally report.
func (in *Instrument) Step(now time.Time) {
	if in.start.IsZero() {
		in.start = now
	}

	cur := in.store.Current()
	s := angle.Process(in.src.Read(), cur.Calibration(), cur.ZeroOffset)
	in.ctrl.Update(in.buttons.Take(), s, now)

	f := telemetry.Frame{
		Millis:    uint32(now.Sub(in.start).Milliseconds()),
		ADC:       s.ADC,
		Raw:       s.Raw,
		Shown:     s.Shown,
		Displayed: in.ctrl.Displayed(),
		Screen:    in.ctrl.Screen(),
	}
	in.mu.Lock()
	in.last = f
	in.mu.Unlock()

	in.ticks++
	if in.out != nil && in.cfg.TelemetryEvery > 0 && in.ticks%in.cfg.TelemetryEvery == 0 {
		in.buf = telemetry.AppendFrame(in.buf[:0], f)
		if _, err := in.out.Write(in.buf); err != nil {
			log.Printf("instrument: telemetry write failed: %v", err)
		}
	}
}

// Snapshot returns the frame of the last UI tick.
func (in *Instrument) Snapshot() telemetry.Frame {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.last
}

// Run drives both ticks until ctx is cancelled.
func (in *Instrument) Run(ctx context.Context, inputs Inputs) error {
	buttons := time.NewTicker(in.cfg.ButtonTick)
	defer buttons.Stop()
	ui := time.NewTicker(in.cfg.UITick)
	defer ui.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-buttons.C:
			in.PollButtons(inputs(), now)
		case now := <-ui.C:
			in.Step(now)
		}
	}
}
