package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/anglemeter/pkg/button"
	"github.com/itohio/anglemeter/pkg/config"
	"github.com/itohio/anglemeter/pkg/instrument"
	"github.com/itohio/anglemeter/pkg/lcdview"
	"github.com/itohio/anglemeter/pkg/sensor"
	"github.com/itohio/anglemeter/pkg/settings"
)

// simulator is a complete instrument running on the desktop: a slider for the
// potentiometer, four buttons, an LCD and an emulated EEPROM.
type simulator struct {
	cfg   *config.Config
	mock  *sensor.Mock
	store *settings.Store
	lcd   *lcdview.LCD

	buttons [button.Count]*holdButton
	keys    [button.Count]atomic.Bool

	cancel context.CancelFunc
	done   chan struct{}
}

func newSimulator(cfg *config.Config) *simulator {
	var storage settings.Storage
	if cfg.Storage.Path != "" {
		storage = settings.NewFile(cfg.Storage.Path)
	} else {
		storage = settings.NewMemory(int(cfg.Storage.Offset) + settings.RecordSize)
	}

	store := settings.New(storage, cfg.Storage.Offset)
	if err := store.Load(); err != nil {
		log.Printf("Settings could not be restored: %v", err)
	}

	mock := sensor.NewMock(cfg.Mock.Noise)
	mock.SetPosition(cfg.Mock.Position)

	s := &simulator{
		cfg:   cfg,
		mock:  mock,
		store: store,
		lcd:   lcdview.New(cfg.Display.Cols, cfg.Display.Rows),
	}
	for id := button.ID(0); id < button.Count; id++ {
		s.buttons[id] = newHoldButton(buttonLabels[id])
	}
	return s
}

var buttonLabels = [button.Count]string{
	button.BtnUp:   "Up",
	button.BtnDown: "Down",
	button.BtnOK:   "OK",
	button.BtnBack: "Back",
}

// keyButtons maps keyboard keys to instrument buttons.
var keyButtons = map[fyne.KeyName]button.ID{
	fyne.KeyUp:        button.BtnUp,
	fyne.KeyDown:      button.BtnDown,
	fyne.KeyReturn:    button.BtnOK,
	fyne.KeyEnter:     button.BtnOK,
	fyne.KeyEscape:    button.BtnBack,
	fyne.KeyBackspace: button.BtnBack,
}

// panel builds the simulator controls and hooks the keyboard of window.
func (s *simulator) panel(window fyne.Window) fyne.CanvasObject {
	slider := widget.NewSlider(0, 1023)
	slider.Step = 1
	slider.Value = float64(s.mock.Position())

	position := widget.NewLabel("")
	setPosition := func(v float64) {
		s.mock.SetPosition(uint16(v))
		position.SetText(fmt.Sprintf("ADC %4d", uint16(v)))
	}
	slider.OnChanged = setPosition
	setPosition(slider.Value)

	if dc, ok := window.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			if id, ok := keyButtons[ev.Name]; ok {
				s.keys[id].Store(true)
			}
		})
		dc.SetOnKeyUp(func(ev *fyne.KeyEvent) {
			if id, ok := keyButtons[ev.Name]; ok {
				s.keys[id].Store(false)
			}
		})
	}

	buttons := container.NewHBox()
	for _, b := range s.buttons {
		buttons.Add(b)
	}

	return container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("Wiper"), position, slider),
		container.NewHBox(s.lcd, buttons),
	)
}

// inputs reports a button as pressed while its widget or key is held.
func (s *simulator) inputs() [button.Count]bool {
	var pressed [button.Count]bool
	for id := range pressed {
		pressed[id] = s.buttons[id].held.Load() || s.keys[id].Load()
	}
	return pressed
}

// start runs a fresh instrument writing telemetry to out.
func (s *simulator) start(out io.Writer) error {
	if s.cancel != nil {
		return fmt.Errorf("already running")
	}

	cfg := instrument.Config{
		ButtonTick:     s.cfg.Timing.ButtonTick,
		UITick:         s.cfg.Timing.UITick,
		TelemetryEvery: s.cfg.Timing.TelemetryEvery,
		Cols:           s.cfg.Display.Cols,
		Rows:           s.cfg.Display.Rows,
		Timing: button.Timing{
			Debounce:  s.cfg.Timing.Debounce,
			LongPress: s.cfg.Timing.LongPress,
		},
	}
	src := &sensor.Averager{Src: s.mock, Samples: s.cfg.Mock.Oversample}
	inst := instrument.New(cfg, src, s.store, s.lcd, out)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := inst.Run(ctx, s.inputs); err != nil {
			log.Printf("Instrument stopped: %v", err)
		}
	}()

	s.cancel = cancel
	s.done = done
	return nil
}

// stop cancels the instrument and waits for it to exit.
func (s *simulator) stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

// holdButton is a button that reports whether the mouse is holding it down,
// so long-presses can be made with the pointer.
type holdButton struct {
	widget.Button
	held atomic.Bool
}

func newHoldButton(label string) *holdButton {
	b := &holdButton{}
	b.Text = label
	b.ExtendBaseWidget(b)
	return b
}

func (b *holdButton) MouseDown(*desktop.MouseEvent) {
	b.held.Store(true)
}

func (b *holdButton) MouseUp(*desktop.MouseEvent) {
	b.held.Store(false)
}

// MouseOut releases the button when the pointer leaves while held.
func (b *holdButton) MouseOut() {
	b.held.Store(false)
	b.Button.MouseOut()
}
