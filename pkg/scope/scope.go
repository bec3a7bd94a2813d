// Package scope is a fyne widget that plots the angle history and its rate.
package scope

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/chewxy/math32"

	"github.com/itohio/anglemeter/pkg/history"
	"github.com/itohio/anglemeter/pkg/telemetry"
)

const maxDisplayPoints = 1000

// Widget plots the displayed angle (0..360°) and its angular rate over time.
type Widget struct {
	widget.BaseWidget

	window time.Duration

	mu       sync.RWMutex
	frames   []telemetry.Frame
	rates    []float32
	rateMax  float32 // symmetric rate scale, deg/s
	endMilli uint32
}

// New creates an empty scope spanning window.
func New(window time.Duration) *Widget {
	if window <= 0 {
		window = history.DefaultWindow
	}
	s := &Widget{
		window:  window,
		frames:  make([]telemetry.Frame, 0, maxDisplayPoints),
		rates:   make([]float32, 0, maxDisplayPoints),
		rateMax: 1,
	}
	s.ExtendBaseWidget(s)
	s.Refresh()
	return s
}

// UpdateData replaces the plotted history. Call it on the fyne thread
// (fyne.Do) when the data comes from another goroutine.
func (s *Widget) UpdateData(frames []telemetry.Frame, rates []float32) {
	s.mu.Lock()
	s.frames = history.Downsample(s.frames, frames, maxDisplayPoints)
	s.rates = history.Downsample(s.rates, rates, maxDisplayPoints)
	s.rateMax = rateScale(s.rates)
	if len(frames) > 0 {
		s.endMilli = frames[len(frames)-1].Millis
	}
	s.mu.Unlock()

	s.Refresh()
}

// Latest returns the newest frame and rate, if any.
func (s *Widget) Latest() (telemetry.Frame, float32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.frames) == 0 {
		return telemetry.Frame{}, 0, false
	}
	var r float32
	if len(s.rates) > 0 {
		r = s.rates[len(s.rates)-1]
	}
	return s.frames[len(s.frames)-1], r, true
}

// rateScale returns a symmetric axis bound covering rates with a 10% margin,
// never below 1 deg/s.
func rateScale(rates []float32) float32 {
	var m float32 = 1
	for _, r := range rates {
		m = math32.Max(m, math32.Abs(r))
	}
	return m * 1.1
}

// CreateRenderer creates the widget renderer.
func (s *Widget) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255})
	return &renderer{
		scope:   s,
		bg:      bg,
		objects: []fyne.CanvasObject{bg},
	}
}
