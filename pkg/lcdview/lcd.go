package lcdview

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/anglemeter/pkg/display"
)

var (
	panelColor = color.RGBA{R: 40, G: 90, B: 200, A: 255}
	textColor  = color.RGBA{R: 230, G: 240, B: 255, A: 255}
)

// LCD is a character display widget. It implements display.Device, so the
// instrument can drive it from its own goroutine.
type LCD struct {
	widget.BaseWidget
	cells *cells
}

// Ensure LCD implements display.Device.
var _ display.Device = (*LCD)(nil)

// New creates a cols×rows LCD.
func New(cols, rows int) *LCD {
	l := &LCD{cells: newCells(cols, rows)}
	l.ExtendBaseWidget(l)
	return l
}

func (l *LCD) SetCursor(x, y uint8) {
	l.cells.setCursor(x, y)
}

func (l *LCD) Print(data []byte) {
	l.cells.print(data)
	fyne.Do(l.Refresh)
}

func (l *LCD) ClearDisplay() {
	l.cells.reset()
	fyne.Do(l.Refresh)
}

// Row returns the decoded text of row i.
func (l *LCD) Row(i int) string {
	return l.cells.row(i)
}

// CreateRenderer creates the widget renderer.
func (l *LCD) CreateRenderer() fyne.WidgetRenderer {
	r := &lcdRenderer{
		lcd:   l,
		panel: canvas.NewRectangle(panelColor),
		texts: make([]*canvas.Text, l.cells.rows),
	}
	r.panel.CornerRadius = 6
	r.objects = []fyne.CanvasObject{r.panel}
	for i := range r.texts {
		t := canvas.NewText("", textColor)
		t.TextStyle = fyne.TextStyle{Monospace: true}
		t.TextSize = 22
		r.texts[i] = t
		r.objects = append(r.objects, t)
	}
	r.Refresh()
	return r
}

type lcdRenderer struct {
	lcd     *LCD
	panel   *canvas.Rectangle
	texts   []*canvas.Text
	objects []fyne.CanvasObject
}

const pad = 12

func (r *lcdRenderer) MinSize() fyne.Size {
	var w, h float32
	for _, t := range r.texts {
		s := fyne.MeasureText(strings.Repeat("M", r.lcd.cells.cols), t.TextSize, t.TextStyle)
		w = s.Width
		h += s.Height
	}
	return fyne.NewSize(w+2*pad, h+2*pad)
}

func (r *lcdRenderer) Layout(size fyne.Size) {
	r.panel.Resize(size)
	y := float32(pad)
	for _, t := range r.texts {
		t.Move(fyne.NewPos(pad, y))
		y += t.MinSize().Height
	}
}

func (r *lcdRenderer) Refresh() {
	for i, t := range r.texts {
		t.Text = r.lcd.Row(i)
		t.Refresh()
	}
	r.panel.Refresh()
}

func (r *lcdRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *lcdRenderer) Destroy() {}
