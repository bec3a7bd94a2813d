package scope

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/chewxy/math32"

	"github.com/itohio/anglemeter/pkg/angle"
	"github.com/itohio/anglemeter/pkg/telemetry"
)

var (
	gridColor  = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	labelColor = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	angleColor = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	rateColor  = color.RGBA{R: 100, G: 200, B: 255, A: 255}
)

type renderer struct {
	scope   *Widget
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
	size    fyne.Size
}

// plot is the drawing area inside the margins.
type plot struct {
	x, y, w, h float32
	windowMs   float32
	endMs      float32
}

func (p plot) xAt(ms uint32) float32 {
	return p.x + p.w - (p.endMs-float32(ms))/p.windowMs*p.w
}

// yAngle maps 0..36000 centidegrees bottom to top.
func (p plot) yAngle(v uint16) float32 {
	return p.y + p.h - float32(v)/angle.FullCircle*p.h
}

// yRate maps -max..max bottom to top.
func (p plot) yRate(r, max float32) float32 {
	return p.y + p.h/2 - r/max*p.h/2
}

func (r *renderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 240)
}

func (r *renderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	if r.size != size {
		r.size = size
		r.scope.BaseWidget.Refresh()
	}
}

func (r *renderer) Refresh() {
	r.scope.mu.RLock()
	frames := r.scope.frames
	rates := r.scope.rates
	rateMax := r.scope.rateMax
	end := r.scope.endMilli
	window := r.scope.window
	r.scope.mu.RUnlock()

	size := r.scope.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	r.objects = []fyne.CanvasObject{r.bg}
	p := plot{
		x:        50,
		y:        20,
		w:        size.Width - 50 - 60,
		h:        size.Height - 20 - 30,
		windowMs: float32(window.Milliseconds()),
		endMs:    float32(end),
	}

	r.drawGrid(p, rateMax)
	r.drawAngle(p, frames)
	r.drawRate(p, frames, rates, rateMax)
	r.drawReadout(p, frames, rates)
}

func (r *renderer) line(c color.Color, width float32, a, b fyne.Position) {
	l := canvas.NewLine(c)
	l.Position1, l.Position2 = a, b
	l.StrokeWidth = width
	r.objects = append(r.objects, l)
}

func (r *renderer) text(s string, c color.Color, size float32, align fyne.TextAlign, pos fyne.Position) {
	t := canvas.NewText(s, c)
	t.TextSize = size
	t.Alignment = align
	t.Move(pos)
	r.objects = append(r.objects, t)
}

func (r *renderer) drawGrid(p plot, rateMax float32) {
	const hLines = 8
	for i := 0; i < hLines+1; i++ {
		y := p.y + float32(i)*p.h/hLines
		r.line(gridColor, 1, fyne.NewPos(p.x, y), fyne.NewPos(p.x+p.w, y))

		deg := 360 - i*360/hLines
		r.text(strconv.Itoa(deg)+"°", labelColor, 10, fyne.TextAlignTrailing, fyne.NewPos(p.x-5, y-6))

		rate := rateMax - float32(i)*2*rateMax/hLines
		r.text(formatRate(rate), rateColor, 10, fyne.TextAlignLeading, fyne.NewPos(p.x+p.w+5, y-6))
	}

	const vLines = 10
	for i := 0; i < vLines+1; i++ {
		x := p.x + float32(i)*p.w/vLines
		r.line(gridColor, 1, fyne.NewPos(x, p.y), fyne.NewPos(x, p.y+p.h))
		sec := -p.windowMs / 1000 * float32(vLines-i) / vLines
		r.text(strconv.FormatFloat(float64(sec), 'f', 0, 32)+"s", labelColor, 10, fyne.TextAlignCenter, fyne.NewPos(x-10, p.y+p.h+5))
	}
}

// drawAngle draws the displayed angle, breaking the trace where it wraps.
func (r *renderer) drawAngle(p plot, frames []telemetry.Frame) {
	for i := 1; i < len(frames); i++ {
		a, b := frames[i-1], frames[i]
		if wraps(a.Displayed, b.Displayed) {
			continue
		}
		r.line(angleColor, 1.5,
			fyne.NewPos(p.xAt(a.Millis), p.yAngle(a.Displayed)),
			fyne.NewPos(p.xAt(b.Millis), p.yAngle(b.Displayed)))
	}
}

// wraps reports whether the short path from a to b crosses 0°.
func wraps(a, b uint16) bool {
	return math32.Abs(float32(int32(b)-int32(a))) > angle.HalfCircle
}

func (r *renderer) drawRate(p plot, frames []telemetry.Frame, rates []float32, rateMax float32) {
	if len(frames) < 2 || len(rates) < 2 {
		return
	}
	mid := func(i int) uint32 {
		return frames[i].Millis + (frames[i+1].Millis-frames[i].Millis)/2
	}
	for i := 1; i < len(rates) && i+1 < len(frames); i++ {
		r.line(rateColor, 1,
			fyne.NewPos(p.xAt(mid(i-1)), p.yRate(rates[i-1], rateMax)),
			fyne.NewPos(p.xAt(mid(i)), p.yRate(rates[i], rateMax)))
	}
}

func (r *renderer) drawReadout(p plot, frames []telemetry.Frame, rates []float32) {
	if len(frames) == 0 {
		return
	}
	f := frames[len(frames)-1]
	var rate float32
	if len(rates) > 0 {
		rate = rates[len(rates)-1]
	}
	r.text(formatAngle(f.Displayed)+"  "+formatRate(rate), angleColor, 12, fyne.TextAlignLeading, fyne.NewPos(p.x+10, p.y+5))
}

// formatAngle renders v like the LCD does, with a real degree sign.
func formatAngle(v uint16) string {
	deg, min := angle.SplitMinutes(v)
	m := strconv.Itoa(int(min))
	if min < 10 {
		m = "0" + m
	}
	return strconv.Itoa(int(deg)) + "°" + m + "'"
}

func formatRate(r float32) string {
	return strconv.FormatFloat(float64(r), 'f', 1, 32) + "°/s"
}

func (r *renderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *renderer) Destroy() {}
