// Package display keeps a character LCD in sync with a set of text lines,
// writing only the rows that changed.
package display

import "bytes"

// Device is a character LCD. *hd44780i2c.Device satisfies it.
type Device interface {
	SetCursor(x, y uint8)
	Print(data []byte)
	ClearDisplay()
}

// Lines is a fixed-size frame buffer of text rows.
type Lines struct {
	dev  Device
	cols int
	rows int

	want  [][]byte // next frame
	shown [][]byte // what the device currently shows
	dirty []bool
}

// New allocates the row buffers for a cols×rows display.
func New(dev Device, cols, rows int) *Lines {
	l := &Lines{
		dev:   dev,
		cols:  cols,
		rows:  rows,
		want:  make([][]byte, rows),
		shown: make([][]byte, rows),
		dirty: make([]bool, rows),
	}
	for i := 0; i < rows; i++ {
		l.want[i] = blank(cols)
		l.shown[i] = blank(cols)
		l.dirty[i] = true
	}
	return l
}

func blank(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return b
}

// Cols returns the display width.
func (l *Lines) Cols() int { return l.cols }

// Rows returns the display height.
func (l *Lines) Rows() int { return l.rows }

// SetLine stores text for row, padded with spaces or truncated to the width.
// Rows outside the display are ignored.
func (l *Lines) SetLine(row int, text string) {
	if row < 0 || row >= l.rows {
		return
	}
	l.SetLineBytes(row, []byte(text))
}

// SetLineBytes is SetLine for byte slices.
func (l *Lines) SetLineBytes(row int, text []byte) {
	if row < 0 || row >= l.rows {
		return
	}
	dst := l.want[row]
	n := copy(dst, text)
	for i := n; i < len(dst); i++ {
		dst[i] = ' '
	}
}

// Line returns the pending text of row, or "" when out of range.
func (l *Lines) Line(row int) string {
	if row < 0 || row >= l.rows {
		return ""
	}
	return string(l.want[row])
}

// Flush writes the rows that differ from what the device shows and returns
// how many were written.
func (l *Lines) Flush() int {
	n := 0
	for i := 0; i < l.rows; i++ {
		if !l.dirty[i] && bytes.Equal(l.want[i], l.shown[i]) {
			continue
		}
		l.dev.SetCursor(0, uint8(i))
		l.dev.Print(l.want[i])
		copy(l.shown[i], l.want[i])
		l.dirty[i] = false
		n++
	}
	return n
}

// Clear blanks the device and forces every row to be rewritten on the next Flush.
func (l *Lines) Clear() {
	l.dev.ClearDisplay()
	for i := 0; i < l.rows; i++ {
		copy(l.want[i], blank(l.cols))
		copy(l.shown[i], l.want[i])
		l.dirty[i] = true
	}
}
