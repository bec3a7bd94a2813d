package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type write struct {
	row  uint8
	text string
}

type fakeLCD struct {
	x, y    uint8
	writes  []write
	cleared int
}

func (f *fakeLCD) SetCursor(x, y uint8) { f.x, f.y = x, y }
func (f *fakeLCD) Print(data []byte)    { f.writes = append(f.writes, write{f.y, string(data)}) }
func (f *fakeLCD) ClearDisplay()        { f.cleared++ }

func TestLines_FirstFlushWritesEveryRow(t *testing.T) {
	dev := &fakeLCD{}
	l := New(dev, 16, 2)
	l.SetLine(0, "hello")

	assert.Equal(t, 2, l.Flush())
	assert.Equal(t, []write{
		{0, "hello           "},
		{1, "                "},
	}, dev.writes)
}

func TestLines_FlushOnlyChangedRows(t *testing.T) {
	dev := &fakeLCD{}
	l := New(dev, 16, 2)
	l.SetLine(0, "a")
	l.SetLine(1, "b")
	l.Flush()
	dev.writes = nil

	l.SetLine(0, "a")
	l.SetLine(1, "c")
	assert.Equal(t, 1, l.Flush())
	assert.Equal(t, []write{{1, "c               "}}, dev.writes)

	assert.Zero(t, l.Flush())
}

func TestLines_Truncates(t *testing.T) {
	l := New(&fakeLCD{}, 16, 2)
	l.SetLine(0, "Step: 100 deg (LOK:change)")
	assert.Equal(t, "Step: 100 deg (L", l.Line(0))
}

func TestLines_OutOfRangeIgnored(t *testing.T) {
	dev := &fakeLCD{}
	l := New(dev, 16, 2)
	l.SetLine(2, "nope")
	l.SetLine(-1, "nope")
	assert.Equal(t, "", l.Line(2))
	assert.Equal(t, 2, l.Flush())
}

func TestLines_Clear(t *testing.T) {
	dev := &fakeLCD{}
	l := New(dev, 20, 4)
	l.SetLine(0, "x")
	l.Flush()

	l.Clear()
	assert.Equal(t, 1, dev.cleared)
	assert.Equal(t, "                    ", l.Line(0))
	assert.Equal(t, 4, l.Flush())
}
