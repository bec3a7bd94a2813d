// Package lcdview emulates an HD44780 character LCD as a fyne widget.
package lcdview

import "sync"

// glyphs maps HD44780 A00 ROM codes that differ from ASCII.
var glyphs = map[byte]rune{
	0xDF: '°',
	0x7E: '→',
	0x7F: '←',
}

// cells is the DDRAM of the emulated controller.
type cells struct {
	mu         sync.Mutex
	cols, rows int
	data       [][]byte
	x, y       int
}

func newCells(cols, rows int) *cells {
	c := &cells{cols: cols, rows: rows, data: make([][]byte, rows)}
	for i := range c.data {
		c.data[i] = make([]byte, cols)
	}
	c.clear()
	return c
}

func (c *cells) clear() {
	for _, row := range c.data {
		for i := range row {
			row[i] = ' '
		}
	}
	c.x, c.y = 0, 0
}

func (c *cells) setCursor(x, y uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.x, c.y = int(x), int(y)
}

// print writes at the cursor, advancing it. Characters past the end of the
// row are dropped.
func (c *cells) print(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.y < 0 || c.y >= c.rows {
		return
	}
	for _, b := range data {
		if c.x >= c.cols {
			return
		}
		c.data[c.y][c.x] = b
		c.x++
	}
}

func (c *cells) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clear()
}

// row returns a row decoded to display runes.
func (c *cells) row(i int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= c.rows {
		return ""
	}
	out := make([]rune, 0, c.cols)
	for _, b := range c.data[i] {
		if r, ok := glyphs[b]; ok {
			out = append(out, r)
		} else if b < 0x20 || b > 0x7E {
			out = append(out, '□')
		} else {
			out = append(out, rune(b))
		}
	}
	return string(out)
}
