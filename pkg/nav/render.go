package nav

import (
	"strconv"

	"github.com/itohio/anglemeter/pkg/angle"
)

// maxRows is the tallest supported display.
const maxRows = 4

// render builds the current screen into the line buffer. Rows are appended
// into buffers owned by the controller, so a tick does not allocate.
func (c *Controller) render() {
	cols, rows := c.lines.Cols(), c.lines.Rows()
	wide := cols >= 20

	var l [maxRows][]byte
	for i := range l {
		l[i] = c.rowBuf[i][:0]
	}

	s := c.actions.Current()
	sm := c.sample

	switch c.screen {
	case Main:
		l[0] = appendAngleLine(l[0], wide, c.filter.Displayed)
		l[1] = append(l[1], "Ok:MENU Long:0"...)
		l[2] = append(l[2], "Long press: Set Zero"...)

	case Menu:
		item := menuItems[c.menuIdx]
		l[0] = append(l[0], '>')
		l[0] = strconv.AppendInt(l[0], int64(c.menuIdx+1), 10)
		if wide {
			l[0] = append(l[0], '/')
			l[0] = strconv.AppendInt(l[0], int64(MenuLen), 10)
		}
		l[0] = append(l[0], ' ')
		l[0] = append(l[0], item.label...)
		l[1] = append(l[1], "Ent:OK L:Back"...)
		if c.menuIdx > 0 {
			l[2] = appendMenuNeighbour(l[2], c.menuIdx-1)
		}
		if c.menuIdx < MenuLen-1 {
			l[3] = appendMenuNeighbour(l[3], c.menuIdx+1)
		}

	case View:
		l[0] = appendAngleLine(l[0], wide, sm.Shown)
		if wide {
			l[1] = append(l[1], "Enter or Long: Back"...)
		} else {
			l[1] = append(l[1], "Ent:Back"...)
		}
		l[2] = angle.AppendFormat(append(l[2], "Raw: "...), sm.Raw)
		l[3] = appendPadded(append(l[3], "Zero: "...), int64(s.ZeroOffset), 5)

	case ADC:
		l[0] = appendPadded(append(l[0], "ADC: "...), int64(sm.ADC), 4)
		l[1] = strconv.AppendUint(append(l[1], "Min:"...), uint64(s.CalMin), 10)
		l[1] = strconv.AppendUint(append(l[1], " Max:"...), uint64(s.CalMax), 10)
		span := int32(s.CalMax) - int32(s.CalMin)
		if span < 1 {
			span = 1
		}
		l[2] = strconv.AppendInt(append(l[2], "Span: "...), int64(span), 10)
		switch {
		case sm.ADC < s.CalMin:
			l[3] = append(l[3], "Below MIN!"...)
		case sm.ADC > s.CalMax:
			l[3] = append(l[3], "Above MAX!"...)
		default:
			pct := (int32(sm.ADC) - int32(s.CalMin)) * 100 / span
			l[3] = strconv.AppendInt(append(l[3], "In range: "...), int64(pct), 10)
			l[3] = append(l[3], '%')
		}

	case Zero:
		l[0] = append(l[0], "Set ZERO?"...)
		l[1] = append(l[1], "Ent:YES L:Back"...)
		l[2] = angle.AppendFormat(append(l[2], "Current: "...), sm.Raw)

	case SetValue:
		if wide {
			l[0] = angle.AppendFormat(append(l[0], "Set Value: "...), c.target)
			l[1] = append(l[1], "UP/DN:val OK:apply LOK:step"...)
		} else {
			l[0] = angle.AppendFormat(append(l[0], "Set: "...), c.target)
			l[1] = append(l[1], "U/D:val OK:OK LOK:stp"...)
		}
		l[2] = angle.AppendFormat(append(l[2], "Raw: "...), sm.Raw)
		l[3] = append(append(l[3], "Step: "...), c.step.String()...)
		l[3] = append(l[3], " (LOK:change)"...)

	case CalMin, CalMax:
		if c.screen == CalMin {
			l[0] = append(l[0], "Cal MIN="...)
		} else {
			l[0] = append(l[0], "Cal MAX="...)
		}
		l[0] = appendPadded(l[0], int64(sm.ADC), 4)
		l[1] = append(l[1], "Ent:SAVE L:Back"...)
		l[2] = strconv.AppendUint(append(l[2], "Range: "...), uint64(s.CalMin), 10)
		l[2] = strconv.AppendUint(append(l[2], '-'), uint64(s.CalMax), 10)

	case Invert:
		if s.Invert {
			l[0] = append(l[0], "Invert: ON "...)
			l[2] = append(l[2], "Direction: Reversed"...)
		} else {
			l[0] = append(l[0], "Invert: OFF"...)
			l[2] = append(l[2], "Direction: Normal"...)
		}
		l[1] = append(l[1], "Ent:TOG L:Back"...)
	}

	for i := 0; i < rows && i < maxRows; i++ {
		c.rowBuf[i] = l[i]
		c.lines.SetLineBytes(i, l[i])
	}
}

func appendAngleLine(dst []byte, wide bool, v uint16) []byte {
	if wide {
		dst = append(dst, "Angle: "...)
	} else {
		dst = append(dst, "Ang: "...)
	}
	return angle.AppendFormat(dst, v)
}

// appendMenuNeighbour renders the unselected entry idx as "  N label".
func appendMenuNeighbour(dst []byte, idx int) []byte {
	dst = append(dst, "  "...)
	dst = strconv.AppendInt(dst, int64(idx+1), 10)
	dst = append(dst, ' ')
	return append(dst, menuItems[idx].label...)
}

// appendPadded appends v right-aligned in width columns.
func appendPadded(dst []byte, v int64, width int) []byte {
	var tmp [20]byte
	digits := strconv.AppendInt(tmp[:0], v, 10)
	for i := len(digits); i < width; i++ {
		dst = append(dst, ' ')
	}
	return append(dst, digits...)
}
