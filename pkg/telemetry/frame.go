// Package telemetry carries the instrument's diagnostic stream: one ASCII
// line per UI frame, written by the firmware and read back on the host.
package telemetry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/itohio/anglemeter/pkg/angle"
	"github.com/itohio/anglemeter/pkg/nav"
)

// Frame is one telemetry record.
type Frame struct {
	Millis    uint32 // Instrument uptime
	ADC       uint16 // Averaged 10-bit sample
	Raw       uint16 // Calibrated angle
	Shown     uint16 // Zero-applied angle
	Displayed uint16 // Smoothed main readout
	Screen    nav.Screen
}

// AppendFrame appends f as "millis,adc,raw,shown,displayed,screen\n".
func AppendFrame(dst []byte, f Frame) []byte {
	dst = strconv.AppendUint(dst, uint64(f.Millis), 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(f.ADC), 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(f.Raw), 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(f.Shown), 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(f.Displayed), 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(f.Screen), 10)
	return append(dst, '\n')
}

// Parse decodes one telemetry line.
func Parse(line string) (Frame, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != 6 {
		return Frame{}, fmt.Errorf("invalid line format: expected 6 comma-separated values, got %d", len(parts))
	}

	millis, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return Frame{}, fmt.Errorf("invalid millis: %w", err)
	}

	adc, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return Frame{}, fmt.Errorf("invalid adc: %w", err)
	}
	if adc > angle.MaxADC {
		return Frame{}, fmt.Errorf("adc out of range: %d (max %d)", adc, angle.MaxADC)
	}

	var angles [3]uint16
	for i, name := range []string{"raw", "shown", "displayed"} {
		v, err := strconv.ParseUint(parts[2+i], 10, 16)
		if err != nil {
			return Frame{}, fmt.Errorf("invalid %s: %w", name, err)
		}
		if v >= angle.FullCircle {
			return Frame{}, fmt.Errorf("%s out of range: %d", name, v)
		}
		angles[i] = uint16(v)
	}

	screen, err := strconv.ParseUint(parts[5], 10, 8)
	if err != nil {
		return Frame{}, fmt.Errorf("invalid screen: %w", err)
	}
	if !nav.Screen(screen).Valid() {
		return Frame{}, fmt.Errorf("unknown screen: %d", screen)
	}

	return Frame{
		Millis:    uint32(millis),
		ADC:       uint16(adc),
		Raw:       angles[0],
		Shown:     angles[1],
		Displayed: angles[2],
		Screen:    nav.Screen(screen),
	}, nil
}
