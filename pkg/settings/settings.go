package settings

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/itohio/anglemeter/pkg/angle"
)

// RecordSize is the persisted length of a settings record.
const RecordSize = 8

const flagInvert = 1 << 0

var (
	ErrShortRecord = errors.New("settings record too short")
	ErrChecksum    = errors.New("settings checksum mismatch")
	ErrRange       = errors.New("settings out of range")
)

// Settings is the persisted calibration of the instrument.
type Settings struct {
	ZeroOffset uint16 // centidegrees, 0..35999
	CalMin     uint16 // ADC value mapped to 0°
	CalMax     uint16 // ADC value mapped to 360°
	Invert     bool
}

// Defaults returns the factory settings.
func Defaults() Settings {
	return Settings{
		ZeroOffset: 0,
		CalMin:     0,
		CalMax:     angle.MaxADC,
		Invert:     false,
	}
}

// Calibration returns the ADC mapping part of the settings.
func (s Settings) Calibration() angle.Calibration {
	return angle.Calibration{Min: s.CalMin, Max: s.CalMax, Invert: s.Invert}
}

// Validate checks the record invariants.
func (s Settings) Validate() error {
	switch {
	case s.CalMax > angle.MaxADC:
		return fmt.Errorf("%w: calMax %d above %d", ErrRange, s.CalMax, angle.MaxADC)
	case s.CalMin >= s.CalMax:
		return fmt.Errorf("%w: calMin %d not below calMax %d", ErrRange, s.CalMin, s.CalMax)
	case s.ZeroOffset >= angle.FullCircle:
		return fmt.Errorf("%w: zero %d", ErrRange, s.ZeroOffset)
	}
	return nil
}

// Marshal encodes s into dst, which must hold RecordSize bytes.
//
// Layout: zero u16 | calMin u16 | calMax u16 | flags u8 | checksum u8,
// little-endian, checksum is the XOR of the first seven bytes.
func (s Settings) Marshal(dst []byte) {
	_ = dst[RecordSize-1]
	binary.LittleEndian.PutUint16(dst[0:], s.ZeroOffset)
	binary.LittleEndian.PutUint16(dst[2:], s.CalMin)
	binary.LittleEndian.PutUint16(dst[4:], s.CalMax)
	var flags byte
	if s.Invert {
		flags |= flagInvert
	}
	dst[6] = flags
	dst[7] = checksum(dst[:7])
}

// Unmarshal decodes a record. It checks length and checksum, not ranges.
func Unmarshal(b []byte) (Settings, error) {
	if len(b) < RecordSize {
		return Settings{}, fmt.Errorf("%w: %d bytes", ErrShortRecord, len(b))
	}
	if sum := checksum(b[:7]); sum != b[7] {
		return Settings{}, fmt.Errorf("%w: stored 0x%02x, computed 0x%02x", ErrChecksum, b[7], sum)
	}
	return Settings{
		ZeroOffset: binary.LittleEndian.Uint16(b[0:]),
		CalMin:     binary.LittleEndian.Uint16(b[2:]),
		CalMax:     binary.LittleEndian.Uint16(b[4:]),
		Invert:     b[6]&flagInvert != 0,
	}, nil
}

func checksum(b []byte) byte {
	var x byte
	for _, v := range b {
		x ^= v
	}
	return x
}
