package settings

import (
	"fmt"
	"log"

	"github.com/itohio/anglemeter/pkg/angle"
)

// Store owns the in-memory settings and keeps them in sync with Storage.
//
// Not safe for concurrent use.
type Store struct {
	storage Storage
	offset  int64
	current Settings
	buf     [RecordSize]byte
}

// New creates a store over storage at offset, starting from Defaults.
func New(storage Storage, offset int64) *Store {
	return &Store{
		storage: storage,
		offset:  offset,
		current: Defaults(),
	}
}

// Load reads and validates the persisted record. A record that cannot be
// read, fails the checksum or breaks an invariant is replaced by the defaults,
// which are written back at once. Only a failed rewrite is returned.
func (s *Store) Load() error {
	v, err := s.read()
	if err == nil {
		err = v.Validate()
	}
	if err == nil {
		s.current = v
		log.Printf("settings: loaded zero=%d cal=%d..%d invert=%v", v.ZeroOffset, v.CalMin, v.CalMax, v.Invert)
		return nil
	}

	log.Printf("settings: %v, restoring defaults", err)
	if err := s.Save(Defaults()); err != nil {
		s.current = Defaults()
		return err
	}
	return nil
}

func (s *Store) read() (Settings, error) {
	n, err := s.storage.ReadAt(s.buf[:], s.offset)
	if n < RecordSize {
		if err == nil {
			err = ErrShortRecord
		}
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	return Unmarshal(s.buf[:])
}

// Current returns the active settings.
func (s *Store) Current() Settings {
	return s.current
}

// Save validates, encodes and writes v. The active settings change only
// after the write has fully landed.
func (s *Store) Save(v Settings) error {
	if err := v.Validate(); err != nil {
		return err
	}
	v.Marshal(s.buf[:])
	n, err := s.storage.WriteAt(s.buf[:], s.offset)
	if err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if n != RecordSize {
		return fmt.Errorf("failed to write settings: short write %d of %d", n, RecordSize)
	}
	s.current = v
	return nil
}

// SetZero makes the current calibrated angle raw read as 0.
func (s *Store) SetZero(raw uint16) error {
	v := s.current
	v.ZeroOffset = angle.Wrap(int32(raw))
	return s.Save(v)
}

// SetValue chooses the zero offset so that raw reads as target.
func (s *Store) SetValue(raw, target uint16) error {
	v := s.current
	v.ZeroOffset = angle.Wrap(int32(raw) - int32(target))
	return s.Save(v)
}

// SetCalMin stores adc as the 0° end of the span.
func (s *Store) SetCalMin(adc uint16) error {
	v := s.current
	v.CalMin = clampADC(adc)
	if v.CalMin >= angle.MaxADC {
		v.CalMin = angle.MaxADC - 1
	}
	if v.CalMax <= v.CalMin {
		v.CalMax = v.CalMin + 1
	}
	return s.Save(v)
}

// SetCalMax stores adc as the 360° end of the span.
func (s *Store) SetCalMax(adc uint16) error {
	v := s.current
	v.CalMax = clampADC(adc)
	if v.CalMax == 0 {
		v.CalMax = 1
	}
	if v.CalMin >= v.CalMax {
		v.CalMin = v.CalMax - 1
	}
	return s.Save(v)
}

// ToggleInvert flips the direction of rotation.
func (s *Store) ToggleInvert() error {
	v := s.current
	v.Invert = !v.Invert
	return s.Save(v)
}

func clampADC(adc uint16) uint16 {
	if adc > angle.MaxADC {
		return angle.MaxADC
	}
	return adc
}
