package settings

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/anglemeter/pkg/angle"
)

func TestMarshal_Layout(t *testing.T) {
	var b [RecordSize]byte
	Settings{ZeroOffset: 0x1234, CalMin: 0x0010, CalMax: 0x03FF, Invert: true}.Marshal(b[:])

	want := []byte{0x34, 0x12, 0x10, 0x00, 0xFF, 0x03, 0x01, 0}
	want[7] = 0x34 ^ 0x12 ^ 0x10 ^ 0x00 ^ 0xFF ^ 0x03 ^ 0x01
	assert.Equal(t, want, b[:])
}

func TestUnmarshal(t *testing.T) {
	in := Settings{ZeroOffset: 12345, CalMin: 17, CalMax: 1000, Invert: true}
	var b [RecordSize]byte
	in.Marshal(b[:])

	out, err := Unmarshal(b[:])
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = Unmarshal(b[:5])
	assert.ErrorIs(t, err, ErrShortRecord)

	b[3] ^= 0x04
	_, err = Unmarshal(b[:])
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		s    Settings
		ok   bool
	}{
		{"defaults", Defaults(), true},
		{"equal bounds", Settings{CalMin: 500, CalMax: 500}, false},
		{"inverted bounds", Settings{CalMin: 600, CalMax: 500}, false},
		{"max above adc", Settings{CalMin: 0, CalMax: 1024}, false},
		{"zero out of range", Settings{ZeroOffset: 36000, CalMax: 1023}, false},
		{"narrow span", Settings{CalMin: 1022, CalMax: 1023}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrRange)
			}
		})
	}
}

func loaded(t *testing.T, mem *Memory) *Store {
	t.Helper()
	s := New(mem, 0)
	require.NoError(t, s.Load())
	return s
}

func TestStore_LoadErasedRestoresDefaults(t *testing.T) {
	mem := NewMemory(64)
	s := loaded(t, mem)
	assert.Equal(t, Defaults(), s.Current())

	rec, err := Unmarshal(mem.Bytes()[:RecordSize])
	require.NoError(t, err, "defaults are written back immediately")
	assert.Equal(t, Defaults(), rec)
}

func TestStore_LoadValid(t *testing.T) {
	mem := NewMemory(64)
	want := Settings{ZeroOffset: 900, CalMin: 12, CalMax: 1000, Invert: true}
	var b [RecordSize]byte
	want.Marshal(b[:])
	_, err := mem.WriteAt(b[:], 16)
	require.NoError(t, err)

	s := New(mem, 16)
	require.NoError(t, s.Load())
	assert.Equal(t, want, s.Current())
}

func TestStore_FlippedBitRestoresDefaults(t *testing.T) {
	mem := NewMemory(64)
	s := loaded(t, mem)
	require.NoError(t, s.SetZero(4500))

	b := mem.Bytes()
	b[0] ^= 0x01
	_, err := mem.WriteAt(b[:RecordSize], 0)
	require.NoError(t, err)

	s = loaded(t, mem)
	assert.Equal(t, Defaults(), s.Current())

	rec, err := Unmarshal(mem.Bytes()[:RecordSize])
	require.NoError(t, err)
	assert.NoError(t, rec.Validate())
	assert.Equal(t, Defaults(), rec)
}

func TestStore_InvalidRangeRestoresDefaults(t *testing.T) {
	mem := NewMemory(64)
	var b [RecordSize]byte
	Settings{CalMin: 500, CalMax: 500}.Marshal(b[:])
	_, err := mem.WriteAt(b[:], 0)
	require.NoError(t, err)

	s := loaded(t, mem)
	assert.Equal(t, Defaults(), s.Current())
}

func TestStore_ReadErrorRestoresDefaults(t *testing.T) {
	s := New(NewMemory(4), 0)
	err := s.Load()
	require.Error(t, err, "the area cannot hold the rewrite either")
	assert.Equal(t, Defaults(), s.Current())
}

func TestStore_SaveFailureKeepsPrevious(t *testing.T) {
	mem := NewMemory(RecordSize)
	s := New(mem, 0)
	require.NoError(t, s.Load())
	require.NoError(t, s.SetZero(100))

	s.offset = 1
	err := s.SetZero(200)
	require.Error(t, err)
	assert.Equal(t, uint16(100), s.Current().ZeroOffset)
}

func TestStore_SetValue(t *testing.T) {
	s := loaded(t, NewMemory(64))
	require.NoError(t, s.SetValue(1000, 3000))
	assert.Equal(t, uint16(34000), s.Current().ZeroOffset)

	require.NoError(t, s.SetValue(5000, 1000))
	assert.Equal(t, uint16(4000), s.Current().ZeroOffset)
}

func TestStore_SetZero(t *testing.T) {
	s := loaded(t, NewMemory(64))
	require.NoError(t, s.SetZero(27000))
	assert.Equal(t, uint16(27000), s.Current().ZeroOffset)
}

func TestStore_SetZeroReadsZero(t *testing.T) {
	s := loaded(t, NewMemory(64))
	for a := uint16(0); a < angle.FullCircle; a++ {
		require.NoError(t, s.SetZero(a))
		if got := angle.ApplyZero(a, s.Current().ZeroOffset); got != 0 {
			t.Fatalf("angle %d reads %d after zeroing", a, got)
		}
	}
}

func TestStore_Calibration(t *testing.T) {
	tests := []struct {
		name     string
		start    Settings
		apply    func(*Store) error
		min, max uint16
	}{
		{"min", Defaults(), func(s *Store) error { return s.SetCalMin(100) }, 100, 1023},
		{"max", Defaults(), func(s *Store) error { return s.SetCalMax(900) }, 0, 900},
		{"min pushes max", Settings{CalMin: 0, CalMax: 400}, func(s *Store) error { return s.SetCalMin(500) }, 500, 501},
		{"max pushes min", Settings{CalMin: 600, CalMax: 1023}, func(s *Store) error { return s.SetCalMax(500) }, 499, 500},
		{"equal bounds", Settings{CalMin: 500, CalMax: 500}, func(s *Store) error { return s.SetCalMax(500) }, 499, 500},
		{"min at top", Defaults(), func(s *Store) error { return s.SetCalMin(1023) }, 1022, 1023},
		{"max at bottom", Defaults(), func(s *Store) error { return s.SetCalMax(0) }, 0, 1},
		{"min clamps", Defaults(), func(s *Store) error { return s.SetCalMin(4000) }, 1022, 1023},
		{"max clamps", Defaults(), func(s *Store) error { return s.SetCalMax(4000) }, 0, 1023},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loaded(t, NewMemory(64))
			s.current = tt.start
			require.NoError(t, tt.apply(s))
			assert.Equal(t, tt.min, s.Current().CalMin)
			assert.Equal(t, tt.max, s.Current().CalMax)
			assert.Less(t, s.Current().CalMin, s.Current().CalMax)
		})
	}
}

func TestStore_ToggleInvert(t *testing.T) {
	s := loaded(t, NewMemory(64))
	require.NoError(t, s.ToggleInvert())
	assert.True(t, s.Current().Invert)
	require.NoError(t, s.ToggleInvert())
	assert.False(t, s.Current().Invert)
}

func TestFile_PersistsAcrossStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.bin")

	s := New(NewFile(path), 0)
	require.NoError(t, s.Load(), "missing file is restored to defaults")
	require.NoError(t, s.SetCalMin(42))

	s = New(NewFile(path), 0)
	require.NoError(t, s.Load())
	assert.Equal(t, uint16(42), s.Current().CalMin)
}

func TestMemory_Bounds(t *testing.T) {
	m := NewMemory(4)
	_, err := m.WriteAt([]byte{1, 2, 3}, 2)
	assert.Error(t, err)

	buf := make([]byte, 3)
	n, err := m.ReadAt(buf, 2)
	assert.Equal(t, 2, n)
	assert.True(t, errors.Is(err, io.EOF))
}
