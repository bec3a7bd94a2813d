package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.BaudRate)
	assert.Equal(t, 16, cfg.Display.Cols)
	assert.Equal(t, 2, cfg.Display.Rows)
	assert.Equal(t, 10*time.Millisecond, cfg.Timing.ButtonTick)
	assert.Equal(t, 20*time.Millisecond, cfg.Timing.UITick)
	assert.Equal(t, 25*time.Millisecond, cfg.Timing.Debounce)
	assert.Equal(t, 600*time.Millisecond, cfg.Timing.LongPress)
	assert.Equal(t, 64, cfg.Mock.Oversample)
	assert.Equal(t, 30*time.Second, cfg.Window())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ValidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anglesim.yaml")
	yamlContent := `
serial:
  port: "COM7"

display:
  cols: 20
  rows: 4

timing:
  long_press: 800ms
  telemetry_every: 5

storage:
  path: "eeprom.bin"
  offset: 16

mock:
  noise: 0.5
  position: 100

scope:
  window_seconds: 10
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "COM7", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.BaudRate, "missing field takes the default")
	assert.Equal(t, 20, cfg.Display.Cols)
	assert.Equal(t, 4, cfg.Display.Rows)
	assert.Equal(t, 800*time.Millisecond, cfg.Timing.LongPress)
	assert.Equal(t, 25*time.Millisecond, cfg.Timing.Debounce)
	assert.Equal(t, 5, cfg.Timing.TelemetryEvery)
	assert.Equal(t, "eeprom.bin", cfg.Storage.Path)
	assert.Equal(t, int64(16), cfg.Storage.Offset)
	assert.Equal(t, float32(0.5), cfg.Mock.Noise)
	assert.Equal(t, uint16(100), cfg.Mock.Position)
	assert.Equal(t, 10*time.Second, cfg.Window())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display: [oops"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_BadGeometry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display:\n  cols: 40\n  rows: 2\n"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrGeometry)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Display = DisplayConfig{Cols: 20, Rows: 4}
	cfg.Storage.Path = "/tmp/eeprom.bin"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
