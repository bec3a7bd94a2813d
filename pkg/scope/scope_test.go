package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateScale(t *testing.T) {
	assert.InDelta(t, 1.1, rateScale(nil), 1e-6)
	assert.InDelta(t, 11.0, rateScale([]float32{3, -10, 5}), 1e-5)
}

func TestWraps(t *testing.T) {
	assert.True(t, wraps(35900, 100))
	assert.True(t, wraps(100, 35900))
	assert.False(t, wraps(100, 900))
	assert.False(t, wraps(17000, 1000))
}

func TestPlotMapping(t *testing.T) {
	p := plot{x: 10, y: 20, w: 100, h: 200, windowMs: 1000, endMs: 5000}
	assert.InDelta(t, 110, p.xAt(5000), 1e-4)
	assert.InDelta(t, 10, p.xAt(4000), 1e-4)
	assert.InDelta(t, 220, p.yAngle(0), 1e-4)
	assert.InDelta(t, 120, p.yAngle(18000), 1e-4)
	assert.InDelta(t, 120, p.yRate(0, 5), 1e-4)
	assert.InDelta(t, 20, p.yRate(5, 5), 1e-4)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "123°27'", formatAngle(12345))
	assert.Equal(t, "0°05'", formatAngle(8))
	assert.Equal(t, "-2.5°/s", formatRate(-2.5))
}
