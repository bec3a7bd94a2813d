package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/anglemeter/pkg/telemetry"
)

func frame(ms uint32, displayed uint16) telemetry.Frame {
	return telemetry.Frame{Millis: ms, Displayed: displayed}
}

func TestRate(t *testing.T) {
	assert.InDelta(t, 10.0, Rate(frame(0, 1000), frame(1000, 2000)), 1e-6)
	assert.InDelta(t, -10.0, Rate(frame(0, 2000), frame(1000, 1000)), 1e-6)
	assert.InDelta(t, 4.0, Rate(frame(0, 35900), frame(500, 100)), 1e-6, "crossing 0 takes the short way")
	assert.Zero(t, Rate(frame(10, 0), frame(10, 500)))
}

func TestBuffer_RatesMatchFrames(t *testing.T) {
	b := New(time.Second)
	for i := uint32(0); i < 5; i++ {
		b.Add(frame(i*100, uint16(i*100)))
	}
	frames, rates := b.Frames(), b.Rates()
	require.Len(t, frames, 5)
	require.Len(t, rates, 4)
	for _, r := range rates {
		assert.InDelta(t, 10.0, r, 1e-6)
	}
}

func TestBuffer_Window(t *testing.T) {
	b := New(time.Second)
	for ms := uint32(0); ms <= 3000; ms += 100 {
		b.Add(frame(ms, 0))
	}
	frames := b.Frames()
	assert.Equal(t, uint32(2000), frames[0].Millis)
	assert.Equal(t, uint32(3000), frames[len(frames)-1].Millis)
	assert.Len(t, b.Rates(), len(frames)-1)
}

func TestBuffer_RestartClears(t *testing.T) {
	b := New(time.Minute)
	b.Add(frame(5000, 0))
	b.Add(frame(5100, 0))
	b.Add(frame(20, 0))
	assert.Equal(t, 1, b.Len())
	assert.Empty(t, b.Rates())
}

func TestBuffer_DuplicateReplaces(t *testing.T) {
	b := New(time.Minute)
	b.Add(frame(100, 1))
	b.Add(frame(100, 2))
	frames := b.Frames()
	require.Len(t, frames, 1)
	assert.Equal(t, uint16(2), frames[0].Displayed)
}

func TestBuffer_DuplicateRecomputesRate(t *testing.T) {
	b := New(time.Minute)
	b.Add(frame(0, 0))
	b.Add(frame(1000, 100))
	b.Add(frame(1000, 500))

	require.Len(t, b.Frames(), 2)
	rates := b.Rates()
	require.Len(t, rates, 1)
	assert.InDelta(t, 5.0, rates[0], 1e-6)
}

func TestBuffer_ProcessAndNotify(t *testing.T) {
	b := New(time.Minute)
	var calls, last int
	b.OnUpdate(func(frames []telemetry.Frame, rates []float32) {
		calls++
		last = len(frames)
	})

	in := make(chan telemetry.Frame, 3)
	in <- frame(0, 0)
	in <- frame(20, 0)
	in <- frame(40, 0)
	close(in)
	b.Process(in)

	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, last)
}

func TestDownsample(t *testing.T) {
	src := make([]int, 100)
	for i := range src {
		src[i] = i
	}

	got := Downsample(nil, src, 10)
	assert.Equal(t, []int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90}, got)

	dst := make([]int, 0, 200)
	got = Downsample(dst, src[:5], 10)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	assert.Equal(t, 200, cap(got), "dst is reused")

	assert.Empty(t, Downsample([]int{}, src, 0))
}
