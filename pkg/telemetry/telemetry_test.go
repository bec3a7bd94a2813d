package telemetry

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/anglemeter/pkg/nav"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Frame
		wantErr bool
	}{
		{
			name: "valid",
			line: "123456,512,18017,18000,17990,0",
			want: Frame{Millis: 123456, ADC: 512, Raw: 18017, Shown: 18000, Displayed: 17990, Screen: nav.Main},
		},
		{
			name: "trailing whitespace",
			line: "1,0,0,0,0,5\r\n",
			want: Frame{Millis: 1, Screen: nav.SetValue},
		},
		{name: "too few fields", line: "1,2,3,4,5", wantErr: true},
		{name: "too many fields", line: "1,2,3,4,5,6,7", wantErr: true},
		{name: "non-numeric millis", line: "x,2,3,4,5,0", wantErr: true},
		{name: "adc out of range", line: "1,1024,3,4,5,0", wantErr: true},
		{name: "raw out of range", line: "1,2,36000,4,5,0", wantErr: true},
		{name: "displayed out of range", line: "1,2,3,4,40000,0", wantErr: true},
		{name: "unknown screen", line: "1,2,3,4,5,9", wantErr: true},
		{name: "negative", line: "1,-2,3,4,5,0", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAppendFrame(t *testing.T) {
	f := Frame{Millis: 4294967295, ADC: 1023, Raw: 35999, Shown: 1, Displayed: 0, Screen: nav.Invert}
	line := AppendFrame(nil, f)
	assert.Equal(t, "4294967295,1023,35999,1,0,8\n", string(line))

	got, err := Parse(string(line))
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestAppendFrame_NoAlloc(t *testing.T) {
	buf := make([]byte, 0, 64)
	f := Frame{Millis: 1000, ADC: 10, Raw: 20, Shown: 30, Displayed: 40, Screen: nav.Menu}
	allocs := testing.AllocsPerRun(100, func() {
		buf = AppendFrame(buf[:0], f)
	})
	assert.Zero(t, allocs)
}

func TestReadFrames_SkipsGarbage(t *testing.T) {
	in := strings.NewReader("boot ok\n1,2,3,4,5,0\n\n2,2,3,4,5,1\nnot,a,frame\n")
	out := make(chan Frame, 10)
	readFrames(context.Background(), in, out)

	var got []Frame
	for f := range out {
		got = append(got, f)
	}
	require.Len(t, got, 2)
	assert.Equal(t, uint32(1), got[0].Millis)
	assert.Equal(t, nav.Menu, got[1].Screen)
}

func TestReadFrames_DropsWhenFull(t *testing.T) {
	in := strings.NewReader("1,2,3,4,5,0\n2,2,3,4,5,0\n3,2,3,4,5,0\n")
	out := make(chan Frame, 1)
	readFrames(context.Background(), in, out)

	f, ok := <-out
	require.True(t, ok)
	assert.Equal(t, uint32(1), f.Millis)
	_, ok = <-out
	assert.False(t, ok)
}

func TestPipe_RoundTrip(t *testing.T) {
	p := NewPipe(10)
	assert.False(t, p.IsConnected())

	n, err := p.Write([]byte("dropped before connect\n"))
	require.NoError(t, err)
	assert.Equal(t, 23, n)

	require.NoError(t, p.Connect())
	assert.True(t, p.IsConnected())
	assert.Error(t, p.Connect())

	_, err = p.Write(AppendFrame(nil, Frame{Millis: 42, ADC: 7, Screen: nav.ADC}))
	require.NoError(t, err)

	select {
	case f := <-p.Frames():
		assert.Equal(t, uint32(42), f.Millis)
		assert.Equal(t, nav.ADC, f.Screen)
	case <-time.After(time.Second):
		t.Fatal("no frame")
	}

	require.NoError(t, p.Close())
	assert.False(t, p.IsConnected())

	select {
	case _, ok := <-p.Frames():
		assert.False(t, ok, "frames channel closes after Close")
	case <-time.After(time.Second):
		t.Fatal("frames channel not closed")
	}

	_, err = p.Write([]byte("1,2,3,4,5,0\n"))
	assert.NoError(t, err, "writes after close are discarded")
}

func TestNew_Defaults(t *testing.T) {
	d := New("/dev/ttyACM0", 0, 0)
	assert.Equal(t, DefaultBaudRate, d.baudRate)
	assert.Equal(t, DefaultBufferSize, d.bufSize)
	assert.False(t, d.IsConnected())
	assert.NoError(t, d.Close())
}

func TestSerial_Reconnect(t *testing.T) {
	d := New("/dev/ttyACM0", 0, 10)

	for cycle := 0; cycle < 2; cycle++ {
		line := string(AppendFrame(nil, Frame{Millis: uint32(cycle + 1), Screen: nav.Main}))

		d.mu.Lock()
		d.start(strings.NewReader(line))
		d.mu.Unlock()
		frames := d.Frames()

		select {
		case f, ok := <-frames:
			require.True(t, ok)
			assert.Equal(t, uint32(cycle+1), f.Millis)
		case <-time.After(time.Second):
			t.Fatalf("cycle %d: no frame", cycle)
		}

		select {
		case _, ok := <-frames:
			assert.False(t, ok, "reader closes its channel at end of input")
		case <-time.After(time.Second):
			t.Fatalf("cycle %d: channel not closed", cycle)
		}

		d.mu.Lock()
		d.cancel()
		d.connected = false
		d.mu.Unlock()
	}
}
