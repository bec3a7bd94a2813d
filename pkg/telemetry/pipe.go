package telemetry

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// Pipe is an in-process telemetry link: an instrument writes lines into it
// and they come out of Frames, the same way they would over a serial port.
type Pipe struct {
	frames chan Frame

	mu     sync.Mutex
	pr     *io.PipeReader
	pw     *io.PipeWriter
	cancel context.CancelFunc
	open   atomic.Bool
}

// NewPipe creates an unconnected pipe. Zero bufSize selects the default.
func NewPipe(bufSize int) *Pipe {
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}
	return &Pipe{frames: make(chan Frame, bufSize)}
}

// Connect starts delivering written lines as frames.
func (p *Pipe) Connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.open.Load() {
		return fmt.Errorf("already connected")
	}
	if p.pr != nil {
		return fmt.Errorf("pipe already closed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.pr, p.pw = io.Pipe()
	p.cancel = cancel
	p.open.Store(true)

	go readFrames(ctx, p.pr, p.frames)
	return nil
}

// Write feeds telemetry text. Writes before Connect or after Close are discarded.
func (p *Pipe) Write(b []byte) (int, error) {
	if !p.open.Load() {
		return len(b), nil
	}
	n, err := p.pw.Write(b)
	if err == io.ErrClosedPipe {
		return len(b), nil
	}
	return n, err
}

// Close stops the reader. The frames channel is closed once it has exited.
func (p *Pipe) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open.Load() {
		return nil
	}
	p.open.Store(false)
	p.cancel()
	p.pr.Close()
	return p.pw.Close()
}

// Frames returns the channel of received frames.
func (p *Pipe) Frames() <-chan Frame {
	return p.frames
}

// IsConnected returns whether the pipe is delivering frames.
func (p *Pipe) IsConnected() bool {
	return p.open.Load()
}
