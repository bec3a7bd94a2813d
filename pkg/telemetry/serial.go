//go:build !tinygo

package telemetry

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"go.bug.st/serial"
)

// DefaultBaudRate is the USB-CDC console rate of the firmware.
const DefaultBaudRate = 115200

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	result := make([]Port, 0, len(names))
	for _, name := range names {
		result = append(result, Port{Name: name, Description: name})
	}
	return result, nil
}

// Serial reads telemetry from an instrument over a serial port.
type Serial struct {
	port     string
	baudRate int
	bufSize  int

	conn      serial.Port
	frames    chan Frame
	mu        sync.RWMutex
	cancel    context.CancelFunc
	connected bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// New creates a Serial for port. Zero baudRate or bufSize select the defaults.
func New(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}
	return &Serial{
		port:     port,
		baudRate: baudRate,
		bufSize:  bufSize,
		frames:   make(chan Frame, bufSize),
	}
}

// Connect opens the port and starts reading frames.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}

	conn, err := serial.Open(d.port, &serial.Mode{BaudRate: d.baudRate})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = conn
	d.start(conn)
	return nil
}

// start launches a reader on a fresh frames channel, since the previous one
// was closed by its reader. Must be called with mu held.
func (d *Serial) start(r io.Reader) {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.frames = make(chan Frame, d.bufSize)
	d.connected = true

	go readFrames(ctx, r, d.frames)
}

// Close stops reading and closes the port. The frames channel is closed once
// the reader has exited.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.cancel()
	if err := d.conn.Close(); err != nil {
		log.Printf("Error closing serial port: %v", err)
	}
	d.conn = nil
	d.connected = false
	return nil
}

// Frames returns the channel of the current connection. Each Connect
// starts a new channel.
func (d *Serial) Frames() <-chan Frame {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.frames
}

// IsConnected returns whether the port is open.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}
