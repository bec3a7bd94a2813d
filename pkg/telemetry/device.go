package telemetry

import (
	"bufio"
	"context"
	"io"
	"log"
	"strings"
)

// DefaultBufferSize is the default size of the frames channel.
const DefaultBufferSize = 100

// Device is a telemetry source, real or simulated.
type Device interface {
	Connect() error
	Close() error
	Frames() <-chan Frame
	IsConnected() bool
}

// Ensure Pipe implements Device.
var _ Device = (*Pipe)(nil)

// readFrames scans r line by line into out and closes out when r ends or
// ctx is cancelled. Malformed lines are logged and skipped; frames are
// dropped when out is full.
func readFrames(ctx context.Context, r io.Reader, out chan<- Frame) {
	defer close(out)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		f, err := Parse(line)
		if err != nil {
			log.Printf("Failed to parse line '%s': %v", line, err)
			continue
		}

		select {
		case out <- f:
		case <-ctx.Done():
			return
		default:
			log.Printf("Frames channel full, dropping frame")
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		log.Printf("Error reading telemetry: %v", err)
	}
}
