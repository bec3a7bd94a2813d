package settings

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Storage is a byte-addressed non-volatile area.
type Storage interface {
	io.ReaderAt
	io.WriterAt
}

// Memory emulates an erased EEPROM in RAM.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

// NewMemory creates an erased (0xFF) area of the given size.
func NewMemory(size int) *Memory {
	m := &Memory{data: make([]byte, size)}
	for i := range m.data {
		m.data[i] = 0xFF
	}
	return m
}

func (m *Memory) ReadAt(p []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if off < 0 || off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *Memory) WriteAt(p []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if off < 0 || off+int64(len(p)) > int64(len(m.data)) {
		return 0, fmt.Errorf("write of %d bytes at %d exceeds %d byte area", len(p), off, len(m.data))
	}
	return copy(m.data[off:], p), nil
}

// Bytes returns a copy of the whole area.
func (m *Memory) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// File keeps the settings area in a host file, created on first write.
type File struct {
	path string
}

// NewFile returns a file-backed storage at path.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) ReadAt(p []byte, off int64) (int, error) {
	fd, err := os.Open(f.path)
	if err != nil {
		return 0, fmt.Errorf("failed to open settings file: %w", err)
	}
	defer fd.Close()
	return fd.ReadAt(p, off)
}

func (f *File) WriteAt(p []byte, off int64) (int, error) {
	fd, err := os.OpenFile(f.path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open settings file: %w", err)
	}
	n, err := fd.WriteAt(p, off)
	if err != nil {
		fd.Close()
		return n, fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := fd.Sync(); err != nil {
		fd.Close()
		return n, fmt.Errorf("failed to sync settings file: %w", err)
	}
	return n, fd.Close()
}
