//go:build tinygo

package main

import (
	"fmt"
	"machine"
)

// flashStorage keeps the settings record in the last erase block of the
// on-board flash. Writes erase the block first, so the record must fit in it.
type flashStorage struct {
	base  int64
	block int64
}

func newFlashStorage() (*flashStorage, error) {
	block := machine.Flash.EraseBlockSize()
	size := machine.Flash.Size()
	if block <= 0 || size < block {
		return nil, fmt.Errorf("flash too small: size=%d block=%d", size, block)
	}
	return &flashStorage{base: size - block, block: block}, nil
}

func (f *flashStorage) ReadAt(p []byte, off int64) (int, error) {
	n, err := machine.Flash.ReadAt(p, f.base+off)
	if err != nil {
		return n, fmt.Errorf("flash read at %d: %w", off, err)
	}
	return n, nil
}

func (f *flashStorage) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > f.block {
		return 0, fmt.Errorf("flash write at %d: outside settings block", off)
	}
	if err := machine.Flash.EraseBlocks(f.base/f.block, 1); err != nil {
		return 0, fmt.Errorf("flash erase: %w", err)
	}
	n, err := machine.Flash.WriteAt(p, f.base+off)
	if err != nil {
		return n, fmt.Errorf("flash write at %d: %w", off, err)
	}
	return n, nil
}
