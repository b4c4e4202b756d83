package memory

import (
	"sync"

	vmabi "github.com/wippyai/vm-abi"
	"github.com/wippyai/vm-abi/errors"
)

// PageSize is the growth unit of a Buffer, matching a wasm page.
const PageSize = 64 * 1024

// Buffer is a growable in-process linear memory.
type Buffer struct {
	data []byte
	max  uint32
	mu   sync.RWMutex
}

// NewBuffer creates a zeroed memory of size bytes that may grow up to max
// bytes. A max of zero means the buffer cannot grow.
func NewBuffer(size uint32, max ...uint32) *Buffer {
	b := &Buffer{data: make([]byte, size), max: size}
	if len(max) > 0 && max[0] > size {
		b.max = max[0]
	}
	return b
}

// Read returns a copy of length bytes at offset.
func (b *Buffer) Read(offset, length uint32) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	end, ok := b.span(offset, uint64(length))
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseMemory, nil, end, uint64(len(b.data)))
	}
	out := make([]byte, length)
	copy(out, b.data[offset:end])
	return out, nil
}

func (b *Buffer) Write(offset uint32, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	end, ok := b.span(offset, uint64(len(data)))
	if !ok {
		return errors.OutOfBounds(errors.PhaseMemory, nil, end, uint64(len(b.data)))
	}
	copy(b.data[offset:end], data)
	return nil
}

// Size returns the current size in bytes.
func (b *Buffer) Size() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return uint32(len(b.data))
}

// Grow extends the buffer by pages wasm pages and returns the previous size
// in pages.
func (b *Buffer) Grow(pages uint32) (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev := uint64(len(b.data))
	next := prev + uint64(pages)*PageSize
	if next > uint64(b.max) {
		return 0, errors.New(errors.PhaseMemory, errors.KindAllocation).
			Value(pages).
			Detail("grow by %d pages exceeds maximum of %d bytes", pages, b.max).
			Build()
	}
	grown := make([]byte, next)
	copy(grown, b.data)
	b.data = grown
	return uint32(prev / PageSize), nil
}

// Bytes returns a copy of the whole memory.
func (b *Buffer) Bytes() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]byte(nil), b.data...)
}

func (b *Buffer) span(offset uint32, length uint64) (uint64, bool) {
	end := uint64(offset) + length
	return end, end <= uint64(len(b.data))
}

var (
	_ vmabi.Memory      = (*Buffer)(nil)
	_ vmabi.MemorySizer = (*Buffer)(nil)
)
