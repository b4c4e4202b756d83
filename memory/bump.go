package memory

import (
	"sync"

	vmabi "github.com/wippyai/vm-abi"
	"github.com/wippyai/vm-abi/errors"
)

// BumpAllocator hands out aligned regions of [start, limit) in order.
// Free is a no-op; Reset releases everything at once.
type BumpAllocator struct {
	start uint32
	next  uint32
	limit uint32
	live  int
	mu    sync.Mutex
}

// NewBumpAllocator creates an allocator over [start, limit).
func NewBumpAllocator(start, limit uint32) *BumpAllocator {
	return &BumpAllocator{start: start, next: start, limit: limit}
}

func (a *BumpAllocator) Alloc(size, align uint32) (uint32, error) {
	if align == 0 {
		align = 1
	}
	if align&(align-1) != 0 {
		return 0, errors.New(errors.PhaseMemory, errors.KindInvalidData).
			Value(align).
			Detail("alignment %d is not a power of two", align).
			Build()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	ptr := (uint64(a.next) + uint64(align) - 1) &^ (uint64(align) - 1)
	end := ptr + uint64(size)
	if end > uint64(a.limit) {
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, align)
	}
	a.next = uint32(end)
	a.live++
	return uint32(ptr), nil
}

func (a *BumpAllocator) Free(ptr, size, align uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.live > 0 {
		a.live--
	}
}

// Live returns the number of allocations not yet freed.
func (a *BumpAllocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

// Used returns the number of bytes consumed since the last Reset.
func (a *BumpAllocator) Used() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.next - a.start
}

// Reset releases all allocations.
func (a *BumpAllocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next = a.start
	a.live = 0
}

var _ vmabi.Allocator = (*BumpAllocator)(nil)
