package transcoder

import (
	"math"
	"sync"

	"go.uber.org/zap"

	vmabi "github.com/wippyai/vm-abi"
	"github.com/wippyai/vm-abi/errors"
	"github.com/wippyai/vm-abi/transcoder/internal/abi"
)

type Memory = vmabi.Memory
type Allocator = vmabi.Allocator

type Allocation struct {
	Ptr   uint32
	Size  uint32
	Align uint32
}

type AllocationList struct {
	allocations []Allocation
}

var allocationListPool = sync.Pool{
	New: func() any {
		return &AllocationList{allocations: make([]Allocation, 0, 8)}
	},
}

func NewAllocationList() *AllocationList {
	return allocationListPool.Get().(*AllocationList)
}

const maxPooledAllocationCapacity = 128

// Release returns to pool. Must call after Free(); list invalid after Release.
func (al *AllocationList) Release() {
	// Only pool small allocations to prevent memory bloat
	if cap(al.allocations) > maxPooledAllocationCapacity {
		return
	}
	al.Reset()
	allocationListPool.Put(al)
}

func (al *AllocationList) FreeAndRelease(allocator Allocator) {
	al.Free(allocator)
	al.Release()
}

func (al *AllocationList) Add(ptr, size, align uint32) {
	al.allocations = append(al.allocations, Allocation{
		Ptr:   ptr,
		Size:  size,
		Align: align,
	})
}

func (al *AllocationList) Free(allocator Allocator) {
	if allocator == nil {
		return
	}
	for _, a := range al.allocations {
		if a.Ptr != 0 {
			allocator.Free(a.Ptr, a.Size, a.Align)
		}
	}
}

func (al *AllocationList) Reset() {
	al.allocations = al.allocations[:0]
}

func (al *AllocationList) Count() int {
	return len(al.allocations)
}

// All returns the recorded allocations in order.
func (al *AllocationList) All() []Allocation {
	return append([]Allocation(nil), al.allocations...)
}

// EncodeToMemory encodes tokens, allocates room for the resolved bytes and
// writes them at the allocated address. A successful allocation is recorded
// in allocs when it is non-nil; a failed write frees it straight away. It
// returns the address and size written.
func (e *Encoder) EncodeToMemory(tokens []Token, mem Memory, alloc Allocator, allocs *AllocationList) (uint32, uint32, error) {
	ub, err := e.Encode(tokens)
	if err != nil {
		return 0, 0, err
	}

	n := ub.Len()
	if n > math.MaxUint32 {
		return 0, 0, errors.New(errors.PhaseMemory, errors.KindOverflow).
			Value(n).
			Detail("encoding of %d bytes does not fit a 32-bit address space", n).
			Build()
	}
	size := uint32(n)

	ptr, err := alloc.Alloc(size, abi.WordSize)
	if err != nil {
		return 0, 0, errors.New(errors.PhaseMemory, errors.KindAllocation).
			Cause(err).
			Detail("failed to allocate %d bytes", size).
			Build()
	}
	Logger().Debug("allocated encoding",
		zap.Uint32("ptr", ptr),
		zap.Uint32("size", size))

	if err := mem.Write(ptr, ub.Resolve(uint64(ptr))); err != nil {
		alloc.Free(ptr, size, abi.WordSize)
		return 0, 0, errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "write resolved encoding")
	}
	if allocs != nil {
		allocs.Add(ptr, size, abi.WordSize)
	}
	return ptr, size, nil
}
