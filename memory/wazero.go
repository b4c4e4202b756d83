package memory

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	vmabi "github.com/wippyai/vm-abi"
	"github.com/wippyai/vm-abi/errors"
)

// Allocator export names tried by NewGuestAllocator, in order.
const (
	CabiRealloc   = "cabi_realloc"
	CabiFree      = "cabi_free"
	legacyRealloc = "canonical_abi_realloc"
	legacyAlloc   = "allocate"
	simpleAlloc   = "alloc"
	legacyDealloc = "deallocate"
)

// Wazero wraps a wazero memory.
type Wazero struct {
	mem api.Memory
}

// NewWazero wraps mem.
func NewWazero(mem api.Memory) *Wazero {
	return &Wazero{mem: mem}
}

// Read returns a copy of length bytes at offset. wazero returns a view
// that is invalidated when the guest grows memory.
func (m *Wazero) Read(offset, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseMemory, nil, uint64(offset)+uint64(length), uint64(m.Size()))
	}
	return append([]byte(nil), data...), nil
}

func (m *Wazero) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseMemory, nil, uint64(offset)+uint64(len(data)), uint64(m.Size()))
	}
	return nil
}

// ReadWord reads one big-endian word at offset.
func (m *Wazero) ReadWord(offset uint32) (uint64, error) {
	data, ok := m.mem.Read(offset, 8)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseMemory, nil, uint64(offset)+8, uint64(m.Size()))
	}
	return binary.BigEndian.Uint64(data), nil
}

// WriteWord writes one big-endian word at offset.
func (m *Wazero) WriteWord(offset uint32, v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return m.Write(offset, buf[:])
}

func (m *Wazero) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

// GuestAllocator allocates through functions exported by a guest module.
type GuestAllocator struct {
	allocFn       api.Function
	freeFn        api.Function
	ctx           context.Context
	stackBuf      []uint64
	mu            sync.Mutex
	isSimpleAlloc bool
}

// NewGuestAllocator looks up the module's allocator exports. It fails with
// not_found when the module exports none.
func NewGuestAllocator(mod api.Module) (*GuestAllocator, error) {
	a := &GuestAllocator{stackBuf: make([]uint64, 4)}
	for _, name := range []string{CabiRealloc, legacyRealloc, legacyAlloc, simpleAlloc} {
		if fn := mod.ExportedFunction(name); fn != nil {
			a.allocFn = fn
			a.isSimpleAlloc = len(fn.Definition().ParamTypes()) < 4
			break
		}
	}
	if a.allocFn == nil {
		return nil, errors.NotFound(errors.PhaseMemory, "allocator export", CabiRealloc)
	}
	if fn := mod.ExportedFunction(CabiFree); fn != nil {
		a.freeFn = fn
	} else if fn := mod.ExportedFunction(legacyDealloc); fn != nil {
		a.freeFn = fn
	}
	return a, nil
}

// SetContext sets the context used for subsequent guest calls.
func (a *GuestAllocator) SetContext(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ctx = ctx
}

func (a *GuestAllocator) Alloc(size, align uint32) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx := a.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	var stack []uint64
	if a.isSimpleAlloc {
		a.stackBuf[0] = uint64(size)
		stack = a.stackBuf[:1]
	} else {
		a.stackBuf[0] = 0
		a.stackBuf[1] = 0
		a.stackBuf[2] = uint64(align)
		a.stackBuf[3] = uint64(size)
		stack = a.stackBuf[:4]
	}
	if err := a.allocFn.CallWithStack(ctx, stack); err != nil {
		return 0, errors.Wrap(errors.PhaseMemory, errors.KindAllocation, err, "guest allocator trapped")
	}
	ptr := uint32(stack[0])
	if ptr == 0 && size > 0 {
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, align)
	}
	return ptr, nil
}

func (a *GuestAllocator) Free(ptr, size, align uint32) {
	if a.freeFn == nil || ptr == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx := a.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	a.stackBuf[0] = uint64(ptr)
	a.stackBuf[1] = uint64(size)
	a.stackBuf[2] = uint64(align)
	if err := a.freeFn.CallWithStack(ctx, a.stackBuf[:3]); err != nil {
		Logger().Warn("guest free failed",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}

var (
	_ vmabi.Memory      = (*Wazero)(nil)
	_ vmabi.MemorySizer = (*Wazero)(nil)
	_ vmabi.Allocator   = (*GuestAllocator)(nil)
)
