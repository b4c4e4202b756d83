// Package memory provides linear memory and allocator implementations for
// the transcoder memory bridge.
//
// Buffer is an in-process linear memory backed by a byte slice. Wazero
// adapts a wazero api.Memory, and GuestAllocator calls the allocator a
// guest module exports. BumpAllocator hands out aligned regions from a
// fixed range and never reuses them until Reset.
//
//	mem := memory.NewBuffer(64 * 1024)
//	alloc := memory.NewBumpAllocator(1024, mem.Size())
//	ptr, size, err := transcoder.NewEncoder().EncodeToMemory(tokens, mem, alloc, &allocs)
package memory
