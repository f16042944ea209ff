package bump

import (
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Allocator adapts an Arena to the arrow memory.Allocator contract, so
// builders and buffers can be backed by arena chunks. Free is a no-op;
// everything handed out comes back in one move when the underlying arena
// is Reset or Released, and nothing obtained through the adapter may be
// used after that point.
//
// Like the arena itself, the adapter expects one logical owner and does
// no locking of its own.
type Allocator struct {
	arena *Arena
}

var _ memory.Allocator = (*Allocator)(nil)

// NewAllocator wraps arena. A nil arena gets a fresh zero-value one.
func NewAllocator(arena *Arena) *Allocator {
	if arena == nil {
		arena = &Arena{}
	}
	return &Allocator{arena: arena}
}

// Arena exposes the underlying arena, typically to Reset it between
// record batches.
func (a *Allocator) Arena() *Arena {
	return a.arena
}

// Allocate reserves a size bytes long region aligned the way arrow
// allocators align their buffers.
func (a *Allocator) Allocate(size int) []byte {
	p := a.arena.Alloc(uintptr(size), providerAlignment)
	return unsafe.Slice((*byte)(p), size)
}

// Reallocate resizes b to size. Shrinking reslices in place; growing
// reserves a fresh region and copies, the old bytes stay committed until
// the arena is reclaimed.
func (a *Allocator) Reallocate(size int, b []byte) []byte {
	if size <= len(b) {
		return b[:size]
	}
	result := a.Allocate(size)
	copy(result, b)
	return result
}

// Free does nothing. Arena memory comes back through Reset or Release.
func (a *Allocator) Free(b []byte) {
}
