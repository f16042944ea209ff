package bump

import (
	"math"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/alexcrichton/bumpalo/internal/metrics"
)

const (
	// DefaultChunkSize is the first region request when no capacity hint
	// is given. It sits just under 1<<9 so the request plus the
	// bookkeeping a provider typically attaches still fits a 512 byte
	// size class.
	DefaultChunkSize = 1<<9 - assumedProviderOverhead

	assumedProviderOverhead = 16

	// chunkSizeAlign keeps region sizes on boundaries providers like.
	chunkSizeAlign = 16

	// providerAlignment is the start alignment arrow allocators guarantee
	// for every region they issue.
	providerAlignment = 64

	maxRepresentableSize = math.MaxInt
)

// layout records a region request: byte size and minimal start alignment.
// The pair a chunk was obtained with is kept for the region's whole
// lifetime and drives the next chunk's derivation.
type layout struct {
	size  uintptr
	align uintptr
}

// chunk owns one provider region. data is the usable window into buf and
// off is the bump finger within data; 0 <= off <= len(data) holds at all
// times. Chunks form a singly linked list from oldest to newest.
type chunk struct {
	buf  []byte
	data []byte
	lay  layout
	off  uintptr
	next *chunk
}

// nextLayout derives the region request for a list's next chunk: at least
// double the previous chunk's size, at least the rounded incoming request,
// and aligned to the strictest alignment seen so far. It reports
// AllocationTooLargeError when any part of the derivation overflows.
func nextLayout(prev *chunk, req layout) (layout, error) {
	if req.size > maxRepresentableSize-chunkSizeAlign {
		return layout{}, AllocationTooLargeError
	}
	result := layout{
		size:  roundUpToMultiple(req.size, chunkSizeAlign),
		align: max(req.align, providerAlignment),
	}
	if prev != nil {
		if prev.lay.size > maxRepresentableSize/2 {
			return layout{}, AllocationTooLargeError
		}
		result.size = max(result.size, prev.lay.size*2)
		result.align = max(result.align, prev.lay.align)
	}
	if result.align > providerAlignment && result.size > maxRepresentableSize-result.align {
		return layout{}, AllocationTooLargeError
	}
	return result, nil
}

// newChunk obtains a region for lay from the provider. When lay.align is
// stricter than the provider's natural alignment the request is padded and
// the usable window shifted forward, so data always starts on a lay.align
// boundary. Provider failure is not recoverable at this level.
func newChunk(provider memory.Allocator, lay layout) *chunk {
	request := lay.size
	if lay.align > providerAlignment {
		request += lay.align
	}
	buf := provider.Allocate(int(request))
	if buf == nil || uintptr(len(buf)) < request {
		panic(RegionRequestFailedError)
	}
	c := &chunk{buf: buf, data: buf, lay: lay}
	shift := calculatePadding(c.base(), lay.align)
	c.data = buf[shift : shift+lay.size]
	metrics.ArenaChunksTotal.Inc()
	return c
}

// release hands the region back using the exact slice the provider issued.
func (c *chunk) release(provider memory.Allocator) {
	provider.Free(c.buf)
	c.buf = nil
	c.data = nil
	c.next = nil
	c.off = 0
	metrics.ArenaRegionsReleasedTotal.Inc()
}

func (c *chunk) base() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(c.data)))
}

func (c *chunk) capacity() uintptr {
	return uintptr(len(c.data))
}
