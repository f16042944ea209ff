package bump

import (
	"fmt"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/alexcrichton/bumpalo/internal/metrics"
)

// Options control arena construction.
type Options struct {
	// InitialCapacity sizes the first chunk instead of DefaultChunkSize.
	// Useful when the phase's working set is roughly known upfront.
	InitialCapacity uint

	// AllocationLimitInBytes caps the total bytes committed through the
	// bump finger. Zero means no limit. TryAlloc reports a hit limit as
	// AllocationLimitError; Alloc panics with the same value.
	AllocationLimitInBytes uint

	// Provider supplies and takes back raw chunk regions. Regions must be
	// aligned the way arrow allocators align them. Defaults to
	// memory.DefaultAllocator.
	Provider memory.Allocator

	// Label names the arena in held-bytes gauges. Defaults to "default".
	// Arenas sharing a label aggregate.
	Label string
}

// Arena is a phase-oriented bump allocator. It hands out memory by
// advancing a finger within chunks obtained from a memory provider and
// reclaims everything at once via Reset or Release; there is no per-object
// deallocation and no cleanup runs over the stored bytes.
//
// The zero value is usable and obtains its first chunk lazily. An Arena
// belongs to one logical owner at a time; concurrent use without external
// synchronization is out of contract.
type Arena struct {
	provider memory.Allocator

	current *chunk // recipient of allocations; terminal node of the list
	head    *chunk // oldest attached chunk

	initialCapacity        uintptr
	allocationLimitInBytes int
	label                  string
	released               bool

	usedBytes      int
	allocatedBytes int
	regionRequests int
	allocations    int
	resets         int
	dataBytes      int
	chunkCount     int
}

// New creates an arena and immediately obtains its first chunk, sized by
// Options.InitialCapacity when set and DefaultChunkSize otherwise.
func New(opts Options) *Arena {
	result := &Arena{
		provider:        opts.Provider,
		initialCapacity: uintptr(opts.InitialCapacity),
		label:           opts.Label,
	}
	if opts.AllocationLimitInBytes > 0 {
		result.allocationLimitInBytes = int(opts.AllocationLimitInBytes)
	}
	result.init()
	result.obtainFirstChunk()
	return result
}

// Alloc reserves a size bytes long region aligned to alignment and returns
// its start. The region is uninitialized; the caller owns it until Reset
// or Release.
//
// alignment should be a power of 2 number and can't be 0.
// In case of any violations, panic will be thrown.
//
// Fatal conditions panic as well: address arithmetic overflow
// (AllocationTooLargeError), provider failure (RegionRequestFailedError)
// and a configured limit being hit (AllocationLimitError). For a
// recoverable variant of the limit and overflow conditions use TryAlloc.
func (a *Arena) Alloc(size, alignment uintptr) unsafe.Pointer {
	if !isPowerOfTwo(alignment) {
		panic(fmt.Errorf("alignment should be power of 2. actual value: %d", alignment))
	}
	a.ensureUsable()

	c := a.current
	pad := calculatePadding(c.base()+c.off, alignment)
	alignedOff := c.off + pad
	newOff := alignedOff + size
	if newOff < alignedOff {
		panic(AllocationTooLargeError)
	}
	if newOff <= c.capacity() {
		if a.limitExceeded(int(size + pad)) {
			panic(AllocationLimitError)
		}
		c.off = newOff
		a.commit(int(size), int(size+pad))
		metrics.ArenaFastPathTotal.Inc()
		return unsafe.Add(unsafe.Pointer(unsafe.SliceData(c.data)), alignedOff)
	}
	if a.limitExceeded(int(size)) {
		panic(AllocationLimitError)
	}
	lay, layErr := nextLayout(c, layout{size: size, align: alignment})
	if layErr != nil {
		panic(layErr)
	}
	return a.grow(lay, size)
}

// TryAlloc is Alloc with the limit and overflow conditions reported as
// errors instead of panics. Alignment violations and provider failure are
// still programmer or environment faults and stay fatal.
func (a *Arena) TryAlloc(size, alignment uintptr) (unsafe.Pointer, error) {
	if !isPowerOfTwo(alignment) {
		panic(fmt.Errorf("alignment should be power of 2. actual value: %d", alignment))
	}
	a.ensureUsable()

	c := a.current
	pad := calculatePadding(c.base()+c.off, alignment)
	alignedOff := c.off + pad
	newOff := alignedOff + size
	if newOff < alignedOff {
		return nil, AllocationTooLargeError
	}
	if newOff <= c.capacity() {
		if a.limitExceeded(int(size + pad)) {
			return nil, AllocationLimitError
		}
		c.off = newOff
		a.commit(int(size), int(size+pad))
		metrics.ArenaFastPathTotal.Inc()
		return unsafe.Add(unsafe.Pointer(unsafe.SliceData(c.data)), alignedOff), nil
	}
	if a.limitExceeded(int(size)) {
		return nil, AllocationLimitError
	}
	lay, layErr := nextLayout(c, layout{size: size, align: alignment})
	if layErr != nil {
		return nil, layErr
	}
	return a.grow(lay, size), nil
}

// grow attaches a fresh chunk for lay and serves the pending request from
// its start. The start is aligned for any alignment the layout was derived
// with, so the finger advances by exactly size.
func (a *Arena) grow(lay layout, size uintptr) unsafe.Pointer {
	c := newChunk(a.provider, lay)
	a.attach(c)
	c.off = size
	a.commit(int(size), int(size))
	metrics.ArenaSlowPathTotal.Inc()
	return unsafe.Pointer(unsafe.SliceData(c.data))
}

// Reset reclaims all arena memory for reuse. The current chunk is kept
// with its finger rewound and becomes the sole list member; every other
// chunk's region goes back to the provider with its recorded layout.
// Keeping the newest chunk means repeated cycles converge to a chunk sized
// for the workload's steady state.
//
// Reset requires that no allocation handed out earlier is used afterwards.
// This precondition is not checked.
func (a *Arena) Reset() {
	if a.released {
		panic(ArenaReleasedError)
	}
	for c := a.head; c != nil; {
		next := c.next
		if c == a.current {
			c.off = 0
			c.next = nil
		} else {
			a.dropRegion(c)
		}
		c = next
	}
	a.head = a.current
	a.usedBytes = 0
	a.dataBytes = 0
	a.resets++
	metrics.ArenaResetsTotal.Inc()
}

// Release returns every attached chunk's region to the provider and makes
// the arena unusable. Calling it twice is a no-op; allocation, Reset and
// iteration afterwards panic with ArenaReleasedError. Metrics stay
// readable and report an empty arena.
func (a *Arena) Release() {
	if a.released {
		return
	}
	for c := a.head; c != nil; {
		next := c.next
		a.dropRegion(c)
		c = next
	}
	a.head = nil
	a.current = nil
	a.usedBytes = 0
	a.dataBytes = 0
	a.released = true
}

// EachAllocatedChunk visits the committed byte prefix of every chunk,
// oldest first. Only bytes reserved through the bump finger are exposed,
// never the full chunk capacity.
//
// The caller must guarantee that no one mutates the arena during the walk
// and that re-interpreting the bytes as typed values is sound: uniform
// object size, size a multiple of alignment, no foreign allocations in
// between. The arena itself gives no type safety over these ranges.
func (a *Arena) EachAllocatedChunk(visit func(chunk []byte)) {
	if a.released {
		panic(ArenaReleasedError)
	}
	for c := a.head; c != nil; c = c.next {
		visit(c.data[:c.off:c.off])
	}
}

// AllocatedBytes reports the total committed bytes across all chunks. It
// equals the summed length of the ranges EachAllocatedChunk exposes.
func (a *Arena) AllocatedBytes() int {
	total := 0
	for c := a.head; c != nil; c = c.next {
		total += int(c.off)
	}
	return total
}

// Stats provides a snapshot of essential allocation statistics,
// that can be used by end-users or other allocators for introspection.
func (a *Arena) Stats() Stats {
	return Stats{
		UsedBytes:             a.usedBytes,
		AllocatedBytes:        a.allocatedBytes,
		CountOfRegionRequests: a.regionRequests,
	}
}

// Metrics provides a snapshot of current allocation statistics,
// that can be used by end-users or other allocators for introspection.
func (a *Arena) Metrics() Metrics {
	result := Metrics{
		Stats:      a.Stats(),
		ChunkCount: a.chunkCount,
	}
	if a.current != nil {
		result.AvailableBytes = int(a.current.capacity() - a.current.off)
	}
	if a.allocationLimitInBytes > 0 {
		result.AvailableBytes = min(result.AvailableBytes, a.allocationLimitInBytes-a.usedBytes)
	}
	return result
}

// EnhancedMetrics provides a snapshot of wider allocation statistics,
// that can be used by end-users or other allocators for introspection.
func (a *Arena) EnhancedMetrics() EnhancedMetrics {
	return EnhancedMetrics{
		Metrics:            a.Metrics(),
		CountOfAllocations: a.allocations,
		CountOfResets:      a.resets,
		PaddingOverhead:    a.usedBytes - a.dataBytes,
		DataBytes:          a.dataBytes,
	}
}

// String provides a string snapshot of the current arena state.
func (a *Arena) String() string {
	return fmt.Sprintf("arena{label: %v chunks: %v metrics: %v}", a.labelValue(), a.chunkCount, a.Metrics())
}

func (a *Arena) ensureUsable() {
	if a.released {
		panic(ArenaReleasedError)
	}
	if a.current == nil {
		a.init()
		a.obtainFirstChunk()
	}
}

func (a *Arena) init() {
	if a.provider == nil {
		a.provider = memory.DefaultAllocator
	}
}

func (a *Arena) obtainFirstChunk() {
	lay, layErr := nextLayout(nil, layout{size: a.firstChunkSize()})
	if layErr != nil {
		panic(layErr)
	}
	a.attach(newChunk(a.provider, lay))
}

func (a *Arena) firstChunkSize() uintptr {
	if a.initialCapacity > 0 {
		return a.initialCapacity
	}
	return DefaultChunkSize
}

// attach splices c as the new terminal and current node.
func (a *Arena) attach(c *chunk) {
	if a.current != nil {
		a.current.next = c
	}
	if a.head == nil {
		a.head = c
	}
	a.current = c
	a.chunkCount++
	a.regionRequests++
	a.allocatedBytes += len(c.buf)
	metrics.ArenaHeldBytes.WithLabelValues(a.labelValue()).Add(float64(len(c.buf)))
}

func (a *Arena) dropRegion(c *chunk) {
	held := len(c.buf)
	c.release(a.provider)
	a.allocatedBytes -= held
	a.chunkCount--
	metrics.ArenaHeldBytes.WithLabelValues(a.labelValue()).Sub(float64(held))
}

func (a *Arena) commit(dataBytes int, usedBytes int) {
	a.usedBytes += usedBytes
	a.dataBytes += dataBytes
	a.allocations++
}

func (a *Arena) limitExceeded(additionalBytes int) bool {
	return a.allocationLimitInBytes > 0 && a.usedBytes+additionalBytes > a.allocationLimitInBytes
}

func (a *Arena) labelValue() string {
	if a.label == "" {
		return "default"
	}
	return a.label
}
