package bump

import (
	"fmt"
)

// Error type used by the library to declare error constants.
type Error string

// Error method that implements error interface.
func (e Error) Error() string {
	return string(e)
}

// AllocationLimitError typically returned if
// arena can't afford the requested allocation.
const AllocationLimitError = Error("allocation limit")

// AllocationTooLargeError signals that the requested size can't be
// represented during address arithmetic. The condition is fatal on the
// Alloc path and is raised as a panic with this value.
const AllocationTooLargeError = Error("allocation too large, caused overflow")

// RegionRequestFailedError signals that the memory provider returned
// no usable region. The condition is fatal and raised as a panic.
const RegionRequestFailedError = Error("memory provider failed to supply a region")

// ArenaReleasedError is raised as a panic on any use of an arena
// after Release.
const ArenaReleasedError = Error("arena already released")

// Stats is a struct that represents a snapshot of essential allocation statistics,
// that can be used by end-users or other allocators for introspection.
type Stats struct {
	UsedBytes             int // count of bytes actually committed via the bump finger across all chunks
	AllocatedBytes        int // count of bytes currently held from the memory provider
	CountOfRegionRequests int // count of regions requested from the memory provider over the arena lifetime
}

// String provides a string snapshot of the Stats state.
func (s Stats) String() string {
	return fmt.Sprintf(
		"{UsedBytes: %v AllocatedBytes %v CountOfRegionRequests %v}",
		s.UsedBytes, s.AllocatedBytes, s.CountOfRegionRequests,
	)
}

// Metrics is a struct that represents a snapshot of current allocation statistics,
// that can be used by end-users or other allocators for introspection.
type Metrics struct {
	Stats
	AvailableBytes int // count of bytes left in the current chunk before the next growth
	ChunkCount     int // count of chunks currently attached to the arena
}

// String provides a string snapshot of the Metrics state.
func (m Metrics) String() string {
	return fmt.Sprintf(
		"{UsedBytes: %v AvailableBytes: %v AllocatedBytes %v ChunkCount %v CountOfRegionRequests %v}",
		m.UsedBytes, m.AvailableBytes, m.AllocatedBytes, m.ChunkCount, m.CountOfRegionRequests,
	)
}

// EnhancedMetrics is a struct that represents wider allocation statistics,
// that can be used by end-users or other allocators for introspection.
type EnhancedMetrics struct {
	Metrics
	CountOfAllocations int
	CountOfResets      int
	PaddingOverhead    int
	DataBytes          int
}

// String provides a string snapshot of the EnhancedMetrics state.
func (m EnhancedMetrics) String() string {
	return fmt.Sprintf(
		"{UsedBytes: %v AvailableBytes: %v AllocatedBytes %v ChunkCount %v CountOfRegionRequests %v "+
			"CountOfAllocations: %v CountOfResets: %v PaddingOverhead: %v DataBytes: %v}",
		m.UsedBytes, m.AvailableBytes, m.AllocatedBytes, m.ChunkCount, m.CountOfRegionRequests,
		m.CountOfAllocations, m.CountOfResets, m.PaddingOverhead, m.DataBytes,
	)
}

func isPowerOfTwo(x uintptr) bool {
	return x != 0 && (x&(x-1)) == 0
}

// calculatePadding works only for power of 2 alignments.
func calculatePadding(offset uintptr, targetAlignment uintptr) uintptr {
	mask := targetAlignment - 1
	return (targetAlignment - (offset & mask)) & mask
}

// roundUpToMultiple works only for power of 2 divisors.
// Overflow of the sum is the caller's responsibility to rule out.
func roundUpToMultiple(n uintptr, divisor uintptr) uintptr {
	mask := divisor - 1
	return (n + mask) &^ mask
}
