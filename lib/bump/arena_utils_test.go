package bump

import (
	"fmt"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
)

type allocationResult struct {
	countOfAllocations int
	dataBytes          int
	usedBytes          int
	paddingOverhead    int
	chunkCount         int
}

func checkArena(a *Arena, result allocationResult) {
	assertMsg := fmt.Sprintf("\n exp: %+v\n act: %v\n", result, a)
	metrics := a.EnhancedMetrics()
	assert(metrics.CountOfAllocations == result.countOfAllocations, "unexpected count of allocations %v", assertMsg)
	assert(metrics.UsedBytes == result.usedBytes, "unexpected used bytes %v", assertMsg)
	assert(metrics.DataBytes == result.dataBytes, "unexpected data bytes %v", assertMsg)
	assert(metrics.PaddingOverhead == result.paddingOverhead, "unexpected padding overhead %v", assertMsg)
	assert(metrics.ChunkCount == result.chunkCount, "unexpected chunk count %v", assertMsg)
}

func assert(condition bool, msg string, args ...interface{}) {
	if !condition {
		fmt.Printf(msg, args...)
		fmt.Printf("\n")
		panic("assertion failed")
	}
}

func failOnError(t *testing.T, e error) {
	if e != nil {
		t.Error(e)
		t.FailNow()
	}
}

// countingProvider wraps a real provider and records region traffic, so
// tests can observe how many regions an arena holds and gives back.
type countingProvider struct {
	delegate memory.Allocator

	allocateCalls int
	freeCalls     int
	heldBytes     int
	sizes         []int
}

var _ memory.Allocator = (*countingProvider)(nil)

func newCountingProvider() *countingProvider {
	return &countingProvider{delegate: memory.NewGoAllocator()}
}

func (p *countingProvider) Allocate(size int) []byte {
	p.allocateCalls++
	p.heldBytes += size
	p.sizes = append(p.sizes, size)
	return p.delegate.Allocate(size)
}

func (p *countingProvider) Reallocate(size int, b []byte) []byte {
	return p.delegate.Reallocate(size, b)
}

func (p *countingProvider) Free(b []byte) {
	p.freeCalls++
	p.heldBytes -= len(b)
	p.delegate.Free(b)
}

// failingProvider models region exhaustion.
type failingProvider struct{}

var _ memory.Allocator = failingProvider{}

func (failingProvider) Allocate(size int) []byte      { return nil }
func (failingProvider) Reallocate(int, []byte) []byte { return nil }
func (failingProvider) Free([]byte)                   {}
