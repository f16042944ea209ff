package bump

import (
	"fmt"
	"unsafe"
)

// Allocate reserves memory for one T inside the arena and returns a
// pointer to it. The value starts uninitialized.
//
// T must not hold references to memory managed by Go's collector: chunk
// regions are plain byte slabs and the collector does not trace values
// stored in them. Keep such referents alive elsewhere or store value
// types only.
func Allocate[T any](a *Arena) *T {
	var zero T
	return (*T)(a.Alloc(unsafe.Sizeof(zero), unsafe.Alignof(zero)))
}

// AllocateValue reserves memory for one T, stores value in it and returns
// a pointer to the stored copy.
func AllocateValue[T any](a *Arena, value T) *T {
	result := Allocate[T](a)
	*result = value
	return result
}

// AllocateSlice reserves memory for length values of T and returns them
// as a slice with equal length and capacity. Values start uninitialized.
// The slice can't grow in place; appending beyond capacity reallocates on
// the regular heap.
func AllocateSlice[T any](a *Arena, length int) []T {
	if length < 0 {
		panic(fmt.Errorf("length should be non negative. actual value: %d", length))
	}
	var zero T
	size := unsafe.Sizeof(zero)
	if size > 0 && uintptr(length) > maxRepresentableSize/size {
		panic(AllocationTooLargeError)
	}
	p := a.Alloc(size*uintptr(length), unsafe.Alignof(zero))
	return unsafe.Slice((*T)(p), length)
}

// AllocateSliceCopy reserves memory for a copy of src inside the arena
// and returns the copy.
func AllocateSliceCopy[T any](a *Arena, src []T) []T {
	result := AllocateSlice[T](a, len(src))
	copy(result, src)
	return result
}

// AllocateString copies src's bytes into the arena and returns a string
// backed by them. The result is only valid until Reset or Release.
func AllocateString(a *Arena, src string) string {
	if len(src) == 0 {
		return ""
	}
	p := a.Alloc(uintptr(len(src)), 1)
	dst := unsafe.Slice((*byte)(p), len(src))
	copy(dst, src)
	return unsafe.String((*byte)(p), len(src))
}
