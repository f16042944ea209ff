// Package bumpalo is the root facade over lib/bump, a phase-oriented bump
// allocator. Allocation only moves a finger forward inside chunks obtained
// from a memory provider; deallocation happens for a whole phase at once
// through Reset or Release. See lib/bump for the full API surface.
package bumpalo

import (
	"context"

	"github.com/alexcrichton/bumpalo/lib/bump"
)

type (
	Arena           = bump.Arena
	Options         = bump.Options
	Allocator       = bump.Allocator
	Error           = bump.Error
	Stats           = bump.Stats
	Metrics         = bump.Metrics
	EnhancedMetrics = bump.EnhancedMetrics
)

const (
	AllocationLimitError     = bump.AllocationLimitError
	AllocationTooLargeError  = bump.AllocationTooLargeError
	RegionRequestFailedError = bump.RegionRequestFailedError
	ArenaReleasedError       = bump.ArenaReleasedError

	DefaultChunkSize = bump.DefaultChunkSize
)

// New creates an arena with its first chunk already obtained.
func New(opts Options) *Arena {
	return bump.New(opts)
}

// NewAllocator adapts arena to the arrow memory.Allocator contract.
func NewAllocator(arena *Arena) *Allocator {
	return bump.NewAllocator(arena)
}

// Allocate reserves memory for one uninitialized T inside the arena.
func Allocate[T any](a *Arena) *T {
	return bump.Allocate[T](a)
}

// AllocateValue stores value inside the arena and returns the copy.
func AllocateValue[T any](a *Arena, value T) *T {
	return bump.AllocateValue(a, value)
}

// AllocateSlice reserves memory for length uninitialized values of T.
func AllocateSlice[T any](a *Arena, length int) []T {
	return bump.AllocateSlice[T](a, length)
}

// AllocateSliceCopy copies src into the arena.
func AllocateSliceCopy[T any](a *Arena, src []T) []T {
	return bump.AllocateSliceCopy(a, src)
}

// AllocateString copies src's bytes into the arena and returns a string
// view over them.
func AllocateString(a *Arena, src string) string {
	return bump.AllocateString(a, src)
}

// WithArena binds ctx with target arena.
func WithArena(ctx context.Context, arena *Arena) context.Context {
	return bump.WithArena(ctx, arena)
}

// GetArena receives the arena associated with this ctx, if any.
func GetArena(ctx context.Context) (*Arena, bool) {
	return bump.GetArena(ctx)
}

// GetArenaOrDefault receives the arena associated with this ctx or
// defaultArena when there is no association.
func GetArenaOrDefault(ctx context.Context, defaultArena *Arena) *Arena {
	return bump.GetArenaOrDefault(ctx, defaultArena)
}
