package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ArenaChunksTotal tracks how many memory regions arenas requested from providers.
	ArenaChunksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bumpalo_arena_chunks_total",
			Help: "Total number of chunks requested from memory providers",
		},
	)

	// ArenaRegionsReleasedTotal tracks how many regions went back to providers,
	// either during reset or on arena release.
	ArenaRegionsReleasedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bumpalo_arena_regions_released_total",
			Help: "Total number of chunk regions returned to memory providers",
		},
	)

	// ArenaFastPathTotal tracks allocations served by bumping the finger
	// of the current chunk.
	ArenaFastPathTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bumpalo_arena_fast_path_total",
			Help: "Total number of allocations served without chunk growth",
		},
	)

	// ArenaSlowPathTotal tracks allocations that forced chunk growth.
	ArenaSlowPathTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bumpalo_arena_slow_path_total",
			Help: "Total number of allocations that had to grow a new chunk",
		},
	)

	// ArenaResetsTotal tracks mass-reset invocations.
	ArenaResetsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bumpalo_arena_resets_total",
			Help: "Total number of arena resets",
		},
	)

	// ArenaHeldBytes tracks bytes currently held from memory providers,
	// by arena label. Deltas are added on chunk acquisition and subtracted
	// on region release, so arenas sharing a label aggregate correctly.
	ArenaHeldBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bumpalo_arena_held_bytes",
			Help: "Bytes currently held from memory providers",
		},
		[]string{"arena"},
	)
)
