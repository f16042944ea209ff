package main

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/alexcrichton/bumpalo"
)

type point struct {
	X, Y int64
}

func main() {
	arena := bumpalo.New(bumpalo.Options{Label: "example"})
	defer arena.Release()

	// Phase one: a burst of small objects.
	origin := bumpalo.AllocateValue(arena, point{X: 1, Y: 2})
	diagonal := make([]*point, 0, 16)
	for i := int64(0); i < 16; i++ {
		diagonal = append(diagonal, bumpalo.AllocateValue(arena, point{X: i, Y: i}))
	}
	greeting := bumpalo.AllocateString(arena, "hello from the arena")
	fmt.Println(greeting, *origin, *diagonal[15])

	// The same arena backs arrow builders through the allocator adapter.
	ids := array.NewInt64Builder(bumpalo.NewAllocator(arena))
	for i := int64(0); i < 4; i++ {
		ids.Append(i * i)
	}
	squares := ids.NewInt64Array()
	fmt.Println("squares:", squares)
	squares.Release()
	ids.Release()

	fmt.Println(arena.EnhancedMetrics())

	// Phase boundary: everything above comes back in one move.
	arena.Reset()
	fmt.Println("after reset:", arena.Metrics())
}
