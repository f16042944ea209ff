package bump_test

import (
	"encoding/json"
	"math/rand"
	"runtime"
	"strconv"
	"testing"

	"github.com/alexcrichton/bumpalo/lib/bump"
)

type arenaDynamicGrowthStand struct{}

func (s *arenaDynamicGrowthStand) check(t *testing.T, target *bump.Arena) {
	s.allocateDifferentObjects(t, target)

	var personBytes []byte
	{
		boss := &person{Name: "Richard Bahman", Age: 44}
		p := &person{Name: "John Smith", Age: 21, Manager: boss}
		encoded, encodingErr := json.Marshal(p)
		failOnError(t, encodingErr)
		personBytes = bump.AllocateSliceCopy(target, encoded)
	}

	s.allocateDifferentObjects(t, target)
	runtime.GC()

	{
		var p person
		unmarshalErr := json.Unmarshal(personBytes, &p)
		failOnError(t, unmarshalErr)
		assert(p.Name == "John Smith", "unexpected person state: %+v", p)
		assert(p.Age == 21, "unexpected person state: %+v", p)
		assert(p.Manager.Name == "Richard Bahman", "unexpected person state: %+v", p)
		assert(p.Manager.Age == 44, "unexpected person state: %+v", p)
	}
	for i := 0; i < 3; i++ {
		target.Reset()
		assert(target.Metrics().UsedBytes == 0, "used bytes should be 0 after reset. instead: %v", target.Metrics())
		assert(target.Metrics().ChunkCount == 1, "only the newest chunk should survive reset. instead: %v", target.Metrics())
		afterResetAllocatedBytes := target.Metrics().AllocatedBytes
		iterations := 0
		for target.Metrics().AllocatedBytes == afterResetAllocatedBytes {
			s.allocateDifferentObjects(t, target)
			iterations++
		}
		t.Logf("allocation cycles before a new chunk gets allocated: %v", iterations)
	}
}

func (s *arenaDynamicGrowthStand) allocateDifferentObjects(t *testing.T, target *bump.Arena) {
	t.Logf("before allocation: %v", target.Metrics())
	type allocatedPerson struct {
		ref    *person
		person person
	}
	allocations := make([]allocatedPerson, 0, 100)
	scaleFactor := rand.Intn(4) + 1
	for i := 0; i < 1000*scaleFactor; i++ {
		_, allocErr := target.TryAlloc(genRandomSize(), genRandomAlignment())
		failOnError(t, allocErr)
		if rand.Float32() < 0.01 {
			p := bump.Allocate[person](target)
			p.Name = "John " + strconv.Itoa(rand.Int())
			p.Age = uint(rand.Uint32())
			allocations = append(allocations, allocatedPerson{ref: p, person: *p})
		}
	}

	// growth must not move or corrupt previously allocated objects
	for _, alloc := range allocations {
		assert(alloc.ref.Name == alloc.person.Name, "unexpected person state: %+v; %+v", alloc.ref, alloc)
		assert(alloc.ref.Age == alloc.person.Age, "unexpected person state: %+v; %+v", alloc.ref, alloc)
	}
	t.Logf("after allocation: %v", target.Metrics())
}
