package bump_test

import (
	"runtime"
	"testing"
	"unsafe"

	"github.com/alexcrichton/bumpalo/lib/bump"
)

const requiredBytesForBasicTest = 128

type basicArenaCheckingStand struct {
	commonStandState
}

func (s *basicArenaCheckingStand) check(t *testing.T, target *bump.Arena) {
	{
		ptr, allocErr := target.TryAlloc(0, 1)
		failOnError(t, allocErr)
		s.checkPointerIsUnique(t, ptr)
		s.checkMetricsAreUnique(t, target.Metrics())
		s.checkEnhancedMetricsAreUnique(t, target)
		s.checkArenaStrIsUnique(t, target)
		// here we expect 0 as:
		// current_alloc_size | padding | result_size |
		//                 +0 |      +0 |           0 |
		assert(target.Metrics().UsedBytes == 0, "expect used bytes should be 0. instead: %v", target.Metrics())
	}
	{
		ptr, allocErr := target.TryAlloc(1, 1)
		failOnError(t, allocErr)
		assert(ptr != nil, "can't be nil")
		s.checkMetricsAreUnique(t, target.Metrics())
		s.checkEnhancedMetricsAreUnique(t, target)
		s.checkArenaStrIsUnique(t, target)
		// here we expect 1 as:
		// current_alloc_size | padding | result_size |
		//                 +0 |      +0 |           0 |
		//                 +1 |      +0 |           1 |
		assert(target.Metrics().UsedBytes == 1, "expect used bytes should be 1. instead: %v", target.Metrics())
	}
	{
		ptr, allocErr := target.TryAlloc(3, 1)
		failOnError(t, allocErr)
		s.checkPointerIsUnique(t, ptr)
		s.checkMetricsAreUnique(t, target.Metrics())
		s.checkEnhancedMetricsAreUnique(t, target)
		s.checkArenaStrIsUnique(t, target)
		// here we expect 4 as:
		// current_alloc_size | padding | result_size |
		//                 +0 |      +0 |           0 |
		//                 +1 |      +0 |           1 |
		//                 +3 |      +0 |           4 |
		assert(target.Metrics().UsedBytes == 4, "expect used bytes should be 4. instead: %v", target.Metrics())
	}
	{
		ptr, allocErr := target.TryAlloc(1, 1)
		failOnError(t, allocErr)
		s.checkPointerIsUnique(t, ptr)
		s.checkMetricsAreUnique(t, target.Metrics())
		s.checkEnhancedMetricsAreUnique(t, target)
		s.checkArenaStrIsUnique(t, target)
		// here we expect 5 as:
		// current_alloc_size | padding | result_size |
		//                 +0 |      +0 |           0 |
		//                 +1 |      +0 |           1 |
		//                 +3 |      +0 |           4 |
		//                 +1 |      +0 |           5 |
		assert(target.Metrics().UsedBytes == 5, "expect used bytes should be 5. instead: %v", target.Metrics())
	}
	{
		ptr, testAlignmentErr := target.TryAlloc(4, 4)
		failOnError(t, testAlignmentErr)
		s.checkPointerIsUnique(t, ptr)
		s.checkMetricsAreUnique(t, target.Metrics())
		s.checkEnhancedMetricsAreUnique(t, target)
		s.checkArenaStrIsUnique(t, target)
		assert(uintptr(ptr)%4 == 0, "ptr should be aligned")
		// here we expect 12 as:
		// current_alloc_size |    padding      | result_size |
		//                 +0 |      +0         |           0 |
		//                 +1 |      +0         |           1 |
		//                 +3 |      +0         |           4 |
		//                 +1 |      +0         |           5 |
		//                 +4 |      +(0|1|2|3) |          12 |
		assert(target.Metrics().UsedBytes <= 12, "expect used bytes should be less than 12. instead: %v", target.Metrics())
	}
	{
		boss := bump.Allocate[person](target)
		boss.Name = bump.AllocateString(target, "Richard Bahman")
		boss.Age = 44

		p := bump.Allocate[person](target)
		s.checkPointerIsUnique(t, unsafe.Pointer(p))
		s.checkMetricsAreUnique(t, target.Metrics())
		s.checkEnhancedMetricsAreUnique(t, target)
		s.checkArenaStrIsUnique(t, target)

		rawPtr := uintptr(unsafe.Pointer(p))
		{
			p := (*person)(unsafe.Pointer(rawPtr))
			p.Name = bump.AllocateString(target, "John Smith")
			p.Age = 21
			p.Manager = boss
		}
		runtime.GC()
		{
			p := (*person)(unsafe.Pointer(rawPtr))
			assert(p.Name == "John Smith", "unexpected person state: %+v", p)
			assert(p.Age == 21, "unexpected person state: %+v", p)
			assert(p.Manager.Name == "Richard Bahman", "unexpected person state: %+v", p)
			assert(p.Manager.Age == 44, "unexpected person state: %+v", p)
		}
	}
	s.printStandState(t)
}
