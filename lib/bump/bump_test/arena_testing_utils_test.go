package bump_test

import (
	"fmt"
	"math/rand"
	"runtime/debug"
	"testing"
	"unsafe"

	"github.com/alexcrichton/bumpalo/lib/bump"
)

type commonStandState struct {
	ptrStringsSet             stringsSetWithOrder
	metricsStringsSet         stringsSetWithOrder
	enhancedMetricsStringsSet stringsSetWithOrder
	arenaStringsSet           stringsSetWithOrder
}

func (s *commonStandState) checkArenaStrIsUnique(t *testing.T, target *bump.Arena) {
	arenaStr := fmt.Sprintf("%v", target)
	assert(arenaStr != "", "can't be empty")
	arenaStrIsUnique := s.arenaStringsSet.addIfUnique(arenaStr)
	assert(arenaStrIsUnique, "arena str should be unique. target: %v", arenaStr)
}

func (s *commonStandState) checkMetricsAreUnique(t *testing.T, metrics bump.Metrics) {
	assert(metrics.String() != "", "can't be empty")
	metricsAreUnique := s.metricsStringsSet.addIfUnique(metrics.String())
	assert(metricsAreUnique, "metrics should be unique. target: %v", metrics.String())
}

func (s *commonStandState) checkEnhancedMetricsAreUnique(t *testing.T, target *bump.Arena) {
	assert(target.EnhancedMetrics().String() != "", "can't be empty")
	metricsAreUnique := s.enhancedMetricsStringsSet.addIfUnique(target.EnhancedMetrics().String())
	assert(metricsAreUnique, "enhanced metrics should be unique. target: %v", target.EnhancedMetrics().String())
}

func (s *commonStandState) checkPointerIsUnique(t *testing.T, ptr unsafe.Pointer) {
	ptrStr := fmt.Sprintf("%p", ptr)
	assert(ptrStr != "", "can't be empty")
	ptrIsUnique := s.ptrStringsSet.addIfUnique(ptrStr)
	assert(ptrIsUnique, "ptr should be unique. target: %v", ptrStr)
}

func (s *commonStandState) printStandState(t *testing.T) {
	for _, key := range s.ptrStringsSet.list {
		t.Logf("ptr: %v\n", key)
	}
	for _, key := range s.metricsStringsSet.list {
		t.Logf("metrics: %v\n", key)
	}
	for _, key := range s.enhancedMetricsStringsSet.list {
		t.Logf("enhanced metrics: %v\n", key)
	}
	for _, key := range s.arenaStringsSet.list {
		t.Logf("arena: %v\n", key)
	}
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
		debug.PrintStack()
		t.FailNow()
	}
}

type person struct {
	Name    string
	Age     uint
	Manager *person
}

type stringsSetWithOrder struct {
	set  map[string]struct{}
	list []string
}

func (s *stringsSetWithOrder) addIfUnique(key string) bool {
	if s.set == nil {
		s.set = map[string]struct{}{}
	}
	_, notUnique := s.set[key]
	if notUnique {
		return false
	}
	s.set[key] = struct{}{}
	s.list = append(s.list, key)
	return true
}

func genRandomSize() uintptr {
	size := uintptr(rand.Intn(1024))
	if rand.Float32() < 0.1 {
		size *= 1024
	}
	return size
}

func genRandomAlignment() uintptr {
	alignments := []uintptr{1, 8, 16, 32}
	return alignments[rand.Intn(len(alignments))]
}
