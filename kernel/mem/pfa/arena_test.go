package pfa

import (
	"unsafe"

	"github.com/ezhes/swink/kernel/mem"
)

// testArena backs a fake physical address space: physical address 0 maps
// to the start of the arena. Tests install it over the package-level
// paToKVAFn/kvaToPAFn test seams so that pointer-based code (free-list
// nodes threaded through "physical" pages) can run against plain Go memory
// instead of a real physmap.
type testArena struct {
	mem []byte
}

func newTestArena(pages int) *testArena {
	return &testArena{mem: make([]byte, pages*int(mem.PageSize))}
}

func (a *testArena) install() func() {
	origPAToKVA, origKVAToPA := paToKVAFn, kvaToPAFn
	base := uintptr(unsafe.Pointer(&a.mem[0]))

	paToKVAFn = func(pa PA) uintptr { return base + uintptr(pa) }
	kvaToPAFn = func(kva uintptr) PA { return PA(kva - base) }

	return func() {
		paToKVAFn, kvaToPAFn = origPAToKVA, origKVAToPA
	}
}

// newFreeListTestAllocator builds an allocator whose free lists and
// bitmaps are ready to use but whose bitmap/metadata backing arrays are
// plain Go slices rather than memory reserved by Init.
func newFreeListTestAllocator(pageCount uint32) *allocator {
	a := &allocator{pageCount: pageCount}
	for level := uint(0); level < Levels; level++ {
		a.freeLists[level].Init()
		a.bitmap[level] = make([]uint64, bitmapWordsForLevel(pageCount, level))
	}
	a.metadata = make([]byte, pageCount)
	return a
}
