package pfa

import "github.com/ezhes/swink/kernel/kfmt/early"

// State is a snapshot of the allocator's free-list occupancy, returned by
// GetState for tests and diagnostics that need to inspect allocator
// internals without reaching into unexported fields.
type State struct {
	PageBase      PageID
	PageCount     uint32
	FreeListSizes [Levels]int
}

// GetState returns a consistent snapshot of the allocator's current state.
func (a *allocator) GetState() State {
	a.lock.Acquire()
	defer a.lock.Release()

	var s State
	s.PageBase = a.pageBase
	s.PageCount = a.pageCount
	for level := range a.freeLists {
		s.FreeListSizes[level] = a.freeLists[level].Size()
	}
	return s
}

// DumpState prints the allocator's free-list occupancy to the console.
func (a *allocator) DumpState() {
	s := a.GetState()
	early.Printf("pfa: page_base=%x page_count=%d\n", uint64(s.PageBase), s.PageCount)
	for level, n := range s.FreeListSizes {
		early.Printf("  level %d (%d pages/block): %d free block(s)\n", level, uint64(1)<<uint(level), n)
	}
}

// contains reports whether id falls within the range of pages the
// allocator manages.
func (a *allocator) contains(id PageID) bool {
	return id >= a.pageBase && id < a.pageBase+PageID(a.pageCount)
}
