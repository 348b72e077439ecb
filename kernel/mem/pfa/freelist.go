package pfa

import (
	"unsafe"

	"github.com/ezhes/swink/kernel/container/dlist"
	"github.com/ezhes/swink/kernel/mem"
)

// freeEntryForPage returns the list node embedded at the start of the
// (free) page identified by id. Only free pages may be passed here: a page
// still holding live data would have its first bytes clobbered.
func (a *allocator) freeEntryForPage(id PageID) *dlist.Elem {
	kva := paToKVAFn(paFromPageID(id))
	return (*dlist.Elem)(unsafe.Pointer(kva))
}

// pageIDForFreeEntry recovers the page ID a list node was placed at.
func (a *allocator) pageIDForFreeEntry(e *dlist.Elem) PageID {
	pa := kvaToPAFn(uintptr(unsafe.Pointer(e)))
	return pageIDFromPA(pa)
}

// insertRangeFreed marks the count pages starting at base as free without
// attempting to merge them with any neighboring block. It walks the range
// in ascending page order and, at each page, places the largest block that
// both the page's alignment and the pages remaining allow, which
// is exactly what Init needs when it releases the RAM left over after the
// bootstrap reservation: there is nothing on either side yet to merge with.
func (a *allocator) insertRangeFreed(base PageID, count PageID) {
	for id, remaining := base, count; remaining > 0; {
		level := maxBuddyLevelByAlignment(id)
		if fit := minBuddyLevelNoOverflow(mem.Size(remaining) * mem.PageSize); fit < level {
			level = fit
		}

		a.freeLists[level].PushFront(a.freeEntryForPage(id))
		a.setBit(id, level, true)

		advance := PageID(1) << level
		id += advance
		remaining -= advance
	}
}

// freeRangeMerging returns count pages starting at base to the allocator,
// coalescing each with its buddy for as many levels as the buddy is also
// free. It is the counterpart FreeContig uses, as opposed to the
// non-merging sweep Init uses over virgin memory.
func (a *allocator) freeRangeMerging(base PageID, count PageID) {
	for i := PageID(0); i < count; i++ {
		id := base + i

		var level uint
		for level = 0; level < Levels-1; level++ {
			buddy := buddyPageIDForLevel(id, level)
			if !a.getBit(buddy, level) {
				break
			}

			dlist.Remove(a.freeEntryForPage(buddy))
			a.setBit(buddy, level, false)
			id = rootPageIDForLevel(id, level)
		}

		a.freeLists[level].PushFront(a.freeEntryForPage(id))
		a.setBit(id, level, true)
	}
}
