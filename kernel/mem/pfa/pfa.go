package pfa

import (
	"github.com/ezhes/swink/kernel"
	"github.com/ezhes/swink/kernel/mem"
	"github.com/ezhes/swink/kernel/mem/physmap"
	ksync "github.com/ezhes/swink/kernel/sync"

	"github.com/ezhes/swink/kernel/container/dlist"
)

var (
	errDoubleInit      = &kernel.Error{Module: "pfa", Message: "already initialized"}
	errMDSTypeMismatch = &kernel.Error{Module: "pfa", Message: "page metadata type mismatch"}
)

// paToKVAFn and kvaToPAFn indirect through physmap so that tests can swap
// in a fake translation without mapping real physical memory.
var (
	paToKVAFn = func(pa PA) uintptr { return physmap.PAToKVA(uintptr(pa)) }
	kvaToPAFn = func(kva uintptr) PA { return PA(physmap.KVAToPA(kva)) }
)

// allocator is a buddy physical page frame allocator paired with its
// metadata store. A single instance, PFA, is expected for the lifetime of
// the kernel; it starts out unusable until Init has placed its bitmaps and
// metadata store on reserved physical memory.
type allocator struct {
	lock ksync.Lock

	pageBase  PageID
	pageCount uint32

	freeLists [Levels]dlist.List
	bitmap    [Levels][]uint64
	metadata  []byte

	initialized bool
}

// PFA is the kernel's sole physical page frame allocator. It must be
// initialized exactly once, by Init, before any other method is used.
var PFA allocator

// AllocContig reserves the smallest free block able to hold size
// contiguous bytes, stamps it with meta, and returns its base physical
// address, or InvalidPA if size exceeds MaxBlockSize or no block is free.
// Any leftover tail of the block larger than size is immediately released
// back to the allocator.
func (a *allocator) AllocContig(size mem.Size, meta Metadata) PA {
	if size == 0 || size > MaxBlockSize {
		return InvalidPA
	}

	a.lock.Acquire()
	defer a.lock.Release()

	level0 := minBuddyLevel(size)
	level := level0
	for level < Levels && a.freeLists[level].Empty() {
		level++
	}
	if level == Levels {
		return InvalidPA
	}

	e := a.freeLists[level].Front()
	dlist.Remove(e)
	id := a.pageIDForFreeEntry(e)
	a.setBit(id, level, false)

	pageCount := pageCountForSize(size)
	if leftover := (PageID(1) << level) - pageCount; leftover > 0 {
		a.insertRangeFreed(id+pageCount, leftover)
	}

	a.applyMetadataRange(id, pageCount, meta)

	return paFromPageID(id)
}

// FreeContig returns the size-byte block starting at pa to the allocator.
// pa must be the address a prior AllocContig call returned. size may be
// smaller than the size that call was given, in which case only the leading
// pages are released and the rest stay allocated. Freeing pages that are
// already free, or that were never handed out, corrupts allocator state.
func (a *allocator) FreeContig(pa PA, size mem.Size) {
	a.lock.Acquire()
	defer a.lock.Release()

	a.freeRangeMerging(pageIDFromPA(pa), pageCountForSize(size))
}
