package pfa

import (
	"testing"

	"github.com/ezhes/swink/kernel/mem"
)

func newLiveTestAllocator(pageCount uint32) *allocator {
	a := newFreeListTestAllocator(pageCount)
	a.lock.InitLock()
	a.insertRangeFreed(0, PageID(pageCount))
	return a
}

func TestAllocContigRejectsOversizeRequest(t *testing.T) {
	arena := newTestArena(8)
	defer arena.install()()

	a := newLiveTestAllocator(8)
	if got := a.AllocContig(MaxBlockSize*2, NewMetadata(KernelData)); got != InvalidPA {
		t.Fatalf("expected InvalidPA for oversize request; got 0x%x", got)
	}
}

func TestAllocContigReturnsDistinctNonOverlappingBlocks(t *testing.T) {
	arena := newTestArena(16)
	defer arena.install()()

	a := newLiveTestAllocator(16)

	pa1 := a.AllocContig(mem.PageSize, NewMetadata(KernelData))
	pa2 := a.AllocContig(mem.PageSize, NewMetadata(KernelData))

	if pa1 == InvalidPA || pa2 == InvalidPA {
		t.Fatalf("expected two successful allocations; got pa1=0x%x pa2=0x%x", pa1, pa2)
	}
	if pa1 == pa2 {
		t.Fatalf("expected distinct allocations; both returned 0x%x", pa1)
	}
}

func TestAllocContigStampsRequestedMetadata(t *testing.T) {
	arena := newTestArena(8)
	defer arena.install()()

	a := newLiveTestAllocator(8)
	pa := a.AllocContig(mem.PageSize, NewMetadata(PageTable))
	if pa == InvalidPA {
		t.Fatal("expected allocation to succeed")
	}

	id := pageIDFromPA(pa)
	if got := a.MDSGetMetadata(id).PageType(); got != PageTable {
		t.Fatalf("expected PageTable metadata; got %v", got)
	}
}

func TestAllocContigFailsWhenExhausted(t *testing.T) {
	arena := newTestArena(1)
	defer arena.install()()

	a := newLiveTestAllocator(1)
	if pa := a.AllocContig(mem.PageSize, NewMetadata(KernelData)); pa == InvalidPA {
		t.Fatal("expected the sole page to be allocatable")
	}
	if pa := a.AllocContig(mem.PageSize, NewMetadata(KernelData)); pa != InvalidPA {
		t.Fatalf("expected allocator to be exhausted; got 0x%x", pa)
	}
}

func TestFreeContigReturnsPageForReuse(t *testing.T) {
	arena := newTestArena(4)
	defer arena.install()()

	a := newLiveTestAllocator(4)
	pa := a.AllocContig(mem.PageSize, NewMetadata(KernelData))
	if pa == InvalidPA {
		t.Fatal("expected allocation to succeed")
	}

	a.FreeContig(pa, mem.PageSize)

	pa2 := a.AllocContig(4*mem.PageSize, NewMetadata(KernelData))
	if pa2 == InvalidPA {
		t.Fatal("expected the freed page (merged back up) to satisfy a full-range allocation")
	}
}

func TestAllocContigSplitsLeftoverBackToFreeLists(t *testing.T) {
	arena := newTestArena(4)
	defer arena.install()()

	a := newLiveTestAllocator(4)
	// Request 1 page; the allocator must pull a 4-page block (the only
	// thing on the free lists) and release the other 3 pages, which
	// should remain independently allocatable.
	if pa := a.AllocContig(mem.PageSize, NewMetadata(KernelData)); pa == InvalidPA {
		t.Fatal("expected first allocation to succeed")
	}

	for i := 0; i < 3; i++ {
		if pa := a.AllocContig(mem.PageSize, NewMetadata(KernelData)); pa == InvalidPA {
			t.Fatalf("expected leftover page %d to be allocatable", i)
		}
	}

	if pa := a.AllocContig(mem.PageSize, NewMetadata(KernelData)); pa != InvalidPA {
		t.Fatalf("expected allocator to be fully exhausted; got 0x%x", pa)
	}
}
