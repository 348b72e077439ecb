package pfa

import "testing"

func TestInsertRangeFreedAlignedRangeUsesTopLevelBlocks(t *testing.T) {
	arena := newTestArena(64)
	defer arena.install()()

	a := newFreeListTestAllocator(64)
	a.insertRangeFreed(0, 64)

	// The largest block the allocator can produce spans 1<<(Levels-1)
	// pages, so 64 aligned pages carve into two top-level blocks.
	if got, exp := a.freeLists[Levels-1].Size(), 2; got != exp {
		t.Fatalf("expected %d block(s) at top level; got %d", exp, got)
	}
	for level := uint(0); level < Levels-1; level++ {
		if got := a.freeLists[level].Size(); got != 0 {
			t.Fatalf("expected level %d to be empty; got %d block(s)", level, got)
		}
	}
	if !a.getBit(0, Levels-1) {
		t.Fatal("expected top-level bit to be set")
	}
}

func TestInsertRangeFreedUnalignedTail(t *testing.T) {
	arena := newTestArena(8)
	defer arena.install()()

	a := newFreeListTestAllocator(8)
	// 5 pages starting at page 1: greedy carve is 1@lvl0, then 2@lvl1, then 2@lvl1... walk it.
	a.insertRangeFreed(1, 5)

	total := 0
	for level := uint(0); level < Levels; level++ {
		total += a.freeLists[level].Size() * (1 << level)
	}
	if total != 5 {
		t.Fatalf("expected 5 pages tracked across free lists; got %d", total)
	}
}

func TestFreeRangeMergingCoalescesBuddies(t *testing.T) {
	arena := newTestArena(8)
	defer arena.install()()

	a := newFreeListTestAllocator(8)
	// Free pages 0 and 1 one at a time; they are buddies at level 0 so the
	// second free should merge them into a single level-1 block.
	a.freeRangeMerging(0, 1)
	if got, exp := a.freeLists[0].Size(), 1; got != exp {
		t.Fatalf("after freeing page 0: expected %d level-0 block(s); got %d", exp, got)
	}

	a.freeRangeMerging(1, 1)
	if got, exp := a.freeLists[0].Size(), 0; got != exp {
		t.Fatalf("expected level-0 list empty after merge; got %d", got)
	}
	if got, exp := a.freeLists[1].Size(), 1; got != exp {
		t.Fatalf("expected 1 merged level-1 block; got %d", got)
	}

	if !a.contains(0) || !a.contains(7) {
		t.Fatal("expected the merged block's pages to fall within the managed range")
	}
	if a.contains(8) {
		t.Fatal("expected page 8 to fall outside the managed range")
	}
}

func TestFreeRangeMergingStopsAtAllocatedBuddy(t *testing.T) {
	arena := newTestArena(8)
	defer arena.install()()

	a := newFreeListTestAllocator(8)
	// Page 1 is never freed, so freeing page 0 must not merge past level 0.
	a.freeRangeMerging(0, 1)

	if got, exp := a.freeLists[0].Size(), 1; got != exp {
		t.Fatalf("expected page 0 parked at level 0; got %d block(s)", got)
	}
	if a.getBit(1, 0) {
		t.Fatal("page 1 was never freed and must not appear free")
	}
}
