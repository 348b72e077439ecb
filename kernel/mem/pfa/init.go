package pfa

import (
	"github.com/ezhes/swink/kernel"
	"github.com/ezhes/swink/kernel/kfmt/early"
	"github.com/ezhes/swink/kernel/mem"
)

// Init brings up the allocator over [ramBase, ramBase+ramSize), the
// physical RAM the early VM bootstrap discovered. bootstrapPAReserved is
// the first physical address not already claimed by that bootstrap; Init
// carves the allocator's own bitmaps and metadata store out of it before
// handing the remainder to the free lists.
//
// kernelTextBase/kernelTextSize and kernelDataBase/kernelDataSize describe
// the kernel image's own footprint within ramBase/ramSize; Init stamps
// those ranges (and the bootstrap range Init itself consumes) into the
// metadata store so that MDSRequireRangeType can later tell kernel memory
// apart from memory the allocator has handed out since.
//
// Init panics if called more than once.
func (a *allocator) Init(
	ramBase PA, ramSize mem.Size,
	kernelTextBase PA, kernelTextSize mem.Size,
	kernelDataBase PA, kernelDataSize mem.Size,
	bootstrapPAReserved PA,
) {
	if a.initialized {
		kernel.Panic(errDoubleInit)
	}
	a.lock.InitLock()

	a.pageBase = pageIDFromPA(ramBase)
	a.pageCount = uint32(pageCountForSize(ramSize))

	bitmapBytes := 0
	for level := uint(0); level < Levels; level++ {
		bitmapBytes += bitmapBytesForLevel(a.pageCount, level)
	}
	mdsBytes := int(a.pageCount)

	required := mem.Size(bitmapBytes + mdsBytes)
	requiredPages := required.Pages()
	reservedBytes := PA(requiredPages) << mem.PageShift

	base := paToKVAFn(bootstrapPAReserved)
	offset := uintptr(0)
	for level := uint(0); level < Levels; level++ {
		words := bitmapWordsForLevel(a.pageCount, level)
		a.bitmap[level] = sliceUint64At(base+offset, words)
		offset += uintptr(words) * 8
	}
	a.metadata = sliceBytesAt(base+offset, int(a.pageCount))

	// Mark every page allocated; insertRangeFreed below clears the bits
	// for the pages actually being handed to the free lists. The bitmaps
	// are contiguous in the reservation, so a single Memset covers all of
	// them.
	mem.Memset(base, 0, mem.Size(bitmapBytes))

	for level := range a.freeLists {
		a.freeLists[level].Init()
	}

	newReserved := bootstrapPAReserved + reservedBytes
	ramEnd := ramBase + PA(ramSize)
	a.insertRangeFreed(pageIDFromPA(newReserved), pageCountForSize(mem.Size(ramEnd-newReserved)))

	bootstrapMeta := NewMetadata(KernelData)
	a.applyMetadataRange(pageIDFromPA(ramBase), pageCountForSize(mem.Size(newReserved-ramBase)), bootstrapMeta)
	a.applyMetadataRange(pageIDFromPA(kernelDataBase), pageCountForSize(kernelDataSize), bootstrapMeta)
	a.applyMetadataRange(pageIDFromPA(kernelTextBase), pageCountForSize(kernelTextSize), NewMetadata(KernelText))

	a.initialized = true

	early.Printf("pfa: managing %d pages from pa %x, %d reserved for bookkeeping\n",
		a.pageCount, uint64(ramBase), uint64(requiredPages))
}
