package pfa

import (
	"unsafe"

	"github.com/ezhes/swink/kernel"
	"github.com/ezhes/swink/kernel/mem"
)

// PageType classifies the contents of an allocated page for the metadata
// store. It packs into 2 bits, matching the MDS's one byte per page.
type PageType uint8

const (
	// KernelData marks a page holding kernel heap or static data.
	KernelData PageType = iota
	// KernelText marks a page holding kernel code.
	KernelText
	// PageTable marks a page holding part of a page table.
	PageTable

	reservedPageType
)

// Metadata is the MDS's one-byte-per-page record. Only the low 2 bits are
// defined; the metadata of a free page is indeterminate and must not be
// read before the page has been allocated.
type Metadata uint8

// NewMetadata builds a Metadata record for t.
func NewMetadata(t PageType) Metadata {
	return Metadata(t & 0x3)
}

// PageType extracts the page type packed into m.
func (m Metadata) PageType() PageType {
	return PageType(m & 0x3)
}

// applyMetadataRange stamps count pages starting at base with m. It is the
// only writer of the metadata store and must be called with PFA.lock held.
func (a *allocator) applyMetadataRange(base PageID, count PageID, m Metadata) {
	if count == 0 {
		return
	}
	start := uintptr(base - a.pageBase)
	mem.Memset(uintptr(unsafe.Pointer(&a.metadata[start])), byte(m), mem.Size(count))
}

// mdsGetLocked returns id's metadata record. Callers must hold PFA.lock.
func (a *allocator) mdsGetLocked(id PageID) Metadata {
	return Metadata(a.metadata[id-a.pageBase])
}

// MDSGetMetadata returns the metadata record an earlier AllocContig call
// stamped on id. The page must currently be allocated; the metadata of a
// free page is undefined.
func (a *allocator) MDSGetMetadata(id PageID) Metadata {
	a.lock.Acquire()
	defer a.lock.Release()
	return a.mdsGetLocked(id)
}

// MDSRequireRangeType panics unless every one of the count pages starting
// at base is stamped with want. It exists so that callers handed a page
// range by another subsystem can assert the range is what they expect
// before trusting its contents.
func (a *allocator) MDSRequireRangeType(base PageID, count uint32, want PageType) {
	a.lock.Acquire()
	defer a.lock.Release()

	for i := uint32(0); i < count; i++ {
		if a.mdsGetLocked(base+PageID(i)).PageType() != want {
			kernel.Panic(errMDSTypeMismatch)
		}
	}
}
