// Package physmap models the boundary with the early virtual-memory
// bootstrap: it owns nothing of its own and performs no page-table
// manipulation. All it provides is the bijection between a physical
// address and its kernel-virtual address in the "physmap" -- a
// contiguous window, set up once by the external VM bootstrap, that
// identity-maps every physical page RAM-wide at a constant offset.
//
// Code in this package assumes that offset never changes for the
// lifetime of the system; SetBase is expected to be called exactly once,
// early in boot, before any translation is requested.
package physmap

// base is the kernel-virtual address that corresponds to physical
// address 0. It is written once by the VM bootstrap and read-only
// thereafter.
var base uintptr

// SetBase records the physmap window's kernel-virtual base address. It
// must be called once, before any call to PAToKVA or KVAToPA.
func SetBase(kvaBase uintptr) {
	base = kvaBase
}

// Base returns the physmap window's current base address.
func Base() uintptr {
	return base
}

// PAToKVA translates a physical address into its physmap kernel-virtual
// address.
func PAToKVA(pa uintptr) uintptr {
	return base + pa
}

// KVAToPA translates a physmap kernel-virtual address back into a
// physical address. The caller must ensure kva actually lies inside the
// physmap window (kva >= Base()); this function does not itself defend
// against addresses taken from outside the window.
func KVAToPA(kva uintptr) uintptr {
	return kva - base
}
