package pfa

import (
	"reflect"
	"unsafe"
)

// sliceUint64At overlays a []uint64 on top of the memory starting at addr.
// It is used to place the buddy bitmaps directly on physmap-translated
// physical memory reserved during Init, the same trick mem.Memset uses to
// overlay a []byte.
func sliceUint64At(addr uintptr, words int) []uint64 {
	return *(*[]uint64)(unsafe.Pointer(&reflect.SliceHeader{
		Data: addr,
		Len:  words,
		Cap:  words,
	}))
}

// sliceBytesAt overlays a []byte on top of the memory starting at addr. It
// is used to place the metadata store directly on reserved physical memory.
func sliceBytesAt(addr uintptr, n int) []byte {
	return *(*[]byte)(unsafe.Pointer(&reflect.SliceHeader{
		Data: addr,
		Len:  n,
		Cap:  n,
	}))
}
