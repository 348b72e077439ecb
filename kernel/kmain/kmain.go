package kmain

import (
	"github.com/ezhes/swink/kernel"
	"github.com/ezhes/swink/kernel/hal"
	"github.com/ezhes/swink/kernel/hal/multiboot"
	"github.com/ezhes/swink/kernel/kfmt/early"
	"github.com/ezhes/swink/kernel/mem"
	"github.com/ezhes/swink/kernel/mem/pfa"
	"github.com/ezhes/swink/kernel/mem/physmap"
)

var (
	errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}
	errNoUsableRAM   = &kernel.Error{Module: "kmain", Message: "no usable RAM region found in multiboot memory map"}
)

// physmapBase is the kernel-virtual base of the physmap window. Setting up
// that window (tables that identity-map all of RAM at this offset) is the
// job of the early VM bootstrap, which runs before Kmain and is out of
// scope here; Kmain only records where it put the window.
const physmapBase = 0xffff800000000000

// Kmain is the only Go symbol that is visible (exported) from the rt0 initialization
// code. This function is invoked by the rt0 assembly code after setting up the GDT
// and setting up a a minimal g0 struct that allows Go code using the 4K stack
// allocated by the assembly code.
//
// The rt0 code passes the address of the multiboot info payload provided by the
// bootloader as well as the physical addresses for the kernel start/end.
//
// Kmain is not expected to return. If it does, the rt0 code will halt the CPU.
//
//go:noinline
func Kmain(multibootInfoPtr, kernelStart, kernelEnd uintptr) {
	multiboot.SetInfoPtr(multibootInfoPtr)

	hal.InitTerminal()
	hal.ActiveTerminal.Clear()

	physmap.SetBase(physmapBase)

	ramBase, ramSize, err := largestAvailableRegion()
	if err != nil {
		kernel.Panic(err)
	}

	kernelTextBase := pfa.PA(kernelStart)
	kernelTextSize := mem.Size(kernelEnd - kernelStart)
	bootstrapReserved := pfa.PA(roundUpToPage(kernelEnd))

	early.Printf("kmain: ram base=%x size=%d bytes, kernel image %x-%x\n",
		uint64(ramBase), uint64(ramSize), uint64(kernelStart), uint64(kernelEnd))

	pfa.PFA.Init(ramBase, ramSize, kernelTextBase, kernelTextSize, 0, 0, bootstrapReserved)
	pfa.PFA.DumpState()

	// Use kernel.Panic instead of panic to prevent the compiler from
	// treating kernel.Panic as dead-code and eliminating it.
	kernel.Panic(errKmainReturned)
}

// largestAvailableRegion scans the multiboot memory map for the biggest
// MemAvailable entry, which Kmain treats as the RAM range the frame
// allocator will manage.
func largestAvailableRegion() (pfa.PA, mem.Size, *kernel.Error) {
	var base pfa.PA
	var size mem.Size

	multiboot.VisitMemRegions(func(entry *multiboot.MemoryMapEntry) bool {
		if entry.Type != multiboot.MemAvailable {
			return true
		}
		if mem.Size(entry.Length) > size {
			base = pfa.PA(entry.PhysAddress)
			size = mem.Size(entry.Length)
		}
		return true
	})

	if size == 0 {
		return 0, 0, errNoUsableRAM
	}
	return base, size, nil
}

func roundUpToPage(addr uintptr) uintptr {
	mask := uintptr(mem.PageSize) - 1
	return (addr + mask) &^ mask
}
