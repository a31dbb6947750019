// Package vmm is the three-level Sv39 virtual memory manager: page
// table walk/map/unmap over pmm.Frame-backed table levels, per
// spec.md §4.2.
//
// Grounded on the teacher's MMU code (src/mazboot/golang/main/mmu.go:
// createPageTableEntry/createTableEntry/mapPage/mapRegion, and
// src/go/mazarin's simpler single-level-table ARM64 equivalent) for
// the walk-then-install shape, re-targeted from ARM64's 4-level
// VA/AP/MAIR encoding to RISC-V Sv39's 3-level VPN/PTE-flag encoding.
package vmm

// PTE flag bits, spec.md §4.2 "Entry layout (low bits): V, R, W, X, U,
// G, A, D".
const (
	PteV uint64 = 1 << 0 // valid
	PteR uint64 = 1 << 1 // readable
	PteW uint64 = 1 << 2 // writable
	PteX uint64 = 1 << 3 // executable
	PteU uint64 = 1 << 4 // user-accessible
	PteG uint64 = 1 << 5 // global
	PteA uint64 = 1 << 6 // accessed
	PteD uint64 = 1 << 7 // dirty
)

const (
	ppnShift = 10
	pageBits = 12
)

// encodePTE packs a physical address and flag bits into a PTE. paddr
// must be page-aligned; callers round down before calling (spec.md
// §4.2 "Round vaddr down").
func encodePTE(paddr uintptr, flags uint64) uint64 {
	return (uint64(paddr>>pageBits) << ppnShift) | flags
}

// ptePaddr extracts the physical address a leaf or non-leaf PTE points
// to.
func ptePaddr(pte uint64) uintptr {
	return uintptr(pte>>ppnShift) << pageBits
}

func pteValid(pte uint64) bool { return pte&PteV != 0 }

// pteLeaf reports whether pte is a leaf (any of R/W/X set) as opposed
// to a non-leaf pointing at the next table level (spec.md §4.2
// "non-leaf entries have R=W=X=0").
func pteLeaf(pte uint64) bool { return pte&(PteR|PteW|PteX) != 0 }

// vpn extracts VPN[level] (9 bits) from a 39-bit virtual address.
// level 2 is the root index, level 0 the leaf index.
func vpn(vaddr uintptr, level int) uint64 {
	shift := pageBits + 9*level
	return uint64(vaddr>>uint(shift)) & 0x1FF
}
