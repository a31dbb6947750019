package vmm

import (
	"unsafe"

	"tinyos/internal/kerr"
	"tinyos/internal/pmm"
)

// maxVaddr is the invariant spec.md §4.2 states directly: vaddr < 2^38
// (this kernel never uses the top bit of Sv39's 39-bit VA range).
const maxVaddr = 1 << 38

// ErrVaddrRange is returned by the range-validating entry points
// (MapRange, UnmapRange) when any page in the requested range would
// touch a vaddr outside [0, maxVaddr). Single-page Map/Unmap instead
// treat an out-of-range vaddr as a caller precondition violation and
// panic, per spec.md §7's propagation policy.
var ErrVaddrRange = kerr.New("vmm", "vaddr out of range")

// table is a page table level's 512 PTEs, viewed directly over a
// pmm.Frame's own bytes — this kernel identity-maps its own page
// tables, so a table frame's physical storage and its in-use virtual
// contents are the same bytes.
type table = [512]uint64

func tableAt(alloc *pmm.Allocator, f pmm.Frame) *table {
	b := alloc.PageBytes(f)
	return (*table)(unsafe.Pointer(&b[0]))
}

// Manager owns one root page table over a backing physical allocator.
type Manager struct {
	alloc *pmm.Allocator
	root  pmm.Frame
}

// New allocates a fresh, zeroed root table from alloc. Root tables are
// always single pages (order 0); pmm.AllocPages already zeroes fresh
// blocks, satisfying spec.md §4.2's "allocate a new page... and zero
// it" for the root itself.
func New(alloc *pmm.Allocator) (*Manager, bool) {
	root, ok := alloc.AllocPages(0)
	if !ok {
		return nil, false
	}
	return &Manager{alloc: alloc, root: root}, true
}

// Root returns the physical frame backing m's root table, for
// installing satp.
func (m *Manager) Root() pmm.Frame { return m.root }

// RootPPN returns this manager's root table as a page number (physical
// address >> 12), the form csr.MakeSatp expects for the PPN field of
// satp (spec.md §4.2 "satp = (MODE_SV39 << 60) | (ppn >> 12)").
func (m *Manager) RootPPN() uint64 {
	return uint64(m.alloc.Addr(m.root) >> pageBits)
}

// walk descends from the root to the level-0 leaf entry for vaddr.
// When alloc is true, a missing intermediate table is allocated and
// zeroed and a non-leaf {ppn(new_table), V} entry installed (spec.md
// §4.2 "Walk"); when false, a miss returns ok=false without mutating
// anything, matching walk/unmap's read-only contract.
func (m *Manager) walk(vaddr uintptr, allocMissing bool) (leaf *uint64, ok bool) {
	tbl := tableAt(m.alloc, m.root)
	for level := 2; level > 0; level-- {
		idx := vpn(vaddr, level)
		entry := tbl[idx]
		if !pteValid(entry) {
			if !allocMissing {
				return nil, false
			}
			next, allocated := m.alloc.AllocPages(0)
			if !allocated {
				return nil, false
			}
			tbl[idx] = encodePTE(m.alloc.Addr(next), PteV)
			tbl = tableAt(m.alloc, next)
			continue
		}
		if pteLeaf(entry) {
			// A higher-level leaf already covers this vaddr as a huge
			// page; this kernel never installs those, so treat it as
			// a caller error rather than walk past it.
			panic("vmm: walk encountered an unexpected leaf above level 0")
		}
		tbl = tableAt(m.alloc, m.alloc.FrameAt(ptePaddr(entry)))
	}
	idx := vpn(vaddr, 0)
	return &tbl[idx], true
}

// Walk resolves vaddr to its mapped physical address, or ok=false if
// unmapped (spec.md §4.2 "walk(root, vaddr) -> paddr | 0").
func (m *Manager) Walk(vaddr uintptr) (paddr uintptr, ok bool) {
	leaf, found := m.walk(vaddr, false)
	if !found || !pteValid(*leaf) {
		return 0, false
	}
	return ptePaddr(*leaf), true
}

// Map installs a single page mapping vaddr -> paddr with permission
// flags perm (a subset of R|W|X|U). vaddr and paddr are rounded down
// to the containing page, per spec.md §4.2 "Round vaddr down".
func (m *Manager) Map(vaddr, paddr uintptr, perm uint64) {
	if vaddr >= maxVaddr {
		panic("vmm: vaddr out of range")
	}
	vaddr &^= pmm.PageSize - 1
	paddr &^= pmm.PageSize - 1
	leaf, ok := m.walk(vaddr, true)
	if !ok {
		panic("vmm: Map failed to allocate an intermediate table")
	}
	*leaf = encodePTE(paddr, perm|PteV)
}

// Unmap detaches the mapping at vaddr, if any. This is detach-only
// (the resolved Open Question #1 in SPEC_FULL.md §9): the frame the
// leaf referenced is not freed here, since in an identity-mapped
// kernel that frame usually holds live data, not a spare page-table
// page. Callers that want the frame back call pmm.FreePages
// themselves.
func (m *Manager) Unmap(vaddr uintptr) {
	vaddr &^= pmm.PageSize - 1
	leaf, ok := m.walk(vaddr, false)
	if !ok {
		return
	}
	*leaf = 0
}

// MapRange maps length bytes starting at vaddr to paddr, one page at
// a time with the physical address stepped in lockstep (spec.md §4.2
// "Map/unmap range"). The whole range is validated against maxVaddr
// before any page is installed, so a call that fails touches no
// state.
func (m *Manager) MapRange(vaddr, paddr uintptr, length uintptr, perm uint64) error {
	vaddr &^= pmm.PageSize - 1
	end := vaddr + roundUp(length)
	if end > maxVaddr || end < vaddr {
		return ErrVaddrRange
	}
	for va, pa := vaddr, paddr&^(pmm.PageSize-1); va < end; va, pa = va+pmm.PageSize, pa+pmm.PageSize {
		m.Map(va, pa, perm)
	}
	return nil
}

// UnmapRange detaches length bytes of mappings starting at vaddr, one
// page at a time.
func (m *Manager) UnmapRange(vaddr uintptr, length uintptr) error {
	vaddr &^= pmm.PageSize - 1
	end := vaddr + roundUp(length)
	if end > maxVaddr || end < vaddr {
		return ErrVaddrRange
	}
	for va := vaddr; va < end; va += pmm.PageSize {
		m.Unmap(va)
	}
	return nil
}

func roundUp(n uintptr) uintptr {
	return (n + pmm.PageSize - 1) &^ (pmm.PageSize - 1)
}
