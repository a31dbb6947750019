package vmm

import (
	"testing"

	"tinyos/internal/pmm"
)

func newTestManager(t *testing.T) (*Manager, *pmm.Allocator) {
	t.Helper()
	mem := make([]byte, 256*pmm.PageSize)
	alloc := pmm.New(mem, 0, 0)
	m, ok := New(alloc)
	if !ok {
		t.Fatalf("vmm.New failed to allocate a root table")
	}
	return m, alloc
}

func TestMapWalkRoundtrip(t *testing.T) {
	m, alloc := newTestManager(t)

	frame, ok := alloc.AllocPages(0)
	if !ok {
		t.Fatalf("AllocPages failed")
	}
	paddr := alloc.Addr(frame)
	vaddr := uintptr(0x1000_0000)

	m.Map(vaddr, paddr, PteR|PteW)

	got, ok := m.Walk(vaddr)
	if !ok {
		t.Fatalf("Walk reported unmapped after Map")
	}
	if got != paddr {
		t.Fatalf("Walk = %#x, want %#x", got, paddr)
	}
}

func TestWalkMissReturnsFalse(t *testing.T) {
	m, _ := newTestManager(t)
	if _, ok := m.Walk(0x2000); ok {
		t.Fatalf("Walk on an unmapped address should return ok=false")
	}
}

func TestUnmapDetachesWithoutFreeingFrame(t *testing.T) {
	m, alloc := newTestManager(t)

	frame, ok := alloc.AllocPages(0)
	if !ok {
		t.Fatalf("AllocPages failed")
	}
	paddr := alloc.Addr(frame)
	vaddr := uintptr(0x3000)

	m.Map(vaddr, paddr, PteR|PteW|PteX)
	m.Unmap(vaddr)

	if _, ok := m.Walk(vaddr); ok {
		t.Fatalf("Walk should report unmapped after Unmap")
	}

	// Detach-only: the frame itself is still the caller's to manage,
	// Unmap must not have returned it to the allocator's free buckets.
	frame2, ok := alloc.AllocPages(0)
	if !ok {
		t.Fatalf("AllocPages failed after Unmap")
	}
	if frame2 == frame {
		t.Fatalf("Unmap freed the underlying frame; it should only detach the mapping")
	}
}

func TestMapRangeCoversEveryPage(t *testing.T) {
	m, alloc := newTestManager(t)

	const pages = 4
	base, ok := alloc.AllocPages(2) // 4 contiguous pages
	if !ok {
		t.Fatalf("AllocPages(2) failed")
	}
	paddr := alloc.Addr(base)
	vaddr := uintptr(0x4000_0000)

	if err := m.MapRange(vaddr, paddr, pages*pmm.PageSize, PteR|PteW); err != nil {
		t.Fatalf("MapRange: %v", err)
	}

	for i := 0; i < pages; i++ {
		got, ok := m.Walk(vaddr + uintptr(i)*pmm.PageSize)
		if !ok {
			t.Fatalf("page %d of range not mapped", i)
		}
		want := paddr + uintptr(i)*pmm.PageSize
		if got != want {
			t.Fatalf("page %d: Walk = %#x, want %#x", i, got, want)
		}
	}
}

func TestMapOutOfRangeVaddrPanics(t *testing.T) {
	m, alloc := newTestManager(t)
	frame, _ := alloc.AllocPages(0)
	paddr := alloc.Addr(frame)

	defer func() {
		if recover() == nil {
			t.Fatalf("Map with vaddr >= 2^38 should panic")
		}
	}()
	m.Map(maxVaddr, paddr, PteR)
}

func TestMapRangeOutOfBoundsReturnsError(t *testing.T) {
	m, alloc := newTestManager(t)
	frame, _ := alloc.AllocPages(0)
	paddr := alloc.Addr(frame)

	err := m.MapRange(maxVaddr-pmm.PageSize, paddr, 2*pmm.PageSize, PteR)
	if err == nil {
		t.Fatalf("MapRange spanning past maxVaddr should return an error")
	}
}
