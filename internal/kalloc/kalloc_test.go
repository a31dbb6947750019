package kalloc

import (
	"testing"
	"unsafe"

	"tinyos/internal/ksync"
	"tinyos/internal/pmm"
)

// soloScheduler is the simplest ksync.Scheduler that satisfies a
// single-goroutine test: one thread, never actually blocks.
type soloScheduler struct{}

func (soloScheduler) Current() ksync.Thread { return "solo" }
func (soloScheduler) Block()                {}
func (soloScheduler) Unblock(ksync.Thread)  {}

func newTestAllocator(t *testing.T, pages int) *Allocator {
	t.Helper()
	ksync.SetScheduler(soloScheduler{})
	mem := make([]byte, pages*pmm.PageSize)
	return New(pmm.New(mem, 0, 0))
}

func TestMallocFreeLIFOReuse(t *testing.T) {
	a := newTestAllocator(t, 16)

	p1 := a.Malloc(24)
	if p1 == nil {
		t.Fatalf("Malloc(24) failed")
	}
	a.Free(p1)
	p2 := a.Malloc(24)
	if p2 != p1 {
		t.Fatalf("expected LIFO reuse of the just-freed block: got %p want %p", p2, p1)
	}
}

func TestMallocDistinctBlocksDontOverlap(t *testing.T) {
	a := newTestAllocator(t, 16)

	p1 := a.Malloc(20)
	p2 := a.Malloc(20)
	if p1 == nil || p2 == nil {
		t.Fatalf("Malloc failed")
	}
	if p1 == p2 {
		t.Fatalf("two live allocations returned the same pointer")
	}
}

func TestCallocZeroes(t *testing.T) {
	a := newTestAllocator(t, 16)

	p := a.Malloc(64)
	b := unsafe.Slice((*byte)(p), 64)
	for i := range b {
		b[i] = 0xFF
	}
	a.Free(p)

	p2 := a.Calloc(8, 8)
	b2 := unsafe.Slice((*byte)(p2), 64)
	for i, v := range b2 {
		if v != 0 {
			t.Fatalf("byte %d of Calloc result not zero: %#x", i, v)
		}
	}
}

func TestMallocLargePath(t *testing.T) {
	a := newTestAllocator(t, 64)

	p := a.Malloc(4096) // exceeds PAGE_SIZE/2, takes the uniblock path
	if p == nil {
		t.Fatalf("Malloc(4096) failed")
	}
	b := unsafe.Slice((*byte)(p), 4096)
	for i := range b {
		b[i] = byte(i)
	}
	a.Free(p)
}

func TestReallocGrowCopiesAndShrinks(t *testing.T) {
	a := newTestAllocator(t, 16)

	p := a.Malloc(16)
	b := unsafe.Slice((*byte)(p), 16)
	for i := range b {
		b[i] = byte(i + 1)
	}

	grown := a.Realloc(p, 64)
	if grown == nil {
		t.Fatalf("Realloc grow failed")
	}
	gb := unsafe.Slice((*byte)(grown), 16)
	for i, v := range gb {
		if v != byte(i+1) {
			t.Fatalf("Realloc did not preserve byte %d: got %d want %d", i, v, i+1)
		}
	}

	freed := a.Realloc(grown, 0)
	if freed != nil {
		t.Fatalf("Realloc(ptr, 0) should return nil")
	}
}

func TestFreeNilIsNoop(t *testing.T) {
	a := newTestAllocator(t, 4)
	a.Free(nil) // must not panic
}

func TestSuperblockReturnedWhenFullyFreed(t *testing.T) {
	a := newTestAllocator(t, 16)

	idx, ok := bucketFor(16)
	if !ok {
		t.Fatalf("bucketFor(16) failed")
	}
	cap := (pmm.PageSize - headerSize) / blockSize(idx)

	ptrs := make([]unsafe.Pointer, cap)
	for i := range ptrs {
		ptrs[i] = a.Malloc(16)
		if ptrs[i] == nil {
			t.Fatalf("Malloc(16) #%d failed", i)
		}
	}
	for _, p := range ptrs {
		a.Free(p)
	}

	if !a.buckets[idx].free.empty() {
		t.Fatalf("bucket free list should be empty once its superblock was fully freed and returned")
	}
}
