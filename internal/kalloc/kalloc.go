// Package kalloc is the slab/bucket dynamic allocator layered on top
// of internal/pmm: malloc/calloc/realloc/free over power-of-two block
// buckets backed by whole pages (multiblock superblocks) or multi-page
// runs (uniblock superblocks), per spec.md §4.3.
//
// Grounded on src/mazboot/golang/main/memory.go's bump/arena allocator
// shape (header-plus-payload-in-the-same-page, cast via
// castToPointer[T]) generalized from a single bump region to spec.md's
// per-order free-list buckets, and on internal/pmm's own
// freeHeader-embedded-in-page-bytes idiom for the superblock header.
// Unlike internal/pmm's buckets, a kalloc bucket's free list is a
// plain singly-linked LIFO stack threaded through the free blocks'
// own first 8 bytes (spec.md's Testable Property #4 requires LIFO
// reuse), not internal/list's doubly-linked Node — the smallest
// bucketed block is 16 bytes, too small to hold a generic Node's
// next+prev+value triplet.
package kalloc

import (
	"unsafe"

	"tinyos/internal/ksync"
	"tinyos/internal/pmm"
)

// MinBlockOrder/bucketCount fix the bucket range spec.md §4.3 states:
// "MIN_BLOCK_ORDER = 4, so smallest block 16 B; largest bucketed block
// is PAGE_SIZE/2" — 2048 bytes here, i.e. order 11, giving buckets for
// orders 4..11 inclusive, 8 buckets.
const (
	MinBlockOrder = 4
	bucketCount   = 8
)

func blockSize(bucket int) uint32 { return 1 << (MinBlockOrder + bucket) }

type superblockKind uint8

const (
	kindMultiblock superblockKind = 1
	kindUniblock   superblockKind = 2
)

const headerMagic = 0x6B414C4C // "kALL"

// header is the superblock bookkeeping spec.md §4.3 describes, placed
// directly at the start of the page(s) it owns — never allocated
// separately, the same arena-resident pattern pmm.freeHeader uses.
// Field use depends on kind: multiblock uses bucketIdx/freeBlocks/
// capacity/frame; uniblock uses frame/pageOrder only.
type header struct {
	magic      uint32
	kind       superblockKind
	bucketIdx  uint8
	_          uint16
	freeBlocks uint32
	capacity   uint32
	frame      pmm.Frame
	pageOrder  uint32
}

// headerSize is sizeof(header) rounded up to a 16-byte boundary, so
// every block kalloc hands out (which starts immediately after a
// superblock's header) is itself 16-byte aligned, satisfying spec.md
// §4.3's "correctly aligned pointers (at least 16 bytes)".
var headerSize = align16(uint32(unsafe.Sizeof(header{})))

func align16(n uint32) uint32 { return (n + 15) &^ 15 }

// freelist is a singly-linked LIFO stack of free blocks, threaded
// through each free block's own first 8 bytes. Pop/push are O(1);
// removeRange (used when a superblock's every block is free and the
// whole page is being returned) is O(n) in the bucket's free count.
type freelist struct {
	head uintptr
}

func nextPtr(addr uintptr) *uintptr {
	return (*uintptr)(unsafe.Pointer(addr))
}

func (f *freelist) push(addr uintptr) {
	*nextPtr(addr) = f.head
	f.head = addr
}

func (f *freelist) pop() (uintptr, bool) {
	if f.head == 0 {
		return 0, false
	}
	addr := f.head
	f.head = *nextPtr(addr)
	return addr, true
}

func (f *freelist) empty() bool { return f.head == 0 }

// removeRange unlinks every entry in [lo, hi), used when a
// superblock's capacity of blocks has all been freed and the whole
// page is about to go back to the physical allocator.
func (f *freelist) removeRange(lo, hi uintptr) {
	var prev uintptr
	cur := f.head
	for cur != 0 {
		next := *nextPtr(cur)
		if cur >= lo && cur < hi {
			if prev == 0 {
				f.head = next
			} else {
				*nextPtr(prev) = next
			}
		} else {
			prev = cur
		}
		cur = next
	}
}

type bucket struct {
	free freelist
	lock *ksync.Lock
}

// Allocator is the slab/bucket dynamic allocator. One Allocator per
// kernel; it owns no state pmm doesn't already track except its
// buckets' free lists and locks.
type Allocator struct {
	pmm     *pmm.Allocator
	buckets [bucketCount]bucket
}

// New builds a kalloc.Allocator over alloc. Called once at boot,
// after pmm.New (spec.md §2's data flow: "pmm_init ... malloc_init").
func New(alloc *pmm.Allocator) *Allocator {
	a := &Allocator{pmm: alloc}
	for i := range a.buckets {
		a.buckets[i].lock = ksync.NewLock()
	}
	return a
}

func bucketFor(size uint32) (idx int, ok bool) {
	if size > blockSize(bucketCount-1) {
		return 0, false
	}
	for i := 0; i < bucketCount; i++ {
		if blockSize(i) >= size {
			return i, true
		}
	}
	return 0, false
}

// Malloc returns a pointer to at least size bytes, 16-byte aligned,
// or nil on exhaustion (spec.md §4.3, §7 "alloc_pages, alloc_page,
// malloc return null").
func (a *Allocator) Malloc(size uint32) unsafe.Pointer {
	if size == 0 {
		size = 1
	}
	if idx, ok := bucketFor(size); ok {
		return a.mallocSmall(idx)
	}
	return a.mallocLarge(size)
}

// mallocSmall is spec.md §4.3's "Small path".
func (a *Allocator) mallocSmall(idx int) unsafe.Pointer {
	b := &a.buckets[idx]
	b.lock.Acquire()
	defer b.lock.Release()

	if b.free.empty() {
		if !a.refillBucket(idx) {
			return nil
		}
	}

	addr, ok := b.free.pop()
	if !ok {
		return nil
	}
	superblockOf(unsafe.Pointer(addr)).freeBlocks--
	return unsafe.Pointer(addr)
}

// refillBucket acquires one page from the physical allocator, carves
// it into equal-size blocks for bucket idx, and pushes them all onto
// the bucket's free list (spec.md §4.3 "If bucket empty: ...").
func (a *Allocator) refillBucket(idx int) bool {
	frame, ok := a.pmm.AllocPages(0)
	if !ok {
		return false
	}
	page := a.pmm.PageBytes(frame)
	size := blockSize(idx)
	capacity := (uint32(len(page)) - headerSize) / size

	hdr := (*header)(unsafe.Pointer(&page[0]))
	*hdr = header{
		magic:      headerMagic,
		kind:       kindMultiblock,
		bucketIdx:  uint8(idx),
		freeBlocks: capacity,
		capacity:   capacity,
		frame:      frame,
	}

	b := &a.buckets[idx]
	base := uintptr(unsafe.Pointer(&page[0])) + uintptr(headerSize)
	for i := uint32(0); i < capacity; i++ {
		b.free.push(base + uintptr(i*size))
	}
	return true
}

// mallocLarge is spec.md §4.3's "Large path": size > PAGE_SIZE/2, i.e.
// larger than the largest (2048-byte) bucket.
func (a *Allocator) mallocLarge(size uint32) unsafe.Pointer {
	need := headerSize + size
	order := pageOrderFor(need)
	frame, ok := a.pmm.AllocPages(order)
	if !ok {
		return nil
	}
	page := a.pmm.PageBytes(frame)
	hdr := (*header)(unsafe.Pointer(&page[0]))
	*hdr = header{
		magic:     headerMagic,
		kind:      kindUniblock,
		frame:     frame,
		pageOrder: order,
	}
	return unsafe.Pointer(uintptr(unsafe.Pointer(&page[0])) + uintptr(headerSize))
}

func pageOrderFor(bytes uint32) uint32 {
	pages := (bytes + pmm.PageSize - 1) / pmm.PageSize
	var order uint32
	for (uint32(1) << order) < pages {
		order++
	}
	return order
}

// Calloc is malloc(n*size) with the result zeroed. pmm.AllocPages
// already zeroes fresh pages, but a reused multiblock free-list block
// does not arrive pre-zeroed until Free clears it, so Calloc zeroes
// explicitly rather than relying on that.
func (a *Allocator) Calloc(n, size uint32) unsafe.Pointer {
	total := n * size
	ptr := a.Malloc(total)
	if ptr == nil {
		return nil
	}
	b := unsafe.Slice((*byte)(ptr), total)
	for i := range b {
		b[i] = 0
	}
	return ptr
}

// Free dispatches by the owning superblock's kind: a uniblock's pages
// go straight back to the physical allocator; a multiblock's block is
// zeroed and returned to its bucket's free list, and if that empties
// the whole superblock, every block of it is unlinked and the page is
// freed (spec.md §4.3 "Free").
func (a *Allocator) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	hdr := superblockOf(ptr)
	if hdr.magic != headerMagic {
		panic("kalloc: Free on a pointer with a corrupt or missing superblock header")
	}

	switch hdr.kind {
	case kindUniblock:
		a.pmm.FreePages(hdr.frame, hdr.pageOrder)

	case kindMultiblock:
		idx := int(hdr.bucketIdx)
		size := blockSize(idx)
		addr := uintptr(ptr)

		zero := unsafe.Slice((*byte)(ptr), size)
		for i := range zero {
			zero[i] = 0
		}

		b := &a.buckets[idx]
		b.lock.Acquire()
		hdr.freeBlocks++
		if hdr.freeBlocks < hdr.capacity {
			b.free.push(addr)
			b.lock.Release()
			return
		}

		// Every block of this superblock is now free: unlink them all
		// from the bucket's free list (the just-zeroed one was never
		// linked back in) and return the page.
		base := uintptr(unsafe.Pointer(hdr)) + uintptr(headerSize)
		b.free.removeRange(base, base+uintptr(hdr.capacity*size))
		b.lock.Release()
		a.pmm.FreePages(hdr.frame, 0)

	default:
		panic("kalloc: Free on a superblock with an unrecognized kind")
	}
}

// Realloc is spec.md §4.3's "Realloc": new_size 0 frees and returns
// null; otherwise a fresh block is allocated, min(old_size, new_size)
// bytes are copied, and the old block is freed.
func (a *Allocator) Realloc(ptr unsafe.Pointer, newSize uint32) unsafe.Pointer {
	if newSize == 0 {
		a.Free(ptr)
		return nil
	}
	if ptr == nil {
		return a.Malloc(newSize)
	}

	oldSize := oldSizeOf(superblockOf(ptr))
	next := a.Malloc(newSize)
	if next == nil {
		return nil
	}
	n := oldSize
	if newSize < n {
		n = newSize
	}
	copy(unsafe.Slice((*byte)(next), n), unsafe.Slice((*byte)(ptr), n))
	a.Free(ptr)
	return next
}

func oldSizeOf(hdr *header) uint32 {
	if hdr.kind == kindUniblock {
		return (pmm.PageSize << hdr.pageOrder) - headerSize
	}
	return blockSize(int(hdr.bucketIdx))
}

// superblockOf page-rounds ptr down to the start of the page it lives
// in to reach the header (spec.md §4.3 "Free: page-round-down the
// pointer"). Every pointer Malloc/Calloc hands out sits in the same
// page as its header — headerSize is always well under PAGE_SIZE — so
// this works uniformly for both multiblock and (multi-page) uniblock
// superblocks.
func superblockOf(ptr unsafe.Pointer) *header {
	addr := uintptr(ptr) &^ (pmm.PageSize - 1)
	return (*header)(unsafe.Pointer(addr))
}
