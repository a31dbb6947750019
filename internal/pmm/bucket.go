package pmm

import "tinyos/internal/list"

// bucket is one order's free list (spec.md §3 "Bucket"): a free list
// of blocks of this order, and (per spec.md §4.3's description of
// buckets generally) its own lock in the slab allocator above it — the
// physical allocator itself runs with interrupts already disabled by
// its caller (spec.md §5), so no lock lives here.
//
// The list holds no storage of its own: every node lives inside the
// free page it describes (freeHeader.node), reached through
// Allocator.header. That is why bucket's push/pop/remove are methods
// on Allocator, not on bucket — they need to resolve a page index to
// its embedded node before touching the list.
type bucket struct {
	list list.List[uint32]
}

func (a *Allocator) bucketPushBack(order, page uint32) {
	a.buckets[order].list.PushBack(&a.header(page).node, page)
}

func (a *Allocator) bucketPopFront(order uint32) (uint32, bool) {
	return a.buckets[order].list.PopFront()
}

func (a *Allocator) bucketRemove(order, page uint32) {
	a.buckets[order].list.Remove(&a.header(page).node)
}
