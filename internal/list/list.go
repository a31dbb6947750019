// Package list implements the intrusive circular doubly-linked list
// with a sentinel head that spec.md's Design Notes (§9) calls for in
// place of C's container_of. Rather than recovering the owning struct
// from a link's address (container_of's job), each Node carries its
// owner directly as a typed value — the "list-of-handles where the
// handle resolves to the owning entity" alternative the spec
// explicitly sanctions. A Node is meant to be embedded by value inside
// the struct it links (a buddy-free block, a Thread on the ready
// queue) so no separate allocation backs the list itself.
package list

// Node is one link in a List[T]. Zero value is not ready to use;
// a Node only becomes valid once PushBack/PushFront links it in.
type Node[T any] struct {
	next, prev *Node[T]
	value      T
}

// Value returns the owner stored at this node.
func (n *Node[T]) Value() T { return n.value }

// Linked reports whether n currently belongs to a list.
func (n *Node[T]) Linked() bool { return n.next != nil }

// List is a circular doubly-linked list with a sentinel head. The
// sentinel's own value field is never read by callers.
type List[T any] struct {
	sentinel Node[T]
}

// New returns an initialized empty list.
func New[T any]() *List[T] {
	l := new(List[T])
	l.Init()
	return l
}

// Init resets l to empty. Must be called before first use for a
// zero-value List (e.g. one embedded in a larger struct).
func (l *List[T]) Init() {
	l.sentinel.next = &l.sentinel
	l.sentinel.prev = &l.sentinel
}

// Empty reports whether the list has no elements.
func (l *List[T]) Empty() bool {
	return l.sentinel.next == &l.sentinel
}

// PushBack links node to the tail of the list, storing v as its value.
func (l *List[T]) PushBack(node *Node[T], v T) {
	node.value = v
	node.prev = l.sentinel.prev
	node.next = &l.sentinel
	l.sentinel.prev.next = node
	l.sentinel.prev = node
}

// PushFront links node to the head of the list, storing v as its value.
func (l *List[T]) PushFront(node *Node[T], v T) {
	node.value = v
	node.next = l.sentinel.next
	node.prev = &l.sentinel
	l.sentinel.next.prev = node
	l.sentinel.next = node
}

// Front returns the first node without unlinking it.
func (l *List[T]) Front() (*Node[T], bool) {
	if l.Empty() {
		return nil, false
	}
	return l.sentinel.next, true
}

// PopFront unlinks and returns the list's first element. FIFO pop.
func (l *List[T]) PopFront() (T, bool) {
	var zero T
	if l.Empty() {
		return zero, false
	}
	n := l.sentinel.next
	l.Remove(n)
	return n.value, true
}

// Remove unlinks n from whichever list it belongs to. n must belong
// to l; the caller is responsible for that invariant, exactly as the
// buddy allocator's "unlink the buddy from bucket[order]" step
// (spec.md §4.1) assumes the bucket it names.
func (l *List[T]) Remove(n *Node[T]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.next, n.prev = nil, nil
}

// ForEach visits every element in list order, head to tail.
func (l *List[T]) ForEach(fn func(T)) {
	for n := l.sentinel.next; n != &l.sentinel; n = n.next {
		fn(n.value)
	}
}

// Len counts elements by walking the list. O(n); callers that need
// frequent length checks (e.g. slab free_blocks) should keep their own
// counter rather than call this on a hot path.
func (l *List[T]) Len() int {
	n := 0
	for cur := l.sentinel.next; cur != &l.sentinel; cur = cur.next {
		n++
	}
	return n
}
