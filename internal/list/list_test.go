package list

import "testing"

func TestEmptyList(t *testing.T) {
	l := New[int]()
	if !l.Empty() {
		t.Fatalf("new list should be empty")
	}
	if _, ok := l.PopFront(); ok {
		t.Fatalf("PopFront on empty list returned ok=true")
	}
}

func TestPushBackFIFOOrder(t *testing.T) {
	l := New[int]()
	var nodes [3]Node[int]
	for i, v := range []int{10, 20, 30} {
		l.PushBack(&nodes[i], v)
	}

	for _, want := range []int{10, 20, 30} {
		got, ok := l.PopFront()
		if !ok || got != want {
			t.Fatalf("PopFront() = (%d, %v), want (%d, true)", got, ok, want)
		}
	}
	if !l.Empty() {
		t.Fatalf("list should be empty after draining all pushes")
	}
}

func TestPushFrontLIFOOrder(t *testing.T) {
	l := New[int]()
	var nodes [3]Node[int]
	for i, v := range []int{10, 20, 30} {
		l.PushFront(&nodes[i], v)
	}

	for _, want := range []int{30, 20, 10} {
		got, ok := l.PopFront()
		if !ok || got != want {
			t.Fatalf("PopFront() = (%d, %v), want (%d, true)", got, ok, want)
		}
	}
}

func TestRemoveMiddle(t *testing.T) {
	l := New[string]()
	var a, b, c Node[string]
	l.PushBack(&a, "a")
	l.PushBack(&b, "b")
	l.PushBack(&c, "c")

	l.Remove(&b)
	if b.Linked() {
		t.Fatalf("removed node should report Linked() == false")
	}

	var got []string
	l.ForEach(func(v string) { got = append(got, v) })
	want := []string{"a", "c"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("ForEach order after remove = %v, want %v", got, want)
	}
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
}

func TestLinkedFlag(t *testing.T) {
	l := New[int]()
	var n Node[int]
	if n.Linked() {
		t.Fatalf("fresh node should not be Linked()")
	}
	l.PushBack(&n, 1)
	if !n.Linked() {
		t.Fatalf("pushed node should be Linked()")
	}
	l.Remove(&n)
	if n.Linked() {
		t.Fatalf("removed node should not be Linked()")
	}
}
