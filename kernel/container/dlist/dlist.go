// Package dlist implements an intrusive doubly-linked list: list nodes
// (Elem) are meant to be embedded as the first field of a client struct
// so that the list can thread through memory it does not own (e.g. the
// first bytes of a free physical page) without performing any allocation
// of its own.
package dlist

// Elem is a node that client code embeds inside the struct it wants to
// place on a List. It carries no payload; the client recovers its own
// struct from a *Elem via unsafe.Pointer, relying on Elem being the
// first field.
type Elem struct {
	next, prev *Elem
}

// List is a doubly-linked list with sentinel head/tail nodes. The zero
// value is not ready for use; call Init first.
type List struct {
	head, tail Elem
}

// Init prepares an empty list for use. Re-running Init on a populated
// list orphans its elements.
func (l *List) Init() {
	l.head.next = &l.tail
	l.head.prev = nil
	l.tail.prev = &l.head
	l.tail.next = nil
}

// PushFront links e in as the new first element of the list.
func (l *List) PushFront(e *Elem) {
	e.next = l.head.next
	e.prev = &l.head
	l.head.next.prev = e
	l.head.next = e
}

// Remove unlinks e from whatever list it is currently part of. e's own
// pointers are left dangling; the caller is expected to either discard e
// or re-insert it elsewhere.
func Remove(e *Elem) {
	e.prev.next = e.next
	e.next.prev = e.prev
}

// Empty reports whether the list has no elements.
func (l *List) Empty() bool {
	return l.head.next == &l.tail
}

// Front returns the first element of the list. It is a programming error
// to call Front on an empty list.
func (l *List) Front() *Elem {
	return l.head.next
}

// Begin returns the first node to visit when iterating forward, which may
// be the end sentinel if the list is empty.
func (l *List) Begin() *Elem {
	return l.head.next
}

// End returns the sentinel that terminates forward iteration; it is never
// a real element and must not be dereferenced by client code.
func (l *List) End() *Elem {
	return &l.tail
}

// Next returns the node following e, which may be the list's End().
func Next(e *Elem) *Elem {
	return e.next
}

// Size walks the list and counts its elements. It is O(n); callers that
// only need to know whether the list has any entries should use Empty.
func (l *List) Size() int {
	n := 0
	for e := l.Begin(); e != l.End(); e = Next(e) {
		n++
	}
	return n
}
