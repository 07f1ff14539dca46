package rawsync

import "go.uber.org/atomic"

// RCUList is a singly linked list with lock-free readers. Mutators
// serialize on a BinarySemaphore for their full duration, which
// reduces an update to "allocate, link, publish": the new node is
// fully formed before the single atomic store of head makes it
// reachable. Readers never take the permit; they snapshot head and
// walk whichever chain was published, observing the list as it was
// entirely before or entirely after any one mutation, never a
// partially linked node.
//
// The zero value is an empty list.
type RCUList[T any] struct {
	noCopy   noCopy                   // Prevents copying of the list
	head     atomic.Pointer[rnode[T]] // Front of the chain; nil when empty
	length   atomic.Int64             // Element count, updated after each structural change
	mutators BinarySemaphore          // Serializes PushFront and PopFront
}

// rnode carries one element and the link to the node behind it.
type rnode[T any] struct {
	elem T
	next atomic.Pointer[rnode[T]]
}

// NewRCUList returns an empty list. It is equivalent to
// new(RCUList[T]).
func NewRCUList[T any]() *RCUList[T] {
	return new(RCUList[T])
}

// PushFront inserts elem at the front of the list.
func (l *RCUList[T]) PushFront(elem T) {
	permit := l.mutators.Acquire()

	n := &rnode[T]{elem: elem}
	n.next.Store(l.head.Load())

	// Publishing head is the linearization point; n's link is in
	// place before any reader can reach it.
	l.head.Store(n)
	l.length.Inc()

	permit.Release()
}

// PopFront removes and returns the front element. The second result
// is false when the list is empty.
func (l *RCUList[T]) PopFront() (T, bool) {
	permit := l.mutators.Acquire()

	head := l.head.Load()
	if head == nil {
		permit.Release()
		var zero T
		return zero, false
	}

	// Readers already walking from head keep the detached node alive
	// through the garbage collector; its next link still leads into
	// the surviving chain.
	l.head.Store(head.next.Load())
	l.length.Dec()

	permit.Release()
	return head.elem, true
}

// Len reports the number of elements. It never blocks; a mutation in
// flight may be reflected in the structure one step before the
// count, but the count itself is never torn.
func (l *RCUList[T]) Len() int {
	return int(l.length.Load())
}

// IsEmpty reports whether the list has no elements, with the same
// freshness caveat as Len.
func (l *RCUList[T]) IsEmpty() bool {
	return l.Len() == 0
}

// Range calls fn on each element from front to back, stopping early
// if fn returns false. It snapshots head once and never blocks;
// mutations racing the walk leave it on whichever chain it entered.
func (l *RCUList[T]) Range(fn func(T) bool) {
	for n := l.head.Load(); n != nil; n = n.next.Load() {
		if !fn(n.elem) {
			return
		}
	}
}
