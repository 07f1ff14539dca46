package rawsync

import (
	"runtime"
	"sync/atomic"
)

// Queue is an unbounded multi-producer multi-consumer FIFO queue. No
// operation holds a lock: every goroutine drives the shared head and
// tail pointers directly through compare-and-swap loops, and the CAS
// on tail is the sole arbiter of FIFO order. Whichever push's CAS
// lands first is ordered first, regardless of the wall-clock order
// of the calls.
//
// Nodes detached from the queue are reclaimed by the garbage
// collector, which also rules out CAS ABA: a node's address cannot
// be reused while any concurrent Pop still references it.
//
// The zero value is an empty queue.
type Queue[T any] struct {
	noCopy noCopy                   // Prevents copying of the queue
	head   atomic.Pointer[qnode[T]] // Oldest node; nil when empty
	tail   atomic.Pointer[qnode[T]] // Newest node; nil when empty
	length atomic.Int64             // Element count, tracked beside the CAS protocol
}

// qnode carries one element and the link to its logical successor.
// next is nil for the newest node, and transiently nil on a node
// whose successor's push has won the tail CAS but not yet stored the
// link. That window is the race every Pop must tolerate.
type qnode[T any] struct {
	elem T
	next atomic.Pointer[qnode[T]]
}

// NewQueue returns an empty queue. It is equivalent to
// new(Queue[T]).
func NewQueue[T any]() *Queue[T] {
	return new(Queue[T])
}

// Push appends elem to the queue. It never blocks; under contention
// it retries until its compare-and-swap on tail wins.
func (q *Queue[T]) Push(elem T) {
	// Count the element before it becomes poppable: its increment
	// then always precedes the matching pop's decrement, so Len
	// never runs negative.
	q.length.Add(1)

	n := &qnode[T]{elem: elem}
	for {
		tail := q.tail.Load()
		if tail == nil {
			// Queue believed empty: install n as the tail, then
			// publish it as the head too, since head and tail
			// coincide in a one-element queue.
			if q.tail.CompareAndSwap(nil, n) {
				q.head.Store(n)
				break
			}
			continue
		}
		if q.tail.CompareAndSwap(tail, n) {
			// Link the displaced tail to its successor, closing the
			// window during which a Pop sees its next as nil.
			tail.next.Store(n)
			break
		}
	}
}

// Pop removes and returns the oldest element. The second result is
// false when no element was available.
//
// Pop can report empty while a concurrent Push is mid-flight: the
// new node is installed as tail but the previous tail's next link is
// not yet stored, and from the head side that state cannot be told
// apart from a genuinely empty queue. Callers that must drain every
// element retry on empty after their producers have finished.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	for {
		head := q.head.Load()
		if head == nil {
			return zero, false
		}

		next := head.next.Load()
		if next == nil && q.tail.Load() != head {
			// A push has claimed the tail slot after head but not
			// yet linked head.next.
			return zero, false
		}

		if !q.head.CompareAndSwap(head, next) {
			// Another pop took head first.
			continue
		}

		if next == nil && !q.tail.CompareAndSwap(head, nil) {
			// Between loading next and winning head, a push swung
			// tail past head. That push stores head.next right
			// after its CAS; republish the successor so the chain
			// is not lost.
			for {
				if succ := head.next.Load(); succ != nil {
					q.head.Store(succ)
					break
				}
				runtime.Gosched()
			}
		}

		q.length.Add(-1)
		return head.elem, true
	}
}

// Len reports the number of elements in the queue. The count covers
// pushes from the moment they start, so it is never negative but can
// briefly include an element whose push has not yet linked it. It is
// exact whenever no push or pop is mid-flight.
func (q *Queue[T]) Len() int {
	return int(q.length.Load())
}
