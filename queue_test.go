package rawsync

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	r := require.New(t)

	q := NewQueue[int]()
	q.Push(1)
	q.Push(2)
	q.Push(3)
	r.Equal(3, q.Len())

	for want := 1; want <= 3; want++ {
		v, ok := q.Pop()
		r.True(ok)
		r.Equal(want, v)
	}

	_, ok := q.Pop()
	r.False(ok)
	r.Equal(0, q.Len())
}

func TestQueueEmpty(t *testing.T) {
	r := require.New(t)

	var q Queue[string]
	v, ok := q.Pop()
	r.False(ok)
	r.Empty(v)
	r.Equal(0, q.Len())
}

// checkChain verifies the settled structural invariant: head is nil
// iff tail is nil, and when non-nil, following next links from head
// reaches tail, whose own next is nil.
func checkChain[T any](r *require.Assertions, q *Queue[T]) {
	head := q.head.Load()
	tail := q.tail.Load()

	if head == nil {
		r.Nil(tail)
		return
	}
	r.NotNil(tail)

	n := head
	for n != tail {
		n = n.next.Load()
		r.NotNil(n)
	}
	r.Nil(tail.next.Load())
}

func TestQueueStructuralInvariant(t *testing.T) {
	r := require.New(t)

	q := NewQueue[int]()
	checkChain(r, q)

	for i := 0; i < 5; i++ {
		q.Push(i)
		checkChain(r, q)
	}
	for i := 0; i < 3; i++ {
		_, ok := q.Pop()
		r.True(ok)
		checkChain(r, q)
	}
	for i := 5; i < 10; i++ {
		q.Push(i)
		checkChain(r, q)
	}
	for {
		if _, ok := q.Pop(); !ok {
			break
		}
		checkChain(r, q)
	}

	r.Nil(q.head.Load())
	r.Nil(q.tail.Load())
	r.Equal(0, q.Len())
}

// Single producer, single consumer: with the consumer retrying on
// empty, every element must come out exactly once and in push order.
func TestQueueOrderSPSC(t *testing.T) {
	r := require.New(t)

	const total = 10000
	q := NewQueue[int]()

	go func() {
		for i := 0; i < total; i++ {
			q.Push(i)
		}
	}()

	want := 0
	for want < total {
		v, ok := q.Pop()
		if !ok {
			runtime.Gosched()
			continue
		}
		r.Equal(want, v)
		want++
	}

	_, ok := q.Pop()
	r.False(ok)
}

// Many producers and consumers racing: after K pushes and K
// successful pops (retrying to rule out the documented spurious
// empty), the queue is empty and nothing was lost or duplicated.
func TestQueueConservation(t *testing.T) {
	r := require.New(t)

	const (
		producers   = 8
		consumers   = 8
		perProducer = 5000
		total       = producers * perProducer
	)

	q := NewQueue[int]()

	var wg sync.WaitGroup
	start := make(chan struct{})

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			<-start
			for i := 0; i < perProducer; i++ {
				q.Push(p*perProducer + i)
			}
		}(p)
	}

	var popped atomic.Int64
	var sum atomic.Int64
	for c := 0; c < consumers; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for popped.Load() < total {
				v, ok := q.Pop()
				if !ok {
					runtime.Gosched()
					continue
				}
				sum.Add(int64(v))
				popped.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	r.Equal(int64(total), popped.Load())
	r.Equal(int64(total)*(total-1)/2, sum.Load())
	r.Equal(0, q.Len())
	checkChain(r, q)
}

// Len counts a push from its start, so a racing pop of that element
// can never drive the count below zero, no matter how the sampler
// interleaves with the CAS loops.
func TestQueueLenNeverNegative(t *testing.T) {
	r := require.New(t)

	const total = 20000
	q := NewQueue[int]()

	stop := make(chan struct{})
	sampled := make(chan int, 1)
	go func() {
		low := 0
		for {
			select {
			case <-stop:
				sampled <- low
				return
			default:
				if n := q.Len(); n < low {
					low = n
				}
			}
		}
	}()

	go func() {
		for i := 0; i < total; i++ {
			q.Push(i)
		}
	}()

	seen := 0
	for seen < total {
		if _, ok := q.Pop(); ok {
			seen++
		} else {
			runtime.Gosched()
		}
	}

	close(stop)
	r.GreaterOrEqual(<-sampled, 0)
	r.Equal(0, q.Len())
}

// Drain the queue through its empty state repeatedly while a pusher
// races, exercising the tail handoff on the empty transition.
func TestQueueEmptyTransitionChurn(t *testing.T) {
	r := require.New(t)

	const total = 20000
	q := NewQueue[int]()

	go func() {
		for i := 0; i < total; i++ {
			q.Push(i)
		}
	}()

	seen := 0
	for seen < total {
		if _, ok := q.Pop(); ok {
			seen++
		} else {
			runtime.Gosched()
		}
	}

	r.Equal(total, seen)
	r.Nil(q.head.Load())
	r.Nil(q.tail.Load())
}
