//go:build !linux

package rawsync

import (
	"sync"
	"sync/atomic"

	"github.com/gammazero/deque"
)

// parkingLot is the block/wake facility for platforms without a
// word-level futex. Waiters queue on the address of the word they
// block on. The lot mutex spans the value check and the enqueue,
// which gives the same check-and-block atomicity the kernel gives
// futex waiters: a wake issued after a releasing store cannot slip
// between a waiter's check and its park.
type parkingLot struct {
	mu    sync.Mutex
	slots map[*uint32]*deque.Deque[chan struct{}]
}

var lot = parkingLot{
	slots: make(map[*uint32]*deque.Deque[chan struct{}]),
}

// futexWait blocks the calling goroutine while *addr equals val.
// Callers must re-validate their condition after it returns.
func futexWait(addr *uint32, val uint32) {
	lot.mu.Lock()
	if atomic.LoadUint32(addr) != val {
		lot.mu.Unlock()
		return
	}

	w := lot.slots[addr]
	if w == nil {
		w = new(deque.Deque[chan struct{}])
		lot.slots[addr] = w
	}

	ch := make(chan struct{})
	w.PushBack(ch)
	lot.mu.Unlock()

	<-ch
}

// futexWake wakes the oldest waiter parked on addr, if any. A slot
// with no remaining waiters is removed so the lot does not retain
// dead word addresses.
func futexWake(addr *uint32) {
	lot.mu.Lock()
	if w := lot.slots[addr]; w != nil {
		close(w.PopFront())
		if w.Len() == 0 {
			delete(lot.slots, addr)
		}
	}
	lot.mu.Unlock()
}
