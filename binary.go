package rawsync

import (
	"runtime"
	"sync/atomic"
)

// BinarySemaphore state word values. The third value records whether
// any thread is parked, so an uncontended release never pays for a
// wake syscall. The zero value is binFree, making the zero
// BinarySemaphore ready to use.
const (
	binFree   = 0 // permit available
	binHeld   = 1 // permit taken, no waiters
	binParked = 2 // permit taken, at least one thread parked
)

// binSpinBudget bounds the optimistic spin a contended acquire
// performs before parking on the state word.
const binSpinBudget = 100

// BinarySemaphore is a one-permit semaphore. The fast path of
// Acquire is a single compare-and-swap on the state word; the
// contended path spins briefly, then blocks on that same word until
// a release wakes it. The zero value is an unlocked semaphore.
type BinarySemaphore struct {
	noCopy noCopy // Prevents copying of the semaphore
	state  uint32 // binFree, binHeld or binParked
}

// BinaryPermit represents ownership of the semaphore's single
// permit. It is created only by Acquire and must be released exactly
// once, by the goroutine that acquired it.
type BinaryPermit struct {
	noCopy noCopy           // Prevents copying of the permit
	sem    *BinarySemaphore // Issuing semaphore; nil once released
}

// NewBinarySemaphore returns a semaphore with its permit available.
// It is equivalent to new(BinarySemaphore).
func NewBinarySemaphore() *BinarySemaphore {
	return new(BinarySemaphore)
}

// Acquire claims the permit, blocking until it is available. Every
// return from a blocked wait re-runs the claim: a woken thread must
// re-validate the state word rather than assume the permit is its.
func (s *BinarySemaphore) Acquire() *BinaryPermit {
	if !atomic.CompareAndSwapUint32(&s.state, binFree, binHeld) {
		s.acquireContended()
	}
	return &BinaryPermit{sem: s}
}

// acquireContended is the slow path of Acquire. It spins while the
// holder looks likely to release soon (held with no waiters), then
// parks on the state word.
func (s *BinarySemaphore) acquireContended() {
	for spins := 0; spins < binSpinBudget; spins++ {
		if atomic.LoadUint32(&s.state) != binHeld {
			break
		}
		runtime.Gosched()
	}

	if atomic.CompareAndSwapUint32(&s.state, binFree, binHeld) {
		return
	}

	// Swap in binParked unconditionally. If the swap returns binFree
	// the permit is ours; the semaphore is left marked parked, which
	// at worst costs the next release one extra wake that its target
	// absorbs by re-validating.
	for atomic.SwapUint32(&s.state, binParked) != binFree {
		futexWait(&s.state, binParked)
	}
}

// Release returns the permit to the semaphore and, if any thread was
// parked, wakes exactly one. Releasing the same permit twice panics.
func (p *BinaryPermit) Release() {
	if p.sem == nil {
		panic("rawsync: binary permit released twice")
	}
	s := p.sem
	p.sem = nil

	if atomic.SwapUint32(&s.state, binFree) == binParked {
		futexWake(&s.state)
	}
}

// Count reports the number of available permits: one when free, zero
// when held.
func (s *BinarySemaphore) Count() uint32 {
	if atomic.LoadUint32(&s.state) == binFree {
		return 1
	}
	return 0
}
