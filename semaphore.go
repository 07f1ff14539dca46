package rawsync

import "sync/atomic"

// Semaphore is a counting semaphore over a single atomic word. It
// differs from BinarySemaphore only in permit granularity: callers
// may claim and return several permits at once. The counter never
// leaves the range [0, max] as observed through Acquire and Release.
type Semaphore struct {
	noCopy noCopy // Prevents copying of the semaphore
	state  uint32 // Available permits, 0..max
	max    uint32 // Permit capacity, fixed at construction
}

// Permit represents ownership of some number of a Semaphore's
// permits. It is created only by Acquire or AcquireN and must be
// released exactly once, by the goroutine that acquired it.
type Permit struct {
	noCopy noCopy     // Prevents copying of the permit
	n      uint32     // Number of permits held
	sem    *Semaphore // Issuing semaphore; nil once released
}

// NewSemaphore returns a semaphore with max permits, all available.
func NewSemaphore(max uint32) *Semaphore {
	return &Semaphore{state: max, max: max}
}

// Acquire claims a single permit, blocking until one is available.
func (s *Semaphore) Acquire() *Permit {
	return s.AcquireN(1)
}

// AcquireN claims n permits, blocking until all n are available at
// once. Requesting zero permits, or more than the semaphore's
// capacity, is a contract violation and panics: such a request could
// never be satisfied.
func (s *Semaphore) AcquireN(n uint32) *Permit {
	if n == 0 || n > s.max {
		panic("rawsync: invalid permit request")
	}

	cur := atomic.LoadUint32(&s.state)
	for {
		if cur >= n {
			if atomic.CompareAndSwapUint32(&s.state, cur, cur-n) {
				return &Permit{n: n, sem: s}
			}
		} else {
			// Park on the exact value just observed; a release that
			// lands in between changes the word and turns this into
			// an immediate return.
			futexWait(&s.state, cur)
		}
		cur = atomic.LoadUint32(&s.state)
	}
}

// Release returns the permit's count to the semaphore and wakes one
// parked thread. The wake is unconditional: the woken thread may
// find its request still unsatisfiable and park again. Releasing the
// same permit twice panics.
func (p *Permit) Release() {
	if p.sem == nil {
		panic("rawsync: permit released twice")
	}
	s := p.sem
	p.sem = nil

	atomic.AddUint32(&s.state, p.n)
	futexWake(&s.state)
}

// Count reports the number of currently available permits.
func (s *Semaphore) Count() uint32 {
	return atomic.LoadUint32(&s.state)
}

// Max reports the semaphore's permit capacity.
func (s *Semaphore) Max() uint32 {
	return s.max
}
