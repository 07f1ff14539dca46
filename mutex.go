package rawsync

// Mutex guards a value of type T behind a BinarySemaphore. The value
// is reachable only through a Guard, so the type system keeps all
// access inside the critical section the semaphore defines. A Mutex
// may be shared freely between goroutines; T itself needs no
// concurrent-access safety of its own, the mutex being the sole
// serialization point.
type Mutex[T any] struct {
	noCopy noCopy          // Prevents copying of the mutex
	sem    BinarySemaphore // Serializes access to value
	value  T               // Protected value
}

// Guard is a handle on a locked Mutex. It gives read and write
// access to the protected value until Unlock. At most one live Guard
// exists per Mutex.
type Guard[T any] struct {
	permit *BinaryPermit
	mu     *Mutex[T]
}

// NewMutex returns an unlocked mutex protecting value.
func NewMutex[T any](value T) *Mutex[T] {
	return &Mutex[T]{value: value}
}

// Lock acquires the mutex, blocking until it is available, and
// returns the guard through which the value is accessed.
func (m *Mutex[T]) Lock() *Guard[T] {
	return &Guard[T]{permit: m.sem.Acquire(), mu: m}
}

// With locks the mutex, runs fn with the protected value and
// unlocks, even if fn panics.
func (m *Mutex[T]) With(fn func(*T)) {
	g := m.Lock()
	defer g.Unlock()
	fn(g.Value())
}

// Value returns the protected value for reading and writing. The
// pointer must not be retained past Unlock.
func (g *Guard[T]) Value() *T {
	return &g.mu.value
}

// Unlock releases the mutex, ending the guard's access to the value.
// Unlocking the same guard twice panics.
func (g *Guard[T]) Unlock() {
	g.permit.Release()
}
