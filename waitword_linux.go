//go:build linux

package rawsync

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Futex operation codes from the kernel ABI; x/sys/unix exports the
// syscall number but not the op codes. The private flag scopes
// matching to the calling process; this library synchronizes
// threads, never processes.
const (
	futexWaitOp = 128 // FUTEX_WAIT | FUTEX_PRIVATE_FLAG
	futexWakeOp = 129 // FUTEX_WAKE | FUTEX_PRIVATE_FLAG
)

// futexWait blocks the calling thread while *addr equals val. The
// kernel compares the word atomically with the enqueue, which closes
// the lost-wake window between a caller's last load and its decision
// to sleep. The wait can end spuriously (EINTR, or a wake raced with
// a value change); callers must re-validate their condition in a
// loop.
func futexWait(addr *uint32, val uint32) {
	// The value may already have moved on; entering the syscall
	// would just bounce off EAGAIN.
	if atomic.LoadUint32(addr) != val {
		return
	}

	// EAGAIN means the word no longer held val, EINTR means a signal
	// landed. Either way the caller re-checks, so every errno is
	// treated as a wake.
	unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexWaitOp),
		uintptr(val),
		0, 0, 0,
	)
}

// futexWake wakes at most one thread blocked on addr. It is a no-op
// when no thread is parked there.
func futexWake(addr *uint32) {
	unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexWakeOp),
		1,
		0, 0, 0,
	)
}
