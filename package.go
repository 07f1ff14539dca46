// Package rawsync provides low-level synchronization primitives built
// directly on atomic read-modify-write operations and an OS-level
// block/wake facility. No primitive takes a kernel lock on its fast
// path; threads park only in semaphore slow paths, on the same word
// the fast path synchronizes through.
//
// Key components:
//
//   - BinarySemaphore: a one-permit semaphore whose fast path is a
//     single compare-and-swap and whose contended path spins briefly
//     before parking on the state word.
//
//   - Semaphore: a counting semaphore with bulk acquire and release.
//
//   - Mutex: an exclusive-access cell guarding a value of any type,
//     built on BinarySemaphore and exposing a scoped guard.
//
//   - Queue: an unbounded multi-producer multi-consumer FIFO queue
//     driven entirely by compare-and-swap retry loops. It never
//     blocks, only retries.
//
//   - RCUList: a singly linked list whose mutators serialize on a
//     BinarySemaphore while readers walk a published snapshot of the
//     chain without blocking.
//
// The block/wake facility is a futex on Linux and a mutex-guarded
// parking lot of waiter channels elsewhere. Both expose the same
// contract: block if and only if the word holds an expected value,
// atomically with the check, and wake at most one parked thread.
// Wakes may be spurious; every parked thread re-validates its
// condition before proceeding.
package rawsync
