// Package sync provides spin-based synchronization primitives for use by
// code that runs before (or without) a scheduler capable of parking a
// goroutine, such as the physical page frame allocator.
package sync

import "sync/atomic"

// Semaphore is a spinning counting semaphore built on top of a CAS loop.
// Unlike a channel-based semaphore it never blocks the calling goroutine;
// it busy-waits, which is the only option available to code that runs
// before the scheduler can park anything.
type Semaphore struct {
	value uint32
}

// InitSemaphore sets the semaphore's initial count.
func (s *Semaphore) InitSemaphore(value uint32) {
	atomic.StoreUint32(&s.value, value)
}

// Down acquires a slot on the semaphore, spinning until one is available.
func (s *Semaphore) Down() {
	for {
		cur := atomic.LoadUint32(&s.value)
		if cur == 0 {
			continue
		}

		if atomic.CompareAndSwapUint32(&s.value, cur, cur-1) {
			return
		}
		// Lost the race (another waiter changed the counter first);
		// reload and retry.
	}
}

// Up releases a slot on the semaphore.
func (s *Semaphore) Up() {
	atomic.AddUint32(&s.value, 1)
}

// Lock is a binary semaphore used to serialize access to a shared
// structure across cores with no fairness or priority guarantees.
// Re-acquiring a Lock already held by the current caller deadlocks it.
type Lock struct {
	sem Semaphore
}

// InitLock prepares l for use. It must be called once before the first
// Acquire.
func (l *Lock) InitLock() {
	l.sem.InitSemaphore(1)
}

// Acquire blocks (by spinning) until the lock can be taken.
func (l *Lock) Acquire() {
	l.sem.Down()
}

// Release relinquishes a held lock.
func (l *Lock) Release() {
	l.sem.Up()
}
