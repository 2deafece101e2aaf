package backend

import "sync/atomic"

// Spinlock is a busy-wait mutual-exclusion primitive. The dispatcher uses
// it everywhere the original used a port-provided critical section that
// must never suspend the caller (spec: "suspension is not permitted"
// inside the dispatcher): a blocking sync.Mutex is the wrong primitive
// here even though the teacher's runner.go uses one for its per-tag
// serialization (see DESIGN.md) -- ublk's completion handler runs on a
// thread that is always allowed to block; tband's hooks may run from a
// context that never expects to.
type Spinlock struct {
	held atomic.Bool
}

// Lock busy-waits until the lock is acquired.
func (s *Spinlock) Lock() {
	for !s.held.CompareAndSwap(false, true) {
	}
}

// TryLock attempts to acquire the lock once, without waiting.
func (s *Spinlock) TryLock() bool {
	return s.held.CompareAndSwap(false, true)
}

// Unlock releases the lock. The caller must hold it.
func (s *Spinlock) Unlock() {
	s.held.Store(false)
}
