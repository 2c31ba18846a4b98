package sim

import (
	"github.com/gammazero/deque"

	"github.com/ejohnso49/tinyusb/pkg"
)

// Semaphore is a counting semaphore native to the simulated kernel,
// bounded at a fixed limit. Give is interrupt-safe; Take and Reset are
// task context only. Waiters wake highest effective priority first,
// oldest first among equals.
type Semaphore struct {
	k       *Kernel
	count   int
	limit   int
	waiters deque.Deque[*Task]
}

// NewSemaphore creates a semaphore with the given initial count and
// upper bound. Returns nil when limit < 1 or initial is outside
// 0..limit.
func NewSemaphore(k *Kernel, initial, limit int) *Semaphore {
	if k == nil || limit < 1 || initial < 0 || initial > limit {
		pkg.LogWarn(pkg.ComponentKernel, "rejected semaphore", "initial", initial, "limit", limit)
		return nil
	}
	return &Semaphore{k: k, count: initial, limit: limit}
}

// Give increments the count toward the limit, waking the best waiter
// instead when one is parked. Safe from any context; from task context
// a woken higher-priority waiter preempts the caller.
func (s *Semaphore) Give() {
	k := s.k
	k.mu.Lock()
	if w := popBestWaiter(&s.waiters); w != nil {
		w.wakeOK = true
		k.makeReady(w)
		if t := k.taskContext(); t != nil {
			k.schedPoint(t)
			return
		}
		k.mu.Unlock()
		return
	}
	if s.count < s.limit {
		s.count++
	}
	k.mu.Unlock()
}

// Take decrements the count, blocking up to timeoutMS milliseconds when
// it is zero. Forever disables the timeout and 0 polls. Returns false
// on timeout, poll failure, or kernel shutdown. Task context only.
func (s *Semaphore) Take(timeoutMS uint64) bool {
	k := s.k
	k.mu.Lock()
	t := k.mustTask()
	if s.count > 0 {
		s.count--
		k.mu.Unlock()
		return true
	}
	if timeoutMS == 0 || k.stopping {
		k.mu.Unlock()
		return false
	}
	s.waiters.PushBack(t)
	t.waitSem = s
	if timeoutMS == Forever {
		return k.park(t, TaskBlocked, 0, false)
	}
	return k.park(t, TaskBlocked, k.now+timeoutMS, true)
}

// Reset zeroes the count without waking or flushing waiters. Task
// context only.
func (s *Semaphore) Reset() {
	k := s.k
	k.mu.Lock()
	k.mustTask()
	s.count = 0
	k.mu.Unlock()
}

// Count returns the current count.
func (s *Semaphore) Count() int {
	s.k.mu.Lock()
	defer s.k.mu.Unlock()
	return s.count
}
