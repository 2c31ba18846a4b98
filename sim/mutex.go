package sim

import (
	"github.com/gammazero/deque"

	"github.com/ejohnso49/tinyusb/pkg"
)

// Mutex is a recursive, priority-inheriting lock native to the
// simulated kernel. While any task waits, the owner's effective
// priority is raised to the highest waiter's, transitively across
// ownership chains, and restored on release. All operations are task
// context only.
type Mutex struct {
	k       *Kernel
	owner   *Task
	depth   int
	waiters deque.Deque[*Task]
}

// NewMutex creates an unlocked mutex.
func NewMutex(k *Kernel) *Mutex {
	if k == nil {
		return nil
	}
	return &Mutex{k: k}
}

// Lock acquires the mutex, blocking up to timeoutMS milliseconds.
// Re-locking by the owner increments the recursion depth. Forever
// disables the timeout and 0 polls. Returns false on timeout, poll
// failure, or kernel shutdown.
func (m *Mutex) Lock(timeoutMS uint64) bool {
	k := m.k
	k.mu.Lock()
	t := k.mustTask()
	if m.owner == nil {
		m.owner = t
		m.depth = 1
		t.owned = append(t.owned, m)
		k.mu.Unlock()
		return true
	}
	if m.owner == t {
		m.depth++
		k.mu.Unlock()
		return true
	}
	if timeoutMS == 0 || k.stopping {
		k.mu.Unlock()
		return false
	}
	m.waiters.PushBack(t)
	t.waitMux = m
	k.recomputePriority(m.owner)
	if timeoutMS == Forever {
		return k.park(t, TaskBlocked, 0, false)
	}
	return k.park(t, TaskBlocked, k.now+timeoutMS, true)
}

// Unlock decrements the recursion depth; at zero, ownership transfers
// to the highest-priority waiter, oldest first among equals, and
// priority boosts are recomputed on both sides. A new owner of higher
// effective priority preempts the caller immediately. Returns false
// when the caller does not own the mutex.
func (m *Mutex) Unlock() bool {
	k := m.k
	k.mu.Lock()
	t := k.taskContext()
	if t == nil || m.owner != t {
		pkg.LogDebug(pkg.ComponentKernel, "unlock rejected", "err", pkg.ErrNotOwner)
		k.mu.Unlock()
		return false
	}
	m.depth--
	if m.depth > 0 {
		k.mu.Unlock()
		return true
	}
	m.removeOwned(t)
	k.recomputePriority(t)
	if w := popBestWaiter(&m.waiters); w != nil {
		m.owner = w
		m.depth = 1
		w.owned = append(w.owned, m)
		w.wakeOK = true
		k.makeReady(w)
		k.recomputePriority(w)
		k.schedPoint(t)
		return true
	}
	m.owner = nil
	k.mu.Unlock()
	return true
}

// Owner returns the owning task, or nil when unlocked.
func (m *Mutex) Owner() *Task {
	m.k.mu.Lock()
	defer m.k.mu.Unlock()
	return m.owner
}

// removeOwned drops m from t's owned set. k.mu held.
func (m *Mutex) removeOwned(t *Task) {
	for i, owned := range t.owned {
		if owned == m {
			t.owned = append(t.owned[:i], t.owned[i+1:]...)
			return
		}
	}
}
