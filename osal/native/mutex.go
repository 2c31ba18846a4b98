package native

import (
	"sync"
	"time"

	"github.com/gammazero/deque"
	"github.com/petermattis/goid"

	"github.com/ejohnso49/tinyusb/osal"
	"github.com/ejohnso49/tinyusb/pkg"
)

// mutexWaiter tracks one goroutine parked in Lock awaiting handoff.
type mutexWaiter struct {
	gid   int64
	grant chan struct{}
}

// MutexDef holds the backing storage for one recursive mutex.
// The owner is identified by goroutine id, so a goroutine that already
// holds the mutex can re-lock it without blocking.
type MutexDef struct {
	mu      sync.Mutex
	created bool
	owner   int64 // goroutine id of the holder, 0 when unlocked
	depth   int
	waiters deque.Deque[*mutexWaiter]
}

var _ osal.Mutex = (*MutexDef)(nil)

// CreateMutex initializes def in the unlocked state and returns it as
// the contract handle. Creating the same definition twice is a caller
// bug; the second call is ignored.
func CreateMutex(def *MutexDef) osal.Mutex {
	if def == nil {
		return nil
	}
	def.mu.Lock()
	defer def.mu.Unlock()
	if def.created {
		pkg.LogWarn(pkg.ComponentNative, "mutex created twice", "err", pkg.ErrAlreadyCreated)
		return def
	}
	def.created = true
	return def
}

// Lock acquires the mutex, blocking up to msec milliseconds. Re-locking
// by the owner increments the recursion depth. Ownership transfers to
// waiters in arrival order; a releasing owner hands the lock directly to
// the front of the queue, so later arrivals cannot barge past it.
func (m *MutexDef) Lock(msec uint32) bool {
	gid := goid.Get()

	m.mu.Lock()
	if !m.created {
		m.mu.Unlock()
		return false
	}
	if m.owner == gid {
		m.depth++
		m.mu.Unlock()
		return true
	}
	if m.owner == 0 {
		// Direct handoff on unlock means waiters never coexist with
		// an unlocked mutex.
		m.owner = gid
		m.depth = 1
		m.mu.Unlock()
		return true
	}
	if msec == osal.NoWait {
		m.mu.Unlock()
		return false
	}

	w := &mutexWaiter{gid: gid, grant: make(chan struct{})}
	m.waiters.PushBack(w)
	m.mu.Unlock()

	if msec == osal.WaitForever {
		<-w.grant
		return true
	}

	t := time.NewTimer(time.Duration(msec) * time.Millisecond)
	defer t.Stop()
	select {
	case <-w.grant:
		return true
	case <-t.C:
	}

	// Timed out, but the owner may have handed us the lock between the
	// timer firing and withdrawal. Keeping it counts as acquisition.
	m.mu.Lock()
	if m.owner == gid {
		m.mu.Unlock()
		return true
	}
	if idx := m.waiters.Index(func(x *mutexWaiter) bool { return x == w }); idx >= 0 {
		m.waiters.Remove(idx)
	}
	m.mu.Unlock()
	return false
}

// Unlock decrements the recursion depth; at zero the mutex is released
// and handed to the longest-waiting locker, if any. Returns false when
// the caller is not the owner or the mutex is already unlocked.
func (m *MutexDef) Unlock() bool {
	gid := goid.Get()

	m.mu.Lock()
	if !m.created || m.owner != gid {
		reason := pkg.ErrNotOwner
		if !m.created {
			reason = pkg.ErrNotCreated
		}
		pkg.LogDebug(pkg.ComponentNative, "unlock rejected", "err", reason)
		m.mu.Unlock()
		return false
	}
	m.depth--
	if m.depth > 0 {
		m.mu.Unlock()
		return true
	}
	if m.waiters.Len() > 0 {
		w := m.waiters.PopFront()
		m.owner = w.gid
		m.depth = 1
		close(w.grant)
	} else {
		m.owner = 0
	}
	m.mu.Unlock()
	return true
}
