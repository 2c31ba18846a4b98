package simos

import (
	"github.com/ejohnso49/tinyusb/osal"
	"github.com/ejohnso49/tinyusb/pkg"
	"github.com/ejohnso49/tinyusb/sim"
)

// MutexDef holds the backing storage for one recursive mutex. The
// kernel tracks ownership by task, boosts a contended holder to its
// highest waiter's priority, and hands the lock to the best waiter on
// release.
type MutexDef struct {
	// m is the kernel-side mutex. Nil marks a never-created definition.
	m *sim.Mutex
}

var _ osal.Mutex = (*MutexDef)(nil)

// CreateMutex initializes def in the unlocked state and returns it as
// the contract handle. Creating the same definition twice is a caller
// bug; the second call is ignored.
func (o *OS) CreateMutex(def *MutexDef) osal.Mutex {
	if def == nil {
		return nil
	}
	if def.m != nil {
		pkg.LogWarn(pkg.ComponentSimOS, "mutex created twice", "err", pkg.ErrAlreadyCreated)
		return def
	}
	def.m = sim.NewMutex(o.k)
	return def
}

// Lock acquires the mutex, parking the calling task for up to msec
// virtual milliseconds. Re-locking by the owning task increments the
// recursion depth.
func (m *MutexDef) Lock(msec uint32) bool {
	if m.m == nil {
		return false
	}
	return m.m.Lock(timeoutFor(msec))
}

// Unlock decrements the recursion depth; at zero the mutex transfers to
// the highest-priority waiter. Returns false when the calling task is
// not the owner or the mutex is already unlocked.
func (m *MutexDef) Unlock() bool {
	if m.m == nil {
		pkg.LogDebug(pkg.ComponentSimOS, "unlock rejected", "err", pkg.ErrNotCreated)
		return false
	}
	return m.m.Unlock()
}
