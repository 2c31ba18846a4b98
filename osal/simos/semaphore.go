package simos

import (
	"github.com/ejohnso49/tinyusb/osal"
	"github.com/ejohnso49/tinyusb/pkg"
	"github.com/ejohnso49/tinyusb/sim"
)

// SemaphoreDef holds the backing storage for one binary semaphore.
// Declare it where its storage should live and create it exactly once.
type SemaphoreDef struct {
	// sem is the kernel-side semaphore, bounded at one token.
	// Nil marks a never-created definition.
	sem *sim.Semaphore
}

var _ osal.Semaphore = (*SemaphoreDef)(nil)

// CreateSemaphore initializes def with a count of zero and returns it
// as the contract handle. Creating the same definition twice is a
// caller bug; the second call is ignored.
func (o *OS) CreateSemaphore(def *SemaphoreDef) osal.Semaphore {
	if def == nil {
		return nil
	}
	if def.sem != nil {
		pkg.LogWarn(pkg.ComponentSimOS, "semaphore created twice", "err", pkg.ErrAlreadyCreated)
		return def
	}
	def.sem = sim.NewSemaphore(o.k, 0, 1)
	return def
}

// Post raises the count toward 1, waking at most one waiter. Posts on
// an already-signaled semaphore saturate. The ISR hint is ignored; the
// kernel resolves its own context and preempts the caller when the
// woken task outranks it.
func (s *SemaphoreDef) Post(_ bool) bool {
	if s.sem == nil {
		return false
	}
	s.sem.Give()
	return true
}

// Wait consumes the signal, parking the calling task for up to msec
// virtual milliseconds.
func (s *SemaphoreDef) Wait(msec uint32) bool {
	if s.sem == nil {
		return false
	}
	return s.sem.Take(timeoutFor(msec))
}

// Reset sets the count to zero. A waiter already parked stays parked;
// only the unconsumed token is discarded.
func (s *SemaphoreDef) Reset() {
	if s.sem == nil {
		return
	}
	s.sem.Reset()
}
