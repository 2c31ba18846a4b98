package native

import (
	"time"

	"github.com/ejohnso49/tinyusb/osal"
	"github.com/ejohnso49/tinyusb/pkg"
)

// SemaphoreDef holds the backing storage for one binary semaphore.
// Declare it where its storage should live and create it exactly once.
type SemaphoreDef struct {
	// signal carries the binary count as a single buffered token.
	// A nil channel marks a never-created definition.
	signal chan struct{}
}

var _ osal.Semaphore = (*SemaphoreDef)(nil)

// CreateSemaphore initializes def with a count of zero and returns it as
// the contract handle. Creating the same definition twice is a caller
// bug; the second call is ignored.
func CreateSemaphore(def *SemaphoreDef) osal.Semaphore {
	if def == nil {
		return nil
	}
	if def.signal != nil {
		pkg.LogWarn(pkg.ComponentNative, "semaphore created twice", "err", pkg.ErrAlreadyCreated)
		return def
	}
	def.signal = make(chan struct{}, 1)
	return def
}

// Post raises the count toward 1, waking at most one waiter. Posts on an
// already-signaled semaphore saturate. The ISR hint is ignored; goroutine
// context is uniform.
func (s *SemaphoreDef) Post(_ bool) bool {
	if s.signal == nil {
		return false
	}
	select {
	case s.signal <- struct{}{}:
	default:
		// Already signaled.
	}
	return true
}

// Wait consumes the signal, blocking up to msec milliseconds.
func (s *SemaphoreDef) Wait(msec uint32) bool {
	if s.signal == nil {
		return false
	}
	select {
	case <-s.signal:
		return true
	default:
	}
	if msec == osal.NoWait {
		return false
	}
	if msec == osal.WaitForever {
		<-s.signal
		return true
	}
	t := time.NewTimer(time.Duration(msec) * time.Millisecond)
	defer t.Stop()
	select {
	case <-s.signal:
		return true
	case <-t.C:
		return false
	}
}

// Reset sets the count to zero. A waiter already parked stays parked;
// only the unconsumed token is discarded.
func (s *SemaphoreDef) Reset() {
	if s.signal == nil {
		return
	}
	select {
	case <-s.signal:
	default:
	}
}
