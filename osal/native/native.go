package native

import (
	"time"
)

// Delay suspends the calling goroutine for at least msec milliseconds.
// Not intended for interrupt-style producers; a goroutine modeling an
// ISR should complete without suspending.
func Delay(msec uint32) {
	time.Sleep(time.Duration(msec) * time.Millisecond)
}
