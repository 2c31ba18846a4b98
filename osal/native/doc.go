// Package native binds the OSAL contract onto the native Go runtime.
//
// Tasks are goroutines, waits park on channels, and delays use the
// runtime timer. This is the binding an application uses when the USB
// stack runs as an ordinary Go program; no kernel object or setup is
// required beyond creating each primitive once.
//
// # Architecture
//
// Each primitive is backed by a definition struct that the caller
// declares wherever its storage should live and passes to the matching
// create function exactly once. The returned contract handle is the
// definition itself:
//
//	var (
//	    wakeup native.SemaphoreDef
//	    events = native.NewQueueDef(osal.RoleDevice, 16, 4)
//	)
//
//	sem := native.CreateSemaphore(&wakeup)
//	q := native.CreateQueue(events)
//
// The semaphore is a one-slot channel whose buffered token is the binary
// count: posts saturate with a non-blocking send, waits consume with a
// (possibly timed) receive, and reset drains without waking anyone. The
// mutex identifies its owner by goroutine id, supports recursive locking,
// and hands the lock directly to the longest-waiting goroutine on
// release, so acquisition is strictly first-in first-out. The queue
// couples a fixed-block allocator over the definition's buffer with a
// ring of published blocks; send allocates, copies, then publishes, and
// receive parks on a one-slot wakeup channel while the ring is empty.
//
// # Interrupt Context
//
// Goroutine context is uniform, so the advisory inISR argument on post
// and send is ignored, as on kernels that detect execution context
// automatically. Producers that model interrupt handlers are ordinary
// goroutines here.
//
// # Priority Inheritance
//
// The Go scheduler exposes no task priorities, so the mutex cannot
// express priority inheritance; strict FIFO handoff is the entire
// fairness story in this binding. Code that must exercise inheritance
// semantics runs against [github.com/ejohnso49/tinyusb/osal/simos],
// whose scheduler implements it.
package native
