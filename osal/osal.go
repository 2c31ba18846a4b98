package osal

// Timeout sentinels shared by all wait-style operations.
const (
	// WaitForever disables the timeout on a wait-style operation.
	WaitForever uint32 = 0xFFFFFFFF

	// NoWait requests the immediate outcome without blocking.
	NoWait uint32 = 0
)

// Role identifies which half of the USB stack a queue serves.
//
// Bindings that serialize interrupt access by masking a single USB
// interrupt vector use the role to select the device or host vector;
// all other bindings carry it for diagnostics only.
type Role uint8

// Queue roles.
const (
	RoleDevice Role = iota // Device stack queue
	RoleHost               // Host stack queue
)

// String returns a human-readable role name.
func (r Role) String() string {
	switch r {
	case RoleDevice:
		return "device"
	case RoleHost:
		return "host"
	default:
		return "unknown"
	}
}

// Semaphore is a binary semaphore: a count saturated at 1, created empty.
// It models a single unconsumed signal from a producer to one waiting task.
type Semaphore interface {
	// Post raises the count toward 1, saturating. It wakes at most one
	// waiter and never blocks. Safe from task and interrupt context;
	// inISR is advisory. Returns false only on a corrupt handle.
	Post(inISR bool) bool

	// Wait consumes the signal. If the count is positive it decrements
	// and returns true immediately; otherwise the calling task blocks
	// until a post arrives (true) or msec milliseconds elapse (false).
	// Task context only.
	Wait(msec uint32) bool

	// Reset sets the count to 0 without waking any waiter. Task context
	// only.
	Reset()
}

// Mutex is a recursive mutual-exclusion lock with priority inheritance
// where the binding's scheduler supports it. Created unlocked. All
// operations are task context only.
type Mutex interface {
	// Lock acquires the mutex or times out after msec milliseconds.
	// A lock by the current owner increments the recursion depth and
	// returns true immediately.
	Lock(msec uint32) bool

	// Unlock decrements the recursion depth; at zero it releases the
	// mutex and wakes at most one blocked locker. Returns false when the
	// caller is not the owner or the mutex is already unlocked.
	Unlock() bool
}

// Queue is a fixed-depth FIFO of fixed-size plain-data items with one
// writer category (tasks or interrupt handlers) and one reader task.
// Item size and depth are fixed by the binding's queue definition.
type Queue interface {
	// Send copies one item from src into the queue. It never blocks and
	// returns false when the queue is full; no partial copy is ever
	// observable. Safe from task and interrupt context; inISR is
	// advisory. src must hold at least one full item.
	Send(src []byte, inISR bool) bool

	// Receive blocks the calling task until an item is available, then
	// copies it into dst in arrival order. Task context only. Returns
	// false only on a corrupt handle or undersized dst.
	Receive(dst []byte) bool

	// Empty reports whether the queue held no items at the sampling
	// instant. A coarse hint, not a synchronization primitive.
	Empty() bool
}
