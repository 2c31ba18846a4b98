// Package sim implements a deterministic RTOS simulator for exercising
// OSAL bindings under controlled scheduling.
//
// The simulator provides what the native Go runtime cannot: fixed task
// priorities, priority-inheriting mutexes, interrupt handlers with
// maskable vectors, and a virtual millisecond clock that makes every
// timeout and interrupt fire at an exact, repeatable instant. The OSAL
// binding in [github.com/ejohnso49/tinyusb/osal/simos] maps the contract
// onto this kernel; tests use the kernel directly when they need to
// observe scheduling order or exact wake times.
//
// # Execution Model
//
// Tasks are goroutines, but the kernel gates them so that exactly one
// runs at a time, as on a single-core RTOS. The scheduler always runs
// the ready task with the highest effective priority, first-in first-out
// among equals. Context switches happen only at kernel operations: a
// task runs undisturbed until it sleeps, blocks, yields, or performs an
// operation that readies a higher-priority task, at which point it is
// preempted before the operation returns.
//
// Tasks must block only through kernel operations. A task that parks on
// a bare channel stalls the whole simulation, because the kernel still
// considers it running.
//
// # Virtual Time
//
// The clock starts at zero and advances only when no task is runnable,
// jumping directly to the earliest pending deadline: a sleep expiry, a
// wait timeout, or a scheduled interrupt. Simulated time is therefore
// exact; a task that calls Sleep(5) resumes at [Kernel.Now] of exactly 5
// regardless of wall-clock load. When no task is runnable and no
// deadline is pending, [Kernel.Run] fails with a deadlock error rather
// than hang.
//
// # Interrupts
//
// [Kernel.At] schedules a handler to run at an absolute virtual time on
// one of [NumVectors] interrupt vectors. Handlers run in interrupt
// context between task steps: blocking operations panic there, while
// [Semaphore.Give] and other non-blocking operations are safe, mirroring
// the OSAL interrupt-safety rules. [Kernel.Mask] defers a vector's due
// handlers until [Kernel.Unmask] delivers them in arrival order, which
// is how the queue binding serializes interrupt access per USB role.
//
// # Priorities
//
// Priorities range from 0 to [MaxPriority]; higher values run first. A
// [Mutex] owner inherits the highest effective priority among its
// waiters, transitively across ownership chains, until it releases the
// lock. [Semaphore] wakes the highest-priority waiter first.
//
// # Example
//
//	k := sim.NewKernel()
//	sem := sim.NewSemaphore(k, 0, 1)
//
//	k.NewTask("waiter", 4, func() {
//	    if sem.Take(1000) {
//	        // woken at exactly t=5
//	    }
//	})
//	k.At(5, 0, func() { sem.Give() })
//
//	if err := k.Run(); err != nil {
//	    // deadlock or lifecycle misuse
//	}
package sim
