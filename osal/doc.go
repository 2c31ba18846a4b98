// Package osal defines the OS Abstraction Layer contract for the tinyusb
// USB stack.
//
// The OSAL provides an RTOS-agnostic vocabulary of synchronization and
// inter-task communication primitives between the USB stack and the
// underlying operating system. Binding authors implement this contract on
// top of a specific scheduler; the USB stack is written against it and
// assumes its guarantees exactly.
//
// # Primitives
//
// The contract is four independent primitives:
//
//   - Task delay: coarse millisecond sleep of the calling task
//   - [Semaphore]: binary signal from a producer (often an interrupt
//     handler) to a single waiting task
//   - [Mutex]: recursive mutual exclusion with priority inheritance,
//     task context only
//   - [Queue]: fixed-depth, fixed-item-size FIFO of plain-data items
//     between tasks and interrupt handlers
//
// There is no control flow between primitives inside the OSAL; composition
// happens in the USB stack above it.
//
// # Timeouts
//
// Wait-style operations take a timeout in milliseconds. Two sentinel values
// are shared by every binding: [WaitForever] disables the timeout, and
// [NoWait] requests the immediate outcome without blocking. A timed-out
// wait leaves the primitive unchanged.
//
// # Interrupt Context
//
// Semaphore post and queue send are callable from both task and interrupt
// context; every wait-style operation, mutex operation, and create is task
// context only. The inISR argument on post and send is advisory: bindings
// on kernels that detect execution context automatically ignore it, while
// bindings with distinct ISR entry points use it to choose the correct one.
//
// # Implementing a Binding
//
// A binding supplies a definition type per primitive holding all backing
// storage, plus create functions that initialize a definition and return
// it as the contract interface. The handle a caller holds is the
// definition's address, so definitions can live in static storage and
// outlive any use of the handle:
//
//	var wakeup native.SemaphoreDef
//
//	func main() {
//	    sem := native.CreateSemaphore(&wakeup)
//	    go func() { sem.Post(true) }()
//	    sem.Wait(osal.WaitForever)
//	}
//
// Two bindings ship with this module:
// [github.com/ejohnso49/tinyusb/osal/native] maps the contract onto the Go
// runtime, and [github.com/ejohnso49/tinyusb/osal/simos] maps it onto the
// deterministic RTOS simulator in [github.com/ejohnso49/tinyusb/sim],
// which provides fixed task priorities, priority inheritance, and
// exact-time scheduling for tests.
package osal
