// Package simos binds the abstraction layer to the deterministic kernel
// in [github.com/ejohnso49/tinyusb/sim].
//
// Where the native binding leans on the Go runtime, this binding runs
// entirely inside a simulated RTOS: waits park the calling task on the
// kernel's virtual clock, the mutex inherits priority, and queue sends
// from interrupt handlers are serialized by masking the queue's vector.
// Tests use it to pin down timing-sensitive behavior that wall-clock
// tests can only approximate.
//
// # Binding
//
// An [OS] wraps one [sim.Kernel]. Definitions are created before the
// kernel runs and used from its tasks and interrupt handlers:
//
//	k := sim.NewKernel()
//	rtos := simos.New(k)
//
//	var wakeup simos.SemaphoreDef
//	sem := rtos.CreateSemaphore(&wakeup)
//
//	k.NewTask("service", 4, func() {
//		for sem.Wait(osal.WaitForever) {
//			// handle one event
//		}
//	})
//
// # Interrupt Masking
//
// Each queue belongs to an [osal.Role], and each role owns one
// interrupt vector: [DeviceVector] or [HostVector]. A task-context send
// masks that vector around the queue update, so an interrupt send on
// the same role observes the state either before or after the update,
// never the middle. Schedule interrupt producers on their queue's
// vector for this to hold.
//
// # Priority Inheritance
//
// [MutexDef] maps to [sim.Mutex], which raises a holder to its highest
// waiter's effective priority, transitively across ownership chains.
// The inheritance scenarios the native binding cannot express are
// covered against this binding instead.
package simos
