package simos

import (
	"github.com/ejohnso49/tinyusb/osal"
	"github.com/ejohnso49/tinyusb/sim"
)

// Interrupt vectors reserved for queue serialization, one per stack
// half.
const (
	DeviceVector = 0
	HostVector   = 1
)

// OS binds the abstraction layer to one simulated kernel. Definitions
// created through an OS are usable only from that kernel's tasks and
// interrupt handlers.
type OS struct {
	k *sim.Kernel
}

// New binds the abstraction layer to k.
func New(k *sim.Kernel) *OS {
	if k == nil {
		return nil
	}
	return &OS{k: k}
}

// Kernel returns the bound kernel.
func (o *OS) Kernel() *sim.Kernel { return o.k }

// Delay suspends the calling task for msec virtual milliseconds.
func (o *OS) Delay(msec uint32) {
	o.k.Sleep(uint64(msec))
}

// timeoutFor converts a contract timeout to kernel milliseconds.
func timeoutFor(msec uint32) uint64 {
	if msec == osal.WaitForever {
		return sim.Forever
	}
	return uint64(msec)
}
