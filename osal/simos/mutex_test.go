package simos

import (
	"fmt"
	"testing"

	"github.com/ejohnso49/tinyusb/osal"
	"github.com/ejohnso49/tinyusb/sim"
)

func TestMutex_RecursionWithSecondTask(t *testing.T) {
	k := sim.NewKernel()
	rtos := New(k)
	var def MutexDef
	m := rtos.CreateMutex(&def)
	var r1, r2, r3 bool
	k.NewTask("owner", 6, func() {
		if !m.Lock(osal.WaitForever) || !m.Lock(osal.WaitForever) {
			t.Error("owner Lock = false, want true")
		}
		k.Sleep(4)
		if !m.Unlock() {
			t.Error("first Unlock = false, want true")
		}
		k.Sleep(4)
		if !m.Unlock() {
			t.Error("second Unlock = false, want true")
		}
	})
	k.NewTask("prober", 2, func() {
		k.Sleep(1)
		r1 = m.Lock(osal.NoWait) // depth 2
		k.Sleep(4)
		r2 = m.Lock(osal.NoWait) // depth 1 after one unlock
		k.Sleep(4)
		r3 = m.Lock(osal.NoWait) // fully released
		if r3 {
			m.Unlock()
		}
	})
	if err := k.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if r1 || r2 {
		t.Fatalf("probe under recursion = %v, %v, want false, false", r1, r2)
	}
	if !r3 {
		t.Fatal("probe after full release = false, want true")
	}
}

func TestMutex_UnlockByNonOwner(t *testing.T) {
	k := sim.NewKernel()
	rtos := New(k)
	var def MutexDef
	m := rtos.CreateMutex(&def)
	k.NewTask("owner", 6, func() {
		m.Lock(osal.WaitForever)
		k.Sleep(5)
		if !m.Unlock() {
			t.Error("owner Unlock = false, want true")
		}
	})
	k.NewTask("thief", 4, func() {
		if m.Unlock() {
			t.Error("non-owner Unlock = true, want false")
		}
	})
	if err := k.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
}

func TestMutex_LockTimeout(t *testing.T) {
	k := sim.NewKernel()
	rtos := New(k)
	var def MutexDef
	m := rtos.CreateMutex(&def)
	var ok bool
	var failed uint64
	k.NewTask("holder", 6, func() {
		m.Lock(osal.WaitForever)
		k.Sleep(20)
		m.Unlock()
	})
	k.NewTask("waiter", 4, func() {
		ok = m.Lock(7)
		failed = k.Now()
	})
	if err := k.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if ok {
		t.Fatal("Lock(7) on a held mutex = true, want false")
	}
	if failed != 7 {
		t.Fatalf("timed out at t=%d, want 7", failed)
	}
}

// A low-priority holder must keep running ahead of an unrelated
// middle-priority task while a high-priority task waits on its mutex.
func TestMutex_PriorityInheritanceScenario(t *testing.T) {
	k := sim.NewKernel()
	rtos := New(k)
	var def MutexDef
	m := rtos.CreateMutex(&def)
	var events []string
	k.NewTask("low", 2, func() {
		m.Lock(osal.WaitForever)
		events = append(events, "low:locked")
		k.Sleep(2)
		events = append(events, "low:critical")
		m.Unlock()
		events = append(events, "low:done")
	})
	k.NewTask("high", 8, func() {
		k.Sleep(2)
		events = append(events, "high:wants")
		if m.Lock(osal.WaitForever) {
			events = append(events, "high:locked")
			m.Unlock()
		}
	})
	k.NewTask("middle", 5, func() {
		k.Sleep(2)
		events = append(events, "middle:run")
	})
	if err := k.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	want := []string{
		"low:locked", "high:wants", "low:critical",
		"high:locked", "middle:run", "low:done",
	}
	if fmt.Sprint(events) != fmt.Sprint(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
}

func TestMutex_Uncreated(t *testing.T) {
	var def MutexDef
	if def.Lock(osal.NoWait) {
		t.Error("Lock on uncreated def = true, want false")
	}
	if def.Unlock() {
		t.Error("Unlock on uncreated def = true, want false")
	}
}

func TestMutex_CreateTwice(t *testing.T) {
	k := sim.NewKernel()
	rtos := New(k)
	var def MutexDef
	if rtos.CreateMutex(&def) != rtos.CreateMutex(&def) {
		t.Fatal("second create returned a different handle")
	}
}

func TestMutex_CreateNil(t *testing.T) {
	k := sim.NewKernel()
	if m := New(k).CreateMutex(nil); m != nil {
		t.Fatal("CreateMutex(nil) != nil")
	}
}
