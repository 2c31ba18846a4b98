package native

import (
	"testing"
	"time"

	"github.com/ejohnso49/tinyusb/osal"
)

func TestSemaphore_PostIdempotent(t *testing.T) {
	var def SemaphoreDef
	sem := CreateSemaphore(&def)
	if sem == nil {
		t.Fatal("CreateSemaphore() = nil")
	}

	for i := 0; i < 3; i++ {
		if !sem.Post(false) {
			t.Fatalf("Post() %d = false", i)
		}
	}

	if !sem.Wait(osal.NoWait) {
		t.Error("Wait() = false after posts, want true")
	}
	if sem.Wait(osal.NoWait) {
		t.Error("Wait() = true on drained semaphore, want false")
	}
}

func TestSemaphore_ResetThenWait(t *testing.T) {
	var def SemaphoreDef
	sem := CreateSemaphore(&def)

	sem.Post(false)
	sem.Reset()
	if sem.Wait(osal.NoWait) {
		t.Error("Wait() = true after Reset(), want false")
	}
}

func TestSemaphore_WaitTimeout(t *testing.T) {
	var def SemaphoreDef
	sem := CreateSemaphore(&def)

	start := time.Now()
	got := sem.Wait(50)
	elapsed := time.Since(start)

	if got {
		t.Fatal("Wait(50) = true with no post, want false")
	}
	if elapsed < 50*time.Millisecond {
		t.Errorf("Wait(50) returned after %v, want >= 50ms", elapsed)
	}
	if sem.Wait(osal.NoWait) {
		t.Error("semaphore signaled after timeout, want empty")
	}
}

func TestSemaphore_SignalFromISR(t *testing.T) {
	var def SemaphoreDef
	sem := CreateSemaphore(&def)

	go func() {
		time.Sleep(5 * time.Millisecond)
		sem.Post(true)
	}()

	start := time.Now()
	got := sem.Wait(1000)
	elapsed := time.Since(start)

	if !got {
		t.Fatal("Wait(1000) = false, want true from posted signal")
	}
	if elapsed < 5*time.Millisecond {
		t.Errorf("Wait() returned after %v, want >= 5ms", elapsed)
	}
	if elapsed > 900*time.Millisecond {
		t.Errorf("Wait() returned after %v, timeout path suspected", elapsed)
	}
}

func TestSemaphore_PostBeforeWaitNotLost(t *testing.T) {
	var def SemaphoreDef
	sem := CreateSemaphore(&def)

	sem.Post(true)

	done := make(chan bool, 1)
	go func() {
		done <- sem.Wait(osal.WaitForever)
	}()

	select {
	case got := <-done:
		if !got {
			t.Error("Wait() = false, want true from earlier post")
		}
	case <-time.After(time.Second):
		t.Fatal("earlier post was lost; Wait() still blocked")
	}
}

func TestSemaphore_ResetDoesNotWakeWaiter(t *testing.T) {
	var def SemaphoreDef
	sem := CreateSemaphore(&def)

	done := make(chan bool, 1)
	started := make(chan struct{})
	go func() {
		close(started)
		done <- sem.Wait(osal.WaitForever)
	}()
	<-started
	time.Sleep(10 * time.Millisecond) // let the waiter park

	sem.Reset()
	select {
	case <-done:
		t.Fatal("Reset() woke a parked waiter")
	case <-time.After(30 * time.Millisecond):
	}

	sem.Post(false)
	select {
	case got := <-done:
		if !got {
			t.Error("Wait() = false after Post(), want true")
		}
	case <-time.After(time.Second):
		t.Fatal("Post() did not wake the waiter")
	}
}

func TestSemaphore_Uncreated(t *testing.T) {
	var def SemaphoreDef

	if def.Post(false) {
		t.Error("Post() on uncreated definition = true")
	}
	if def.Wait(osal.NoWait) {
		t.Error("Wait() on uncreated definition = true")
	}
	def.Reset() // must not panic
}

func TestCreateSemaphore_Twice(t *testing.T) {
	var def SemaphoreDef
	first := CreateSemaphore(&def)
	second := CreateSemaphore(&def)

	if second != first {
		t.Error("second create returned a different handle")
	}
	first.Post(false)
	if !second.Wait(osal.NoWait) {
		t.Error("handle unusable after duplicate create")
	}
}

func TestCreateSemaphore_Nil(t *testing.T) {
	if sem := CreateSemaphore(nil); sem != nil {
		t.Error("CreateSemaphore(nil) != nil")
	}
}

func BenchmarkSemaphorePostWait(b *testing.B) {
	var def SemaphoreDef
	sem := CreateSemaphore(&def)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sem.Post(false)
		sem.Wait(osal.NoWait)
	}
}
