package sim

import (
	"sort"
	"sync"

	"github.com/gammazero/deque"
	"github.com/petermattis/goid"

	"github.com/ejohnso49/tinyusb/pkg"
)

// Kernel limits.
const (
	MaxTasks    = 16 // fixed task table size
	MaxPriority = 31 // highest task priority; higher values run first
	NumVectors  = 8  // interrupt vectors, numbered 0 through NumVectors-1
)

// Forever disables the timeout on a kernel wait operation.
const Forever = ^uint64(0)

// TaskState describes where a task is in its lifecycle.
type TaskState uint8

// Task states.
const (
	TaskReady    TaskState = iota // runnable, awaiting dispatch
	TaskRunning                   // on the CPU
	TaskBlocked                   // parked on a semaphore or mutex
	TaskSleeping                  // parked until a clock deadline
	TaskDone                      // body returned
)

// String returns a human-readable state name.
func (s TaskState) String() string {
	switch s {
	case TaskReady:
		return "ready"
	case TaskRunning:
		return "running"
	case TaskBlocked:
		return "blocked"
	case TaskSleeping:
		return "sleeping"
	case TaskDone:
		return "done"
	default:
		return "unknown"
	}
}

// Task is one simulated RTOS task.
type Task struct {
	k        *Kernel
	name     string
	gid      int64
	basePrio int
	effPrio  int
	state    TaskState
	resume   chan struct{}
	fn       func()

	deadline    uint64
	hasDeadline bool
	readySeq    uint64
	wakeOK      bool

	waitSem *Semaphore
	waitMux *Mutex
	owned   []*Mutex
}

// Name returns the task name.
func (t *Task) Name() string { return t.name }

// Priority returns the task's base priority.
func (t *Task) Priority() int { return t.basePrio }

// EffectivePriority returns the base priority plus any inherited boost.
func (t *Task) EffectivePriority() int {
	t.k.mu.Lock()
	defer t.k.mu.Unlock()
	return t.effPrio
}

// State returns the task's current lifecycle state.
func (t *Task) State() TaskState {
	t.k.mu.Lock()
	defer t.k.mu.Unlock()
	return t.state
}

// irqEntry is one scheduled interrupt.
type irqEntry struct {
	at  uint64
	vec int
	seq uint64 // arrival order, tiebreak for equal deadlines
	fn  func()
}

// Kernel is a deterministic, virtual-time RTOS scheduler. Exactly one
// task goroutine runs at a time; the clock advances only when no task
// is runnable. The zero value is not usable; call NewKernel.
type Kernel struct {
	mu       sync.Mutex
	tasks    []*Task
	current  *Task
	started  bool
	running  bool
	stopping bool
	isrDepth int
	now      uint64
	seq      uint64

	irqs    []irqEntry
	masked  [NumVectors]bool
	pending [NumVectors][]func()

	yield chan struct{}
}

// NewKernel returns an empty kernel with the clock at zero.
func NewKernel() *Kernel {
	return &Kernel{
		tasks: make([]*Task, 0, MaxTasks),
		yield: make(chan struct{}),
	}
}

// Now returns the current virtual time in milliseconds.
func (k *Kernel) Now() uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.now
}

// NewTask adds a task before the kernel runs; higher prio values run
// first. The body must block only through kernel operations, and should
// return when a blocking operation fails after Stop.
func (k *Kernel) NewTask(name string, prio int, fn func()) (*Task, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.started {
		return nil, pkg.ErrKernelRunning
	}
	if prio < 0 || prio > MaxPriority {
		return nil, pkg.ErrBadPriority
	}
	if len(k.tasks) >= MaxTasks {
		return nil, pkg.ErrTooManyTasks
	}
	t := &Task{
		k:        k,
		name:     name,
		basePrio: prio,
		effPrio:  prio,
		state:    TaskReady,
		resume:   make(chan struct{}),
		fn:       fn,
		readySeq: k.nextSeq(),
		wakeOK:   true,
		owned:    make([]*Mutex, 0, 4),
	}
	k.tasks = append(k.tasks, t)
	go t.run()
	return t, nil
}

// run executes the task body between the first dispatch and the final
// handback of the CPU.
func (t *Task) run() {
	t.gid = goid.Get()
	<-t.resume
	t.fn()

	k := t.k
	k.mu.Lock()
	t.state = TaskDone
	k.current = nil
	pkg.LogDebug(pkg.ComponentKernel, "task done", "task", t.name, "t", k.now)
	k.mu.Unlock()
	k.yield <- struct{}{}
}

// Run dispatches tasks until all are done, Stop drains them, or the
// system deadlocks. A finished kernel keeps its clock and task states
// for inspection and cannot be rerun with new tasks.
func (k *Kernel) Run() error {
	k.mu.Lock()
	if k.started {
		k.mu.Unlock()
		return pkg.ErrKernelRunning
	}
	k.started = true
	k.running = true
	pkg.LogDebug(pkg.ComponentKernel, "run", "tasks", len(k.tasks))

	for {
		if k.stopping {
			k.failParked()
		}
		next := k.pickReady()
		if next == nil {
			if k.allDone() {
				break
			}
			if !k.advanceTime() {
				now := k.now
				k.running = false
				k.mu.Unlock()
				pkg.LogError(pkg.ComponentKernel, "deadlock", "t", now, "err", pkg.ErrDeadlock)
				return pkg.ErrDeadlock
			}
			continue
		}
		next.state = TaskRunning
		k.current = next
		pkg.LogDebug(pkg.ComponentKernel, "dispatch", "task", next.name, "prio", next.effPrio, "t", k.now)
		k.mu.Unlock()
		next.resume <- struct{}{}
		<-k.yield
		k.mu.Lock()
	}
	k.running = false
	k.stopping = false
	k.mu.Unlock()
	return nil
}

// Stop requests shutdown: every parked task wakes with a failed result,
// later blocking operations fail immediately, and Run returns once all
// task bodies have returned. Safe from any context.
func (k *Kernel) Stop() {
	k.mu.Lock()
	k.stopping = true
	k.mu.Unlock()
}

// Sleep suspends the calling task until the clock reaches the current
// time plus ms. Sleep(0) yields to equal-priority tasks. Task context
// only.
func (k *Kernel) Sleep(ms uint64) {
	k.mu.Lock()
	t := k.mustTask()
	if k.stopping {
		k.mu.Unlock()
		return
	}
	pkg.LogDebug(pkg.ComponentKernel, "sleep", "task", t.name, "ms", ms, "t", k.now)
	k.park(t, TaskSleeping, k.now+ms, true)
}

// Yield moves the calling task to the back of its priority's ready
// order. Task context only.
func (k *Kernel) Yield() {
	k.mu.Lock()
	t := k.mustTask()
	t.state = TaskReady
	t.readySeq = k.nextSeq()
	k.current = nil
	k.mu.Unlock()
	k.yield <- struct{}{}
	<-t.resume
}

// At schedules fn to run in interrupt context on vector vec at the
// absolute virtual time atMS. A time at or before the present fires at
// the next scheduling point. Handlers due on a masked vector are
// deferred until the vector is unmasked.
func (k *Kernel) At(atMS uint64, vec int, fn func()) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if vec < 0 || vec >= NumVectors {
		return pkg.ErrBadVector
	}
	k.irqs = append(k.irqs, irqEntry{at: atMS, vec: vec, seq: k.nextSeq(), fn: fn})
	return nil
}

// Mask defers interrupt delivery on vec until Unmask.
func (k *Kernel) Mask(vec int) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if vec < 0 || vec >= NumVectors {
		return pkg.ErrBadVector
	}
	k.masked[vec] = true
	return nil
}

// Unmask reenables vec and delivers its deferred handlers in arrival
// order, in interrupt context, before returning. A handler that readies
// a higher-priority task preempts the calling task at delivery.
func (k *Kernel) Unmask(vec int) error {
	k.mu.Lock()
	if vec < 0 || vec >= NumVectors {
		k.mu.Unlock()
		return pkg.ErrBadVector
	}
	k.masked[vec] = false
	handlers := k.pending[vec]
	k.pending[vec] = nil
	if len(handlers) == 0 {
		k.mu.Unlock()
		return nil
	}
	pkg.LogDebug(pkg.ComponentKernel, "unmask delivery", "vec", vec, "count", len(handlers), "t", k.now)
	k.isrDepth++
	k.mu.Unlock()
	for _, fn := range handlers {
		fn()
	}
	k.mu.Lock()
	k.isrDepth--
	if t := k.taskContext(); t != nil {
		k.schedPoint(t)
		return nil
	}
	k.mu.Unlock()
	return nil
}

// nextSeq issues monotonic sequence numbers for FIFO tiebreaks. k.mu
// held.
func (k *Kernel) nextSeq() uint64 {
	k.seq++
	return k.seq
}

// pickReady returns the ready task with the highest effective priority,
// oldest first among equals, or nil. k.mu held.
func (k *Kernel) pickReady() *Task {
	var best *Task
	for _, t := range k.tasks {
		if t.state != TaskReady {
			continue
		}
		if best == nil || t.effPrio > best.effPrio ||
			(t.effPrio == best.effPrio && t.readySeq < best.readySeq) {
			best = t
		}
	}
	return best
}

// allDone reports whether every task body has returned. k.mu held.
func (k *Kernel) allDone() bool {
	for _, t := range k.tasks {
		if t.state != TaskDone {
			return false
		}
	}
	return true
}

// makeReady moves t to the ready set and detaches it from any wait
// queue bookkeeping. k.mu held.
func (k *Kernel) makeReady(t *Task) {
	t.state = TaskReady
	t.readySeq = k.nextSeq()
	t.hasDeadline = false
	t.waitSem = nil
	t.waitMux = nil
}

// park blocks the current task t in state st until a waker or the clock
// readies it, returning the wake result. Called with k.mu held; k.mu is
// released on return.
func (k *Kernel) park(t *Task, st TaskState, deadline uint64, timed bool) bool {
	t.state = st
	t.deadline = deadline
	t.hasDeadline = timed
	t.wakeOK = true
	k.current = nil
	k.mu.Unlock()
	k.yield <- struct{}{}
	<-t.resume
	k.mu.Lock()
	ok := t.wakeOK
	k.mu.Unlock()
	return ok
}

// schedPoint preempts t when a higher-priority task is ready. Called at
// the end of a state-changing operation with k.mu held; k.mu is
// released on return.
func (k *Kernel) schedPoint(t *Task) {
	if t == nil || k.current != t || k.isrDepth > 0 || k.stopping {
		k.mu.Unlock()
		return
	}
	if best := k.pickReady(); best != nil && best.effPrio > t.effPrio {
		pkg.LogDebug(pkg.ComponentKernel, "preempt", "task", t.name, "by", best.name, "t", k.now)
		t.state = TaskReady
		t.readySeq = k.nextSeq()
		k.current = nil
		k.mu.Unlock()
		k.yield <- struct{}{}
		<-t.resume
		return
	}
	k.mu.Unlock()
}

// taskContext returns the calling task, or nil when the caller is not
// the running task or is in interrupt context. k.mu held.
func (k *Kernel) taskContext() *Task {
	if k.isrDepth > 0 {
		return nil
	}
	t := k.current
	if t == nil || t.gid != goid.Get() {
		return nil
	}
	return t
}

// mustTask panics unless the caller is the running task outside
// interrupt context; blocking operations assert rather than misbehave.
// k.mu held on entry and on normal return, released before panicking.
func (k *Kernel) mustTask() *Task {
	if k.isrDepth > 0 {
		k.mu.Unlock()
		panic(pkg.ErrISRContext)
	}
	t := k.current
	if t == nil || t.gid != goid.Get() {
		k.mu.Unlock()
		panic(pkg.ErrNotTask)
	}
	return t
}

// advanceTime jumps the clock to the earliest pending deadline, firing
// due interrupts and expiring timed waits. Returns false when nothing
// is pending. k.mu held.
func (k *Kernel) advanceTime() bool {
	var next uint64
	found := false
	consider := func(at uint64) {
		if !found || at < next {
			next = at
			found = true
		}
	}
	for _, t := range k.tasks {
		if (t.state == TaskBlocked || t.state == TaskSleeping) && t.hasDeadline {
			consider(t.deadline)
		}
	}
	for _, irq := range k.irqs {
		consider(irq.at)
	}
	if !found {
		return false
	}
	if next > k.now {
		pkg.LogDebug(pkg.ComponentKernel, "clock", "from", k.now, "to", next)
		k.now = next
	}
	k.fireInterrupts()
	k.expireWaits()
	return true
}

// fireInterrupts delivers every interrupt due at or before the present,
// in deadline then arrival order. Handlers on masked vectors move to
// their vector's pending list instead. k.mu held; released around each
// handler.
func (k *Kernel) fireInterrupts() {
	var due []irqEntry
	rest := k.irqs[:0]
	for _, irq := range k.irqs {
		if irq.at <= k.now {
			due = append(due, irq)
		} else {
			rest = append(rest, irq)
		}
	}
	k.irqs = rest
	if len(due) == 0 {
		return
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	for _, irq := range due {
		if k.masked[irq.vec] {
			k.pending[irq.vec] = append(k.pending[irq.vec], irq.fn)
			continue
		}
		pkg.LogDebug(pkg.ComponentKernel, "irq", "vec", irq.vec, "t", k.now)
		k.isrDepth++
		k.mu.Unlock()
		irq.fn()
		k.mu.Lock()
		k.isrDepth--
	}
}

// expireWaits readies every timed wait whose deadline has arrived;
// blocked tasks wake with a failed result, sleepers with success. k.mu
// held.
func (k *Kernel) expireWaits() {
	for _, t := range k.tasks {
		if !t.hasDeadline || t.deadline > k.now {
			continue
		}
		switch t.state {
		case TaskSleeping:
			k.makeReady(t)
		case TaskBlocked:
			pkg.LogDebug(pkg.ComponentKernel, "wait timeout", "task", t.name, "t", k.now)
			k.cancelWait(t)
			t.wakeOK = false
			k.makeReady(t)
		}
	}
}

// failParked readies every parked task with a failed wake so bodies can
// observe shutdown and return. k.mu held.
func (k *Kernel) failParked() {
	for _, t := range k.tasks {
		switch t.state {
		case TaskBlocked:
			k.cancelWait(t)
			t.wakeOK = false
			k.makeReady(t)
		case TaskSleeping:
			k.makeReady(t)
		}
	}
}

// cancelWait removes t from whatever wait queue holds it and restores
// any priority boost its waiting conferred. k.mu held.
func (k *Kernel) cancelWait(t *Task) {
	if s := t.waitSem; s != nil {
		if i := s.waiters.Index(func(x *Task) bool { return x == t }); i >= 0 {
			s.waiters.Remove(i)
		}
		t.waitSem = nil
	}
	if m := t.waitMux; m != nil {
		if i := m.waiters.Index(func(x *Task) bool { return x == t }); i >= 0 {
			m.waiters.Remove(i)
		}
		t.waitMux = nil
		if m.owner != nil {
			k.recomputePriority(m.owner)
		}
	}
}

// recomputePriority recalculates t's effective priority from its base
// and the waiters of every mutex it owns, propagating along ownership
// chains. k.mu held.
func (k *Kernel) recomputePriority(t *Task) {
	for hop := 0; t != nil && hop < MaxTasks; hop++ {
		eff := t.basePrio
		for _, m := range t.owned {
			for i := 0; i < m.waiters.Len(); i++ {
				if w := m.waiters.At(i); w.effPrio > eff {
					eff = w.effPrio
				}
			}
		}
		if eff == t.effPrio {
			return
		}
		pkg.LogDebug(pkg.ComponentKernel, "priority change", "task", t.name, "eff", eff, "t", k.now)
		t.effPrio = eff
		if t.waitMux != nil {
			t = t.waitMux.owner
		} else {
			t = nil
		}
	}
}

// popBestWaiter removes and returns the highest effective priority task
// from a wait queue, oldest first among equals, or nil when the queue
// is empty. k.mu held.
func popBestWaiter(d *deque.Deque[*Task]) *Task {
	best := -1
	for i := 0; i < d.Len(); i++ {
		w := d.At(i)
		if best < 0 || w.effPrio > d.At(best).effPrio {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	return d.Remove(best)
}
