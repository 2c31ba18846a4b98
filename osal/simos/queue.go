package simos

import (
	"github.com/ejohnso49/tinyusb/osal"
	"github.com/ejohnso49/tinyusb/osal/slab"
	"github.com/ejohnso49/tinyusb/pkg"
	"github.com/ejohnso49/tinyusb/sim"
)

// QueueDef holds the description and runtime state for one queue.
// Role, ItemSize, Depth, and Buffer describe the queue and must be set
// before CreateQueue; NewQueueDef fills them in with a freshly
// allocated buffer for callers that do not manage storage themselves.
//
// The role selects the interrupt vector that serializes the queue:
// [DeviceVector] for [osal.RoleDevice] and [HostVector] for
// [osal.RoleHost].
type QueueDef struct {
	Role     osal.Role // owning stack half, selects the vector
	ItemSize int       // item size in bytes
	Depth    int       // capacity in items
	Buffer   []byte    // backing storage, ItemSize*Depth bytes

	o       *OS
	pool    slab.Pool
	ring    [][]byte // published blocks in arrival order
	head    int
	count   int
	items   *sim.Semaphore // counts published items, bounded at Depth
	created bool
}

var _ osal.Queue = (*QueueDef)(nil)

// NewQueueDef declares a queue definition together with its backing
// buffer in one step.
func NewQueueDef(role osal.Role, depth, itemSize int) *QueueDef {
	def := &QueueDef{Role: role, ItemSize: itemSize, Depth: depth}
	if depth > 0 && itemSize > 0 {
		def.Buffer = make([]byte, itemSize*depth)
	}
	return def
}

// CreateQueue attaches the fixed-block allocator, empty FIFO, and item
// semaphore to def and returns def as the contract handle. Returns nil
// when the allocator cannot be initialized, which callers must treat as
// fatal.
func (o *OS) CreateQueue(def *QueueDef) osal.Queue {
	if def == nil {
		return nil
	}
	if def.created {
		pkg.LogWarn(pkg.ComponentSimOS, "queue created twice", "role", def.Role, "err", pkg.ErrAlreadyCreated)
		return def
	}
	if err := def.pool.Init(def.Buffer, def.ItemSize, def.Depth); err != nil {
		pkg.LogError(pkg.ComponentSimOS, "queue allocator init failed",
			"role", def.Role, "item_size", def.ItemSize, "depth", def.Depth, "err", err)
		return nil
	}
	def.o = o
	def.ring = make([][]byte, def.Depth)
	def.items = sim.NewSemaphore(o.k, 0, def.Depth)
	def.created = true
	pkg.LogDebug(pkg.ComponentSimOS, "queue created",
		"role", def.Role, "item_size", def.ItemSize, "depth", def.Depth, "vector", def.vector())
	return def
}

// vector returns the interrupt vector serializing this queue.
func (q *QueueDef) vector() int {
	if q.Role == osal.RoleHost {
		return HostVector
	}
	return DeviceVector
}

// Send copies one item from src into a freshly allocated block and
// publishes it at the FIFO tail. Returns false when the queue is full
// or src holds less than one item; nothing is copied on failure. A
// task-context send masks the queue's vector around the update so an
// interrupt send on the same role cannot interleave. Handlers already
// run whole, so an ISR send skips the mask.
func (q *QueueDef) Send(src []byte, inISR bool) bool {
	if !q.created || len(src) < q.ItemSize {
		return false
	}
	vec := q.vector()
	if !inISR {
		_ = q.o.k.Mask(vec) // vec is always in range
	}
	blk := q.pool.Alloc()
	if blk == nil {
		if !inISR {
			_ = q.o.k.Unmask(vec)
		}
		return false
	}
	copy(blk, src[:q.ItemSize])
	q.ring[(q.head+q.count)%q.Depth] = blk
	q.count++
	if !inISR {
		_ = q.o.k.Unmask(vec)
	}
	q.items.Give()
	return true
}

// Receive parks the calling task until an item is available, copies it
// into dst in arrival order, and recycles its block. Returns false on
// an undersized dst or when the kernel is shutting down.
func (q *QueueDef) Receive(dst []byte) bool {
	if !q.created || len(dst) < q.ItemSize {
		return false
	}
	if !q.items.Take(sim.Forever) {
		return false
	}
	vec := q.vector()
	_ = q.o.k.Mask(vec) // vec is always in range
	blk := q.ring[q.head]
	q.ring[q.head] = nil
	q.head = (q.head + 1) % q.Depth
	q.count--
	copy(dst[:q.ItemSize], blk)
	if err := q.pool.Free(blk); err != nil {
		pkg.LogError(pkg.ComponentSimOS, "block free failed", "role", q.Role, "err", err)
	}
	_ = q.o.k.Unmask(vec)
	return true
}

// Empty reports whether the queue held no items at the sampling
// instant.
func (q *QueueDef) Empty() bool {
	return q.count == 0
}
