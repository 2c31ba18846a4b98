package native

import (
	"sync"

	"github.com/ejohnso49/tinyusb/osal"
	"github.com/ejohnso49/tinyusb/osal/slab"
	"github.com/ejohnso49/tinyusb/pkg"
)

// QueueDef holds the description and runtime state for one queue.
// Role, ItemSize, Depth, and Buffer describe the queue and must be set
// before CreateQueue; NewQueueDef fills them in with a freshly allocated
// buffer for callers that do not manage storage themselves.
type QueueDef struct {
	Role     osal.Role // owning stack half, carried for diagnostics
	ItemSize int       // item size in bytes
	Depth    int       // capacity in items
	Buffer   []byte    // backing storage, ItemSize*Depth bytes

	mu      sync.Mutex
	pool    slab.Pool
	ring    [][]byte // published blocks in arrival order
	head    int
	count   int
	avail   chan struct{} // one-slot consumer wakeup
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

// CreateQueue attaches the fixed-block allocator and empty FIFO to def
// and returns def as the contract handle. Returns nil when the allocator
// cannot be initialized, which callers must treat as fatal.
func CreateQueue(def *QueueDef) osal.Queue {
	if def == nil {
		return nil
	}
	def.mu.Lock()
	defer def.mu.Unlock()
	if def.created {
		pkg.LogWarn(pkg.ComponentQueue, "queue created twice", "role", def.Role, "err", pkg.ErrAlreadyCreated)
		return def
	}
	if err := def.pool.Init(def.Buffer, def.ItemSize, def.Depth); err != nil {
		pkg.LogError(pkg.ComponentQueue, "queue allocator init failed",
			"role", def.Role, "item_size", def.ItemSize, "depth", def.Depth, "err", err)
		return nil
	}
	def.ring = make([][]byte, def.Depth)
	def.avail = make(chan struct{}, 1)
	def.created = true
	pkg.LogDebug(pkg.ComponentQueue, "queue created",
		"role", def.Role, "item_size", def.ItemSize, "depth", def.Depth)
	return def
}

// Send copies one item from src into a freshly allocated block and
// publishes it at the FIFO tail. Returns false when the queue is full or
// src holds less than one item; nothing is copied on failure. The ISR
// hint is ignored; goroutine context is uniform.
func (q *QueueDef) Send(src []byte, _ bool) bool {
	q.mu.Lock()
	if !q.created || len(src) < q.ItemSize {
		q.mu.Unlock()
		return false
	}
	blk := q.pool.Alloc()
	if blk == nil {
		q.mu.Unlock()
		return false
	}
	copy(blk, src[:q.ItemSize])
	q.ring[(q.head+q.count)%q.Depth] = blk
	q.count++
	q.mu.Unlock()

	select {
	case q.avail <- struct{}{}:
	default:
	}
	return true
}

// Receive blocks until an item is available, copies it into dst in
// arrival order, and recycles its block. The queue expects a single
// consumer; with several, a wakeup can land on either and the loser
// parks again.
func (q *QueueDef) Receive(dst []byte) bool {
	for {
		q.mu.Lock()
		if !q.created || len(dst) < q.ItemSize {
			q.mu.Unlock()
			return false
		}
		if q.count > 0 {
			blk := q.ring[q.head]
			q.ring[q.head] = nil
			q.head = (q.head + 1) % q.Depth
			q.count--
			copy(dst[:q.ItemSize], blk)
			if err := q.pool.Free(blk); err != nil {
				pkg.LogError(pkg.ComponentQueue, "block free failed", "role", q.Role, "err", err)
			}
			q.mu.Unlock()
			return true
		}
		q.mu.Unlock()
		<-q.avail
	}
}

// Empty reports whether the queue held no items at the sampling instant.
func (q *QueueDef) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count == 0
}
