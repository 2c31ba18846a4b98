// Package slab implements a fixed-block allocator over a caller-provided
// buffer.
//
// A [Pool] carves a contiguous byte buffer into equal-size blocks. The
// buffer is supplied by the caller at [Pool.Init] and the pool never
// allocates afterward, so a pool can manage memory that lives in static
// storage for the whole program. Allocation is O(1) from a free-index
// stack; free validates that the block belongs to the pool and is not
// already free, in time linear in the block count.
//
// The queue implementations in the OSAL bindings attach a pool to the
// queue definition's buffer at create time: each sent item is copied into
// a freshly allocated block, published, and the block is returned to the
// pool after the receiver copies it out.
//
// A Pool performs no internal locking. Callers that share a pool between
// goroutines or between task and interrupt context must serialize access
// themselves, as the queue implementations do.
package slab
