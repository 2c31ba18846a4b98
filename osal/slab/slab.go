package slab

import (
	"github.com/ejohnso49/tinyusb/pkg"
)

// Pool is a fixed-block allocator over a caller-provided buffer.
// The zero value is unusable until Init succeeds.
type Pool struct {
	buf   []byte
	size  int     // block size in bytes
	inUse []bool  // allocation state per block
	free  []int32 // LIFO stack of free block indices
}

// Init carves buf into count blocks of blockSize bytes each.
// The buffer length must equal blockSize times count exactly.
// Reinitializing a pool returns every block to the free state.
func (p *Pool) Init(buf []byte, blockSize, count int) error {
	if blockSize <= 0 {
		return pkg.ErrBlockSize
	}
	if count <= 0 {
		return pkg.ErrBlockCount
	}
	if len(buf) != blockSize*count {
		return pkg.ErrBufferSize
	}

	p.buf = buf
	p.size = blockSize
	p.inUse = make([]bool, count)
	p.free = make([]int32, count)
	for i := range p.free {
		// Stack order keeps low indices on top so the first
		// allocations come from the front of the buffer.
		p.free[i] = int32(count - 1 - i)
	}
	return nil
}

// Alloc returns a free block, or nil when the pool is exhausted or
// uninitialized. The returned slice has length and capacity of exactly
// one block, so it cannot grow into a neighboring block.
func (p *Pool) Alloc() []byte {
	n := len(p.free)
	if n == 0 {
		return nil
	}
	idx := int(p.free[n-1])
	p.free = p.free[:n-1]
	p.inUse[idx] = true

	off := idx * p.size
	return p.buf[off : off+p.size : off+p.size]
}

// Free returns a block obtained from Alloc to the pool.
// Blocks that do not belong to the pool and blocks that are already
// free are rejected.
func (p *Pool) Free(block []byte) error {
	if len(block) != p.size || p.size == 0 {
		return pkg.ErrForeignBlock
	}
	idx := -1
	for i := 0; i < len(p.inUse); i++ {
		if &block[0] == &p.buf[i*p.size] {
			idx = i
			break
		}
	}
	if idx < 0 {
		return pkg.ErrForeignBlock
	}
	if !p.inUse[idx] {
		return pkg.ErrDoubleFree
	}
	p.inUse[idx] = false
	p.free = append(p.free, int32(idx))
	return nil
}

// Avail returns the number of free blocks.
func (p *Pool) Avail() int {
	return len(p.free)
}

// Blocks returns the total block count.
func (p *Pool) Blocks() int {
	return len(p.inUse)
}

// BlockSize returns the block size in bytes.
func (p *Pool) BlockSize() int {
	return p.size
}
