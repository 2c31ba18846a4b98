package pkg

import "errors"

// Allocator errors.
var (
	// ErrBufferSize indicates a buffer whose length does not equal
	// block size times block count.
	ErrBufferSize = errors.New("buffer size mismatch")

	// ErrBlockSize indicates a zero or negative block size.
	ErrBlockSize = errors.New("invalid block size")

	// ErrBlockCount indicates a zero or negative block count.
	ErrBlockCount = errors.New("invalid block count")

	// ErrForeignBlock indicates a block that was not allocated from the pool.
	ErrForeignBlock = errors.New("block not from pool")

	// ErrDoubleFree indicates a block that is already on the free list.
	ErrDoubleFree = errors.New("block already free")
)

// Primitive lifecycle and misuse errors.
var (
	// ErrAlreadyCreated indicates a definition that was created twice.
	ErrAlreadyCreated = errors.New("primitive already created")

	// ErrNotCreated indicates an operation on a never-created definition.
	ErrNotCreated = errors.New("primitive not created")

	// ErrNotOwner indicates an unlock by a task that does not hold the mutex.
	ErrNotOwner = errors.New("caller does not own mutex")

	// ErrISRContext indicates a blocking call from interrupt context.
	ErrISRContext = errors.New("blocking call in interrupt context")

	// ErrNotTask indicates a kernel call from outside any task context.
	ErrNotTask = errors.New("call outside task context")
)

// Simulator kernel errors.
var (
	// ErrKernelRunning indicates the kernel is already running.
	ErrKernelRunning = errors.New("kernel already running")

	// ErrTooManyTasks indicates the fixed task table is full.
	ErrTooManyTasks = errors.New("task limit reached")

	// ErrBadPriority indicates a task priority outside the accepted range.
	ErrBadPriority = errors.New("invalid task priority")

	// ErrBadVector indicates an interrupt vector outside the accepted range.
	ErrBadVector = errors.New("invalid interrupt vector")

	// ErrDeadlock indicates every task is blocked with no timer pending.
	ErrDeadlock = errors.New("all tasks blocked")
)
