package pool

// Ref is a payload address: the byte offset of the first payload byte from
// the arena base. Every Ref is a multiple of 16 and at least 16, because the
// block before the payload always holds the allocation's header.
type Ref uint64

// Stats holds pool counters for instrumentation and tests.
type Stats struct {
	Capacity   uint64 // arena bytes under management
	Blocks     uint64 // total blocks in the arena
	FreeBlocks uint64 // blocks currently free
	LiveAllocs uint64 // allocations handed out and not yet released

	AllocCalls   uint64 // total Alloc() calls
	FreeCalls    uint64 // total Free() calls
	FailedAllocs uint64 // Alloc() calls that returned an error

	ReleasedBlocks uint64 // blocks returned by successful Free() calls
	LeakedBlocks   uint64 // blocks stranded by guard-mismatch releases
	PoisonEvents   uint64 // times corruption tripped the poison latch
}
