package pool

import (
	"fmt"
	"io"
	"os"

	"github.com/joshuapare/poolkit/internal/buf"
	"github.com/joshuapare/poolkit/internal/format"
	"github.com/joshuapare/poolkit/internal/region"
)

// Runtime debug flag for allocation tracing - controlled by POOL_LOG_ALLOC env var.
var logAlloc = os.Getenv("POOL_LOG_ALLOC") != ""

// Pool is a fixed-capacity block allocator over one contiguous arena.
//
// All state is held in the instance; two pools never share anything. A Pool
// must be confined to a single goroutine.
type Pool struct {
	arena  []byte // payload region, Capacity() bytes, reserved once
	bm     bitmap // occupancy, one bit per block
	blocks uint64 // total block count = len(arena) / 16

	poisoned bool
	closed   bool

	guards *guardSource
	diag   io.Writer

	arenaRegion  *region.Region
	bitmapRegion *region.Region

	stats Stats
}

// New reserves a pool managing at least capacity bytes of payload arena.
// The capacity is rounded up to a whole number of 16-byte blocks. The arena
// and its occupancy bitmap are reserved through the strategy selected in
// opts (nil means defaults) and come back zeroed.
//
// The reservation itself is the only fallible step; once New returns the
// pool never asks the platform for memory again.
func New(capacity uint64, opts *Options) (*Pool, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if capacity == 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", ErrCapacity)
	}
	rounded, ok := format.AlignBlock(capacity)
	if !ok {
		return nil, fmt.Errorf("%w: %d bytes", ErrCapacity, capacity)
	}
	strategy, err := opts.Reservation.strategy()
	if err != nil {
		return nil, err
	}

	arena, err := region.Reserve(rounded, strategy)
	if err != nil {
		return nil, fmt.Errorf("pool: reserve arena: %w", err)
	}
	bits, err := region.Reserve(format.BitmapLen(rounded), strategy)
	if err != nil {
		_ = arena.Release()
		return nil, fmt.Errorf("pool: reserve bitmap: %w", err)
	}
	guards, err := newGuardSource()
	if err != nil {
		_ = arena.Release()
		_ = bits.Release()
		return nil, err
	}

	blocks := rounded >> format.BlockShift
	diag := opts.Diagnostics
	if diag == nil {
		diag = os.Stderr
	}

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[POOL] init: capacity=%d blocks=%d bitmap=%d bytes\n",
			rounded, blocks, len(bits.Data))
	}

	return &Pool{
		arena:        arena.Data,
		bm:           bitmap{bits: bits.Data, blocks: blocks},
		blocks:       blocks,
		guards:       guards,
		diag:         diag,
		arenaRegion:  arena,
		bitmapRegion: bits,
	}, nil
}

// Alloc hands out a run of blocks big enough for a payload of size bytes.
// The size is rounded up to whole blocks and two guard blocks are added, so
// even Alloc(0) occupies two blocks. The returned slice spans the rounded
// payload region; its bytes are not zeroed on reuse.
//
// Fails with ErrPoisoned while the pool is poisoned and with ErrNoSpace
// when no contiguous run of free blocks is long enough. Neither failure
// touches the bitmap or the arena.
func (p *Pool) Alloc(size uint64) (Ref, []byte, error) {
	p.stats.AllocCalls++
	if p.closed {
		p.stats.FailedAllocs++
		return 0, nil, ErrClosed
	}
	if p.poisoned {
		p.stats.FailedAllocs++
		return 0, nil, ErrPoisoned
	}

	blk, ok := format.AllocBlocks(size)
	if !ok || blk > p.blocks {
		p.stats.FailedAllocs++
		return 0, nil, fmt.Errorf("%w: need %d bytes", ErrNoSpace, size)
	}
	start, ok := p.bm.findRun(blk)
	if !ok {
		p.stats.FailedAllocs++
		return 0, nil, fmt.Errorf("%w: need %d blocks, %d free", ErrNoSpace, blk, p.bm.freeCount())
	}

	guard := p.guards.Next()
	footOff := format.BlockOffset(format.FooterIndex(start, blk))
	if err := format.EncodeHeader(p.arena, format.BlockOffset(start), format.Header{Blocks: blk, Guard: guard}); err != nil {
		p.stats.FailedAllocs++
		return 0, nil, err
	}
	if err := format.EncodeFooter(p.arena, footOff, guard); err != nil {
		p.stats.FailedAllocs++
		return 0, nil, err
	}
	p.bm.markRange(start, blk)
	p.stats.LiveAllocs++

	ref := Ref(format.PayloadRef(start))
	payload := p.arena[uint64(ref):footOff]

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[POOL] alloc: size=%d blocks=%d header=%d ref=0x%x guard=0x%x\n",
			size, blk, start, uint64(ref), guard)
	}
	return ref, payload, nil
}

// Free returns an allocation's blocks to the pool after validating its
// guard metadata. Works while poisoned, so intact allocations can still be
// drained after corruption elsewhere.
//
// Any validation failure means the ref was never produced by this pool or
// the payload overran its region: the pool writes a diagnostic, latches the
// poison flag, strands the implicated blocks, and returns ErrCorrupt.
func (p *Pool) Free(ref Ref) error {
	p.stats.FreeCalls++
	if p.closed {
		return ErrClosed
	}

	hdrIdx, ok := format.HeaderIndex(uint64(ref))
	if !ok || hdrIdx >= p.blocks {
		return p.poison(ref, "payload offset unaligned or outside pool")
	}
	if !p.bm.occupied(hdrIdx) {
		return p.poison(ref, "header block is not allocated")
	}
	hdr, err := format.DecodeHeader(p.arena, format.BlockOffset(hdrIdx))
	if err != nil {
		return p.poison(ref, err.Error())
	}
	if hdr.Blocks < format.MetaBlocks {
		return p.poison(ref, fmt.Sprintf("implausible block count %d", hdr.Blocks))
	}
	// Bounds-check the stored count before forming the footer address; a
	// trampled header must not send the read outside the arena.
	if _, err := buf.CheckRange(p.blocks, hdrIdx, hdr.Blocks); err != nil {
		return p.poison(ref, fmt.Sprintf("block count %d escapes pool: %v", hdr.Blocks, err))
	}
	foot, err := format.DecodeFooter(p.arena, format.BlockOffset(format.FooterIndex(hdrIdx, hdr.Blocks)))
	if err != nil {
		return p.poison(ref, err.Error())
	}
	if !foot.Matches(hdr.Guard) {
		p.stats.LeakedBlocks += hdr.Blocks
		return p.poison(ref, fmt.Sprintf("guard mismatch: header=0x%x footer=0x%x echo=0x%x",
			hdr.Guard, foot.Guard, foot.Echo))
	}

	p.bm.clearRange(hdrIdx, hdr.Blocks)
	p.stats.ReleasedBlocks += hdr.Blocks
	p.stats.LiveAllocs--

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[POOL] free: ref=0x%x blocks=%d header=%d\n",
			uint64(ref), hdr.Blocks, hdrIdx)
	}
	return nil
}

// poison reports a corrupted release, trips the latch, and surfaces the
// failure. The blocks of the implicated allocation are never reclaimed.
func (p *Pool) poison(ref Ref, detail string) error {
	p.poisoned = true
	p.stats.PoisonEvents++
	fmt.Fprintf(p.diag, "pool: corruption detected releasing ref 0x%x: %s\n", uint64(ref), detail)
	return fmt.Errorf("%w: %s", ErrCorrupt, detail)
}

// ClearPoison resets the corruption latch so allocation can resume. Blocks
// stranded by earlier corrupted releases stay stranded; clearing the latch
// is the operator accepting that loss.
func (p *Pool) ClearPoison() {
	p.poisoned = false
}

// Poisoned reports whether corruption has been detected and not yet cleared.
func (p *Pool) Poisoned() bool {
	return p.poisoned
}

// Close returns the arena and bitmap reservations to the platform. All
// later Alloc and Free calls fail with ErrClosed. Safe to call more than
// once.
func (p *Pool) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.arena = nil
	p.bm = bitmap{}

	err := p.arenaRegion.Release()
	if err2 := p.bitmapRegion.Release(); err == nil {
		err = err2
	}
	return err
}

// Bytes returns the raw arena. Guard blocks are visible in it; writing past
// a payload's end corrupts them, which is exactly what Free detects.
func (p *Pool) Bytes() []byte {
	return p.arena
}

// Capacity returns the arena size in bytes: the requested capacity rounded
// up to whole blocks.
func (p *Pool) Capacity() uint64 {
	return uint64(len(p.arena))
}

// Blocks returns the total number of blocks under management.
func (p *Pool) Blocks() uint64 {
	return p.blocks
}

// FreeBlocks returns the number of blocks currently free.
func (p *Pool) FreeBlocks() uint64 {
	return p.bm.freeCount()
}

// Occupied reports whether block i currently belongs to a live allocation.
// Out-of-range indexes report false.
func (p *Pool) Occupied(i uint64) bool {
	if p.closed || i >= p.blocks {
		return false
	}
	return p.bm.occupied(i)
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() Stats {
	s := p.stats
	s.Capacity = p.Capacity()
	s.Blocks = p.blocks
	if !p.closed {
		s.FreeBlocks = p.bm.freeCount()
	}
	return s
}
