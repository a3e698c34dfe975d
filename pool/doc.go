// Package pool provides a fixed-capacity block allocator with guarded
// allocations and fail-stop corruption handling.
//
// # Overview
//
// A Pool reserves one contiguous arena up front, at construction time, and
// never grows or shrinks it. The arena is carved into 16-byte blocks whose
// occupancy is tracked by a bitmap (one bit per block). Allocation is a
// first-fit scan for the lowest-index run of free blocks; release validates
// guard metadata before returning blocks to the bitmap.
//
// # Allocation Layout
//
// Every allocation occupies a contiguous run of blocks:
//
//	[header][payload ...][footer]
//
// The header block stores the run length in blocks and a per-allocation
// guard word. The footer block stores the guard word twice. The address
// handed back (Ref) is the first payload byte, so a payload that runs off
// its end tramples the footer, and release detects exactly that.
//
// # Poisoning
//
// When a release finds trampled or implausible metadata, the pool reports a
// diagnostic, strands the implicated blocks, and latches a poison flag.
// While poisoned, every Alloc fails with ErrPoisoned; Free still works for
// intact allocations. ClearPoison resets the latch once the operator has
// decided the damage is acceptable. The stranded blocks stay lost either
// way; only a fresh pool gets them back.
//
// # Usage Example
//
//	p, err := pool.New(1<<20, nil)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	ref, buf, err := p.Alloc(256)
//	if err != nil {
//	    return err
//	}
//	copy(buf, payload)
//
//	// Later, hand the blocks back.
//	if err := p.Free(ref); err != nil {
//	    // Corruption was detected; the pool is now poisoned.
//	}
//
// # Reservation Strategies
//
// The arena and bitmap come from one of two reservation strategies, chosen
// through Options at construction: an anonymous private memory mapping or an
// ordinary heap allocation. The default prefers the mapping and falls back
// to the heap on platforms without mmap support.
//
// # Thread Safety
//
// Pool instances are not thread-safe. Callers must confine a pool to one
// goroutine or synchronize access externally.
//
// # Related Packages
//
//   - github.com/joshuapare/poolkit/pool/verify: cross-checks bitmap and guard metadata
//   - github.com/joshuapare/poolkit/internal/format: block-record layout and encoding
//   - github.com/joshuapare/poolkit/internal/region: reservation strategies
package pool
