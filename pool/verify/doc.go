// Package verify provides validation functions for pool allocator state.
//
// # Overview
//
// This package cross-checks a pool's occupancy bitmap against the guard
// metadata stored in its arena. It is primarily used in tests and in the
// poolctl tool to confirm that a sequence of allocations and releases left
// the pool internally consistent.
//
// Validation categories:
//   - Bitmap: every occupied block belongs to exactly one decodable run
//   - Guards: every run's footer echoes its header's guard word twice
//
// # Quick Start
//
// Validate all invariants in one call:
//
//	if err := verify.Pool(p); err != nil {
//	    fmt.Printf("Validation failed: %v\n", err)
//	}
//
// Validate specific aspects:
//
//	if err := verify.Bitmap(p); err != nil {
//	    fmt.Printf("Occupancy inconsistent: %v\n", err)
//	}
//	if err := verify.Guards(p); err != nil {
//	    fmt.Printf("Guard metadata trampled: %v\n", err)
//	}
//
// # ValidationError
//
// All validation functions return ValidationError on failure:
//
//	type ValidationError struct {
//	    Type    string                 // Error category ("Bitmap", "Guards")
//	    Message string                 // Human-readable description
//	    Offset  int                    // Arena byte offset (-1 if N/A)
//	    Details map[string]interface{} // Additional context
//	}
//
// # Poisoned Pools
//
// A poisoned pool fails these checks by construction: a corrupted release
// leaves its run marked in the bitmap with trampled metadata behind it.
// That is a faithful report, not a false positive. Tools that want to
// tolerate an operator-acknowledged poison state should branch on
// pool.Poisoned() before interpreting a failure as news.
//
// # Usage in Tests
//
// Typical test pattern:
//
//	p, _ := pool.New(4096, nil)
//	defer p.Close()
//
//	// ... allocate, write, release ...
//
//	if err := verify.Pool(p); err != nil {
//	    t.Fatalf("pool invariants violated: %v", err)
//	}
//
// # Limitations
//
// The verify package does NOT check:
//   - Payload contents (the pool attaches no meaning to them)
//   - Guard word uniqueness across live runs
//   - Whether free blocks hold stale metadata (they legitimately do)
//
// # Related Packages
//
//   - github.com/joshuapare/poolkit/pool: the allocator under validation
//   - github.com/joshuapare/poolkit/internal/format: block-record layout
package verify
