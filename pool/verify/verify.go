// Package verify provides validation functions for pool allocator state.
// These helpers are used in tests and tooling to ensure pool invariants are
// maintained.
package verify

import (
	"fmt"

	"github.com/joshuapare/poolkit/internal/format"
	"github.com/joshuapare/poolkit/pool"
)

// Error types for different validation failures.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]interface{}
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Pool validates all pool invariants in one call.
// Returns the first error encountered, or nil if all checks pass.
//
// A poisoned pool legitimately fails these checks: corrupted releases leave
// their blocks marked with trampled metadata behind them. Callers that
// tolerate poison should check pool.Poisoned() first.
func Pool(p *pool.Pool) error {
	if err := Bitmap(p); err != nil {
		return err
	}
	if err := Guards(p); err != nil {
		return err
	}
	return nil
}

// Bitmap validates that every occupied block belongs to exactly one
// decodable allocation run: each run starts with a header holding a
// plausible block count, and every block the count claims is marked.
func Bitmap(p *pool.Pool) error {
	return walkRuns(p, nil)
}

// Guards validates the guard words of every allocation run: the footer
// block must echo the header's guard word in both of its slots.
func Guards(p *pool.Pool) error {
	return walkRuns(p, func(header uint64, hdr format.Header) error {
		footOff := format.BlockOffset(format.FooterIndex(header, hdr.Blocks))
		foot, err := format.DecodeFooter(p.Bytes(), footOff)
		if err != nil {
			return &ValidationError{
				Type:    "Guards",
				Message: fmt.Sprintf("footer unreadable: %v", err),
				Offset:  int(footOff),
			}
		}
		if !foot.Matches(hdr.Guard) {
			return &ValidationError{
				Type:    "Guards",
				Message: fmt.Sprintf("footer does not echo guard 0x%X", hdr.Guard),
				Offset:  int(footOff),
				Details: map[string]interface{}{
					"header_block": header,
					"guard":        hdr.Guard,
					"footer":       foot.Guard,
					"echo":         foot.Echo,
				},
			}
		}
		return nil
	})
}

// walkRuns iterates the pool's allocation runs in block order, validating
// run structure and invoking fn (when non-nil) for each run.
func walkRuns(p *pool.Pool, fn func(header uint64, hdr format.Header) error) error {
	data := p.Bytes()
	blocks := p.Blocks()

	for i := uint64(0); i < blocks; {
		if !p.Occupied(i) {
			i++
			continue
		}
		hdrOff := format.BlockOffset(i)
		hdr, err := format.DecodeHeader(data, hdrOff)
		if err != nil {
			return &ValidationError{
				Type:    "Bitmap",
				Message: fmt.Sprintf("occupied block has no readable header: %v", err),
				Offset:  int(hdrOff),
			}
		}
		if hdr.Blocks < format.MetaBlocks || i+hdr.Blocks > blocks {
			return &ValidationError{
				Type:    "Bitmap",
				Message: fmt.Sprintf("implausible run length %d at block %d", hdr.Blocks, i),
				Offset:  int(hdrOff),
				Details: map[string]interface{}{
					"header_block": i,
					"count":        hdr.Blocks,
					"pool_blocks":  blocks,
				},
			}
		}
		for j := i; j < i+hdr.Blocks; j++ {
			if !p.Occupied(j) {
				return &ValidationError{
					Type:    "Bitmap",
					Message: fmt.Sprintf("run at block %d claims %d blocks but block %d is free", i, hdr.Blocks, j),
					Offset:  int(format.BlockOffset(j)),
					Details: map[string]interface{}{
						"header_block": i,
						"count":        hdr.Blocks,
						"free_block":   j,
					},
				}
			}
		}
		if fn != nil {
			if err := fn(i, hdr); err != nil {
				return err
			}
		}
		i += hdr.Blocks
	}
	return nil
}
