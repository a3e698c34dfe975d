package format

import "math"

// Alignment utilities for pool addressing.
// Everything the allocator hands out is measured in whole 16-byte blocks.

// AlignBlock returns n aligned up to the next block (16-byte) boundary.
// The second return is false when the rounding would overflow uint64.
//
// Example:
//
//	AlignBlock(0)  = 0
//	AlignBlock(1)  = 16
//	AlignBlock(16) = 16
//	AlignBlock(17) = 32
func AlignBlock(n uint64) (uint64, bool) {
	if n > math.MaxUint64-BlockMask {
		return 0, false
	}
	return (n + BlockMask) &^ BlockMask, true
}
