package format

import "math"

// Pool layout math. A pool of capacity C bytes is C/BlockSize blocks; an
// allocation for a payload of S bytes occupies ceil(S/BlockSize) payload
// blocks plus MetaBlocks guard blocks, laid out as
//
//	[header][payload ...][footer]
//
// and the address handed to the caller is the first payload byte.

// AllocBlocks returns the total number of blocks an allocation with a
// payload of size bytes occupies, guard blocks included. The second return
// is false when the computation would overflow.
func AllocBlocks(size uint64) (uint64, bool) {
	rounded, ok := AlignBlock(size)
	if !ok {
		return 0, false
	}
	n := rounded >> BlockShift
	if n > math.MaxUint64-MetaBlocks {
		return 0, false
	}
	return n + MetaBlocks, true
}

// BitmapLen returns the occupancy bitmap length in bytes for a pool of the
// given capacity: one bit per block, rounded up, never less than
// MinBitmapLen.
func BitmapLen(capacity uint64) uint64 {
	n := capacity / BytesPerBitmapByte
	if capacity%BytesPerBitmapByte != 0 {
		n++
	}
	if n < MinBitmapLen {
		n = MinBitmapLen
	}
	return n
}

// BlockOffset returns the byte offset of block i from the arena base.
// i must be a valid block index for the arena.
func BlockOffset(i uint64) uint64 {
	return i << BlockShift
}

// PayloadRef returns the payload offset handed to callers for an allocation
// whose header lives at block i: the first byte of block i+1.
func PayloadRef(i uint64) uint64 {
	return (i + 1) << BlockShift
}

// HeaderIndex recovers the header block index from a payload offset. The
// second return is false when the offset cannot have been produced by
// PayloadRef: unaligned, or before the first possible payload block.
func HeaderIndex(ref uint64) (uint64, bool) {
	if ref < BlockSize || ref&BlockMask != 0 {
		return 0, false
	}
	return ref>>BlockShift - 1, true
}

// FooterIndex returns the footer block index for an allocation of blocks
// total blocks whose header lives at header. The caller must have validated
// the run with buf.CheckRange first.
func FooterIndex(header, blocks uint64) uint64 {
	return header + blocks - 1
}
