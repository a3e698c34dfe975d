// Package format houses the low-level block-record layout for the pool
// allocator. The goal is to keep the byte-level encoding focused,
// allocation-free, and independent from the public API so higher-level
// packages can orchestrate allocations in a more ergonomic form.
package format

const (
	// BlockSize is the allocation granularity in bytes. Every pool is carved
	// into 16-byte blocks; all sizes and addresses are whole blocks.
	BlockSize = 16

	// BlockMask is the bitmask used for aligning to block boundaries (BlockSize - 1).
	BlockMask = BlockSize - 1

	// BlockShift converts between byte offsets and block indexes (BlockSize = 1 << BlockShift).
	BlockShift = 4

	// WordSize is the width of a metadata word. Header and footer blocks each
	// hold exactly two little-endian uint64 words.
	WordSize = 8

	// MetaBlocks is the number of guard blocks wrapped around every payload:
	// one header block before it and one footer block after it. Every
	// allocation therefore spans at least MetaBlocks blocks, even for a
	// zero-byte payload.
	MetaBlocks = 2

	// Header field offsets within the header block.
	HeaderCountOffset = 0x00 // total allocation length in blocks (8 bytes)
	HeaderGuardOffset = 0x08 // guard word (8 bytes)

	// Footer field offsets within the footer block. The guard word is stored
	// twice; the second copy echoes the first so a one-word overrun is still
	// caught.
	FooterGuardOffset = 0x00 // guard word (8 bytes)
	FooterEchoOffset  = 0x08 // echo of the guard word (8 bytes)

	// BlocksPerBitmapByte is the number of blocks tracked by one bitmap byte.
	BlocksPerBitmapByte = 8

	// BytesPerBitmapByte is the pool capacity covered by one bitmap byte:
	// 8 blocks of 16 bytes each.
	BytesPerBitmapByte = BlockSize * BlocksPerBitmapByte

	// MinBitmapLen is the smallest bitmap ever reserved, in bytes. Pools
	// smaller than BytesPerBitmapByte still get one byte of occupancy state.
	MinBitmapLen = 1
)
