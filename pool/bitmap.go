package pool

import "math/bits"

// bitmap tracks block occupancy, one bit per block: bit i%8 of byte i/8
// covers block i and is set while the block belongs to a live allocation.
// The byte slice comes from its own reservation and outlives nothing; the
// pool owns it for its whole life.
type bitmap struct {
	bits   []byte
	blocks uint64 // number of valid bits
}

func (bm bitmap) occupied(i uint64) bool {
	return bm.bits[i>>3]&(1<<(i&7)) != 0
}

// markRange sets n bits starting at block start. The caller must have
// validated the run against the block count.
func (bm bitmap) markRange(start, n uint64) {
	for i := start; i < start+n; i++ {
		bm.bits[i>>3] |= 1 << (i & 7)
	}
}

// clearRange clears n bits starting at block start.
func (bm bitmap) clearRange(start, n uint64) {
	for i := start; i < start+n; i++ {
		bm.bits[i>>3] &^= 1 << (i & 7)
	}
}

// findRun returns the lowest block index that starts a run of n consecutive
// free blocks. One linear pass over the bitmap; the running counter resets
// at every occupied block, so each bit is examined once.
func (bm bitmap) findRun(n uint64) (uint64, bool) {
	if n == 0 || n > bm.blocks {
		return 0, false
	}
	var start, run uint64
	for i := uint64(0); i < bm.blocks; i++ {
		if bm.occupied(i) {
			run = 0
			continue
		}
		if run == 0 {
			start = i
		}
		run++
		if run == n {
			return start, true
		}
	}
	return 0, false
}

// freeCount returns the number of free blocks. Bits past the last block are
// never set, so whole-byte popcounts are safe.
func (bm bitmap) freeCount() uint64 {
	var used uint64
	for _, b := range bm.bits {
		used += uint64(bits.OnesCount8(b))
	}
	return bm.blocks - used
}
