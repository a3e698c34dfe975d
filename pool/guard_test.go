package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/poolkit/internal/format"
)

// TestGuardSource_NeverZero verifies the counter skips zero on wraparound.
func TestGuardSource_NeverZero(t *testing.T) {
	g := &guardSource{next: ^uint64(0) - 1}

	assert.Equal(t, ^uint64(0), g.Next(), "counter reaches MaxUint64")
	assert.Equal(t, uint64(1), g.Next(), "wraparound skips zero")
}

// TestGuardSource_Distinct verifies consecutive words never repeat.
func TestGuardSource_Distinct(t *testing.T) {
	g, err := newGuardSource()
	require.NoError(t, err)

	seen := make(map[uint64]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		w := g.Next()
		require.NotZero(t, w)
		_, dup := seen[w]
		require.False(t, dup, "guard word repeated: 0x%x", w)
		seen[w] = struct{}{}
	}
}

// TestGuardSource_SeededIndependently verifies two sources do not share a
// sequence.
func TestGuardSource_SeededIndependently(t *testing.T) {
	a, err := newGuardSource()
	require.NoError(t, err)
	b, err := newGuardSource()
	require.NoError(t, err)

	assert.NotEqual(t, a.Next(), b.Next(), "independently seeded sources should diverge")
}

// TestAlloc_GuardWordsPerAllocation verifies each live allocation carries
// its own guard word, echoed by its footer.
func TestAlloc_GuardWordsPerAllocation(t *testing.T) {
	p, _ := newTestPool(t, 1024)

	refA, bufA := mustAlloc(t, p, 32)
	refB, bufB := mustAlloc(t, p, 32)

	hdrA, err := format.DecodeHeader(p.Bytes(), uint64(refA)-format.BlockSize)
	require.NoError(t, err)
	hdrB, err := format.DecodeHeader(p.Bytes(), uint64(refB)-format.BlockSize)
	require.NoError(t, err)

	assert.NotZero(t, hdrA.Guard)
	assert.NotZero(t, hdrB.Guard)
	assert.NotEqual(t, hdrA.Guard, hdrB.Guard, "live allocations must not share a guard word")
	assert.Equal(t, uint64(4), hdrA.Blocks, "32-byte payload spans 2 blocks plus 2 guards")

	footA, err := format.DecodeFooter(p.Bytes(), footerOffset(refA, bufA))
	require.NoError(t, err)
	assert.True(t, footA.Matches(hdrA.Guard), "footer echoes the header guard twice")

	footB, err := format.DecodeFooter(p.Bytes(), footerOffset(refB, bufB))
	require.NoError(t, err)
	assert.True(t, footB.Matches(hdrB.Guard))
}

// TestAlloc_StaleGuardDoesNotRevalidate verifies a reused run gets a fresh
// guard, so the old ref cannot release the new allocation.
func TestAlloc_StaleGuardDoesNotRevalidate(t *testing.T) {
	p, _ := newTestPool(t, 512)

	ref, _ := mustAlloc(t, p, 32)
	hdrBefore, err := format.DecodeHeader(p.Bytes(), uint64(ref)-format.BlockSize)
	require.NoError(t, err)
	require.NoError(t, p.Free(ref))

	// Same run, fresh allocation with a different payload size.
	reused, _ := mustAlloc(t, p, 16)
	require.Equal(t, ref, reused)
	hdrAfter, err := format.DecodeHeader(p.Bytes(), uint64(reused)-format.BlockSize)
	require.NoError(t, err)

	assert.NotEqual(t, hdrBefore.Guard, hdrAfter.Guard, "reused run must carry a fresh guard")
	assert.Equal(t, uint64(3), hdrAfter.Blocks)
}
