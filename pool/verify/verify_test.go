package verify

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/poolkit/internal/format"
	"github.com/joshuapare/poolkit/pool"
)

// newQuietPool creates a heap-backed pool that swallows diagnostics.
func newQuietPool(t *testing.T, capacity uint64) *pool.Pool {
	t.Helper()
	p, err := pool.New(capacity, &pool.Options{
		Reservation: pool.ReserveHeap,
		Diagnostics: io.Discard,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

// TestPool_FreshPool tests that an untouched pool passes validation.
func TestPool_FreshPool(t *testing.T) {
	p := newQuietPool(t, 1024)
	require.NoError(t, Pool(p), "fresh pool should pass all checks")
}

// TestPool_CleanAfterWorkload tests a mixed alloc/free sequence.
func TestPool_CleanAfterWorkload(t *testing.T) {
	p := newQuietPool(t, 4096)

	var refs []pool.Ref
	for _, size := range []uint64{0, 1, 16, 48, 200, 512} {
		ref, _, err := p.Alloc(size)
		require.NoError(t, err)
		refs = append(refs, ref)
	}
	require.NoError(t, p.Free(refs[1]))
	require.NoError(t, p.Free(refs[4]))
	_, _, err := p.Alloc(24)
	require.NoError(t, err)

	require.NoError(t, Pool(p), "live pool should stay internally consistent")
	require.NoError(t, Bitmap(p))
	require.NoError(t, Guards(p))
}

// TestGuards_DetectsTrampledFooter tests that a trampled echo word is found
// even before any release runs.
func TestGuards_DetectsTrampledFooter(t *testing.T) {
	p := newQuietPool(t, 512)
	ref, payload, err := p.Alloc(32)
	require.NoError(t, err)

	footOff := uint64(ref) + uint64(len(payload))
	p.Bytes()[footOff+format.WordSize] ^= 0x80

	require.NoError(t, Bitmap(p), "occupancy structure is still intact")

	err = Guards(p)
	require.Error(t, err, "trampled echo word should fail guard validation")
	require.Contains(t, err.Error(), "does not echo")

	verr, ok := err.(*ValidationError)
	require.True(t, ok, "guard failures should carry structured context")
	assert.Equal(t, "Guards", verr.Type)
	assert.Equal(t, int(footOff), verr.Offset)

	assert.Error(t, Pool(p), "aggregate check must report the same failure")
}

// TestBitmap_DetectsTrampledCount tests that a rewritten header count is
// caught by the structural walk.
func TestBitmap_DetectsTrampledCount(t *testing.T) {
	p := newQuietPool(t, 512)
	ref, _, err := p.Alloc(48)
	require.NoError(t, err)

	hdrOff := uint64(ref) - format.BlockSize
	format.PutU64(p.Bytes(), int(hdrOff+format.HeaderCountOffset), 1<<40)

	err = Bitmap(p)
	require.Error(t, err, "oversized run length should fail validation")
	require.Contains(t, err.Error(), "implausible run length")
}

// TestBitmap_DetectsShrunkenCount tests that a count trampled downward
// orphans the tail blocks and fails the walk.
func TestBitmap_DetectsShrunkenCount(t *testing.T) {
	p := newQuietPool(t, 512)
	ref, _, err := p.Alloc(48) // 5 blocks total
	require.NoError(t, err)

	hdrOff := uint64(ref) - format.BlockSize
	format.PutU64(p.Bytes(), int(hdrOff+format.HeaderCountOffset), format.MetaBlocks)

	require.Error(t, Pool(p), "orphaned tail blocks should fail validation")
}

// TestPool_PoisonedPoolReportsLeaks tests that a poisoned pool fails
// faithfully: the leaked run is still marked and still trampled.
func TestPool_PoisonedPoolReportsLeaks(t *testing.T) {
	p := newQuietPool(t, 512)
	ref, payload, err := p.Alloc(32)
	require.NoError(t, err)

	p.Bytes()[uint64(ref)+uint64(len(payload))] ^= 0xFF
	require.Error(t, p.Free(ref))
	require.True(t, p.Poisoned())

	err = Pool(p)
	require.Error(t, err, "leaked run keeps failing validation after poisoning")
}
