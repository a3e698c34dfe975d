package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestPool creates a heap-backed pool with diagnostics captured in the
// returned buffer instead of stderr.
func newTestPool(t testing.TB, capacity uint64) (*Pool, *bytes.Buffer) {
	t.Helper()
	var diag bytes.Buffer
	p, err := New(capacity, &Options{Reservation: ReserveHeap, Diagnostics: &diag})
	require.NoError(t, err, "New should succeed")
	t.Cleanup(func() { _ = p.Close() })
	return p, &diag
}

// mustAlloc allocates size bytes or fails the test.
func mustAlloc(t testing.TB, p *Pool, size uint64) (Ref, []byte) {
	t.Helper()
	ref, payload, err := p.Alloc(size)
	require.NoError(t, err, "Alloc(%d) should succeed", size)
	return ref, payload
}

// footerOffset returns the arena offset of the first footer byte for an
// allocation returned by Alloc.
func footerOffset(ref Ref, payload []byte) uint64 {
	return uint64(ref) + uint64(len(payload))
}
