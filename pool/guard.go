package pool

import (
	"crypto/rand"
	"fmt"

	"github.com/joshuapare/poolkit/internal/format"
)

// guardSource produces per-allocation guard words. Uniqueness is the
// property that matters: release compares exact words, so two allocations
// alive at once must never share one, and a stale ref must not revalidate
// after its blocks are reused. A counter seeded once from crypto/rand gives
// distinct words without a syscall per allocation.
type guardSource struct {
	next uint64
}

func newGuardSource() (*guardSource, error) {
	var seed [format.WordSize]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, fmt.Errorf("pool: seed guard source: %w", err)
	}
	return &guardSource{next: format.ReadU64(seed[:], 0)}, nil
}

// Next returns the next guard word. Never zero: freshly reserved memory
// reads as zero, and a zero guard would make an unwritten footer validate.
func (g *guardSource) Next() uint64 {
	g.next++
	if g.next == 0 {
		g.next++
	}
	return g.next
}
