// Package region reserves zeroed byte ranges for the allocator to manage.
//
// Two reservation strategies exist: an anonymous private memory mapping and
// an ordinary heap allocation. Auto prefers the mapping and falls back to the
// heap on platforms without mmap support, mirroring the classic
// mmap-then-calloc pattern.
package region

import (
	"errors"
	"fmt"
	"math"
)

// Strategy selects how a region is reserved.
type Strategy int

const (
	// Auto prefers an anonymous memory mapping and falls back to a heap
	// reservation when the mapping is unavailable or fails.
	Auto Strategy = iota
	// Mmap requires an anonymous private memory mapping. Reserve fails with
	// ErrUnsupported on platforms without mmap.
	Mmap
	// Heap reserves ordinary garbage-collected memory.
	Heap
)

var (
	// ErrUnsupported indicates anonymous mappings are not available on this platform.
	ErrUnsupported = errors.New("region: anonymous mapping not supported on this platform")
	// ErrSize indicates the requested reservation size is zero or too large to address.
	ErrSize = errors.New("region: invalid reservation size")
)

// Region is one reserved, zeroed byte range plus the hook that returns it to
// the platform.
type Region struct {
	Data    []byte
	release func() error
}

// Release returns the region to the platform and drops the data reference.
// Safe to call more than once.
func (r *Region) Release() error {
	if r.release == nil {
		return nil
	}
	rel := r.release
	r.release = nil
	r.Data = nil
	return rel()
}

// Reserve returns a zeroed region of exactly n bytes using the given
// strategy.
func Reserve(n uint64, s Strategy) (*Region, error) {
	if n == 0 || n > uint64(math.MaxInt) {
		return nil, fmt.Errorf("%w: %d bytes", ErrSize, n)
	}
	switch s {
	case Mmap:
		return reserveMmap(int(n))
	case Heap:
		return reserveHeap(int(n)), nil
	case Auto:
		if r, err := reserveMmap(int(n)); err == nil {
			return r, nil
		}
		return reserveHeap(int(n)), nil
	default:
		return nil, fmt.Errorf("region: unknown strategy %d", s)
	}
}

// reserveHeap reserves garbage-collected memory. The runtime hands it back
// zeroed, so both strategies share the zeroed-region contract.
func reserveHeap(n int) *Region {
	return &Region{
		Data:    make([]byte, n),
		release: func() error { return nil },
	}
}
