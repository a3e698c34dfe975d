package pool

import (
	"fmt"
	"io"

	"github.com/joshuapare/poolkit/internal/region"
)

// Reservation selects how New reserves the arena and the occupancy bitmap.
type Reservation int

const (
	// ReserveAuto prefers an anonymous memory mapping and falls back to the
	// heap on platforms without mmap support.
	ReserveAuto Reservation = iota

	// ReserveMmap requires an anonymous private memory mapping. New fails
	// where mmap is unavailable.
	ReserveMmap

	// ReserveHeap uses ordinary garbage-collected memory.
	ReserveHeap
)

// Options configures a Pool. Passing nil to New means defaults.
type Options struct {
	// Reservation selects the backing-memory strategy for the arena and the
	// occupancy bitmap. Default: ReserveAuto.
	Reservation Reservation

	// Diagnostics receives human-readable corruption reports written when a
	// release fails validation. Default: os.Stderr.
	Diagnostics io.Writer
}

// DefaultOptions returns the default pool configuration.
func DefaultOptions() *Options {
	return &Options{
		Reservation: ReserveAuto,
	}
}

// strategy maps the public reservation knob onto the region package.
func (r Reservation) strategy() (region.Strategy, error) {
	switch r {
	case ReserveAuto:
		return region.Auto, nil
	case ReserveMmap:
		return region.Mmap, nil
	case ReserveHeap:
		return region.Heap, nil
	default:
		return 0, fmt.Errorf("pool: unknown reservation strategy %d", int(r))
	}
}
