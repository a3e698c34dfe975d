package pool

import "errors"

var (
	// ErrCapacity indicates the requested pool capacity is zero or not addressable.
	ErrCapacity = errors.New("pool: invalid capacity")

	// ErrNoSpace indicates no contiguous run of free blocks was large enough.
	ErrNoSpace = errors.New("pool: no contiguous free run large enough")

	// ErrPoisoned indicates allocation was rejected because corruption was
	// detected earlier and has not been cleared.
	ErrPoisoned = errors.New("pool: poisoned by earlier corruption")

	// ErrCorrupt indicates release validation failed: a ref the pool never
	// produced, or guard metadata trampled by an overrun.
	ErrCorrupt = errors.New("pool: corrupt allocation metadata")

	// ErrClosed indicates the pool's reservations were already returned via Close.
	ErrClosed = errors.New("pool: closed")
)
