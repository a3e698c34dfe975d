package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a guard block.
	ErrTruncated = errors.New("format: truncated buffer")
)
