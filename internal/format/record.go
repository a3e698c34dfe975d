package format

import (
	"fmt"

	"github.com/joshuapare/poolkit/internal/buf"
)

// Header is the guard block written immediately before every payload.
//
// Header block layout (little-endian):
//
//	Offset  Size  Description
//	0x00    8     Blocks. Total allocation length in blocks, guards included.
//	0x08    8     Guard. Per-allocation word echoed twice by the footer.
type Header struct {
	Blocks uint64
	Guard  uint64
}

// Footer is the guard block written immediately after every payload.
//
// Footer block layout (little-endian):
//
//	Offset  Size  Description
//	0x00    8     Guard. Copy of the header's guard word.
//	0x08    8     Echo. Second copy of the same word.
//
// A payload overrun tramples one or both copies, which is what release
// validation looks for.
type Footer struct {
	Guard uint64
	Echo  uint64
}

// Matches reports whether both footer words hold the expected guard value.
func (f Footer) Matches(guard uint64) bool {
	return f.Guard == guard && f.Echo == guard
}

// EncodeHeader writes h into the 16-byte block starting at off within b.
func EncodeHeader(b []byte, off uint64, h Header) error {
	blk, ok := buf.Slice(b, off, BlockSize)
	if !ok {
		return fmt.Errorf("header: %w", ErrTruncated)
	}
	PutU64(blk, HeaderCountOffset, h.Blocks)
	PutU64(blk, HeaderGuardOffset, h.Guard)
	return nil
}

// DecodeHeader reads the header block starting at off within b.
func DecodeHeader(b []byte, off uint64) (Header, error) {
	blk, ok := buf.Slice(b, off, BlockSize)
	if !ok {
		return Header{}, fmt.Errorf("header: %w", ErrTruncated)
	}
	return Header{
		Blocks: ReadU64(blk, HeaderCountOffset),
		Guard:  ReadU64(blk, HeaderGuardOffset),
	}, nil
}

// EncodeFooter writes the guard word into both footer slots of the 16-byte
// block starting at off within b.
func EncodeFooter(b []byte, off uint64, guard uint64) error {
	blk, ok := buf.Slice(b, off, BlockSize)
	if !ok {
		return fmt.Errorf("footer: %w", ErrTruncated)
	}
	PutU64(blk, FooterGuardOffset, guard)
	PutU64(blk, FooterEchoOffset, guard)
	return nil
}

// DecodeFooter reads the footer block starting at off within b.
func DecodeFooter(b []byte, off uint64) (Footer, error) {
	blk, ok := buf.Slice(b, off, BlockSize)
	if !ok {
		return Footer{}, fmt.Errorf("footer: %w", ErrTruncated)
	}
	return Footer{
		Guard: ReadU64(blk, FooterGuardOffset),
		Echo:  ReadU64(blk, FooterEchoOffset),
	}, nil
}
