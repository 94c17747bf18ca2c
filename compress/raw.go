package compress

import (
	"fmt"

	"github.com/arloliu/td512/errs"
	"github.com/arloliu/td512/format"
)

// RawCoder stores blocks verbatim.
//
// It always applies when dst is large enough, which is what bounds the
// worst-case growth of any block to its header size.
type RawCoder struct{}

var _ Coder = (*RawCoder)(nil)

// NewRawCoder creates a new verbatim coder.
func NewRawCoder() RawCoder {
	return RawCoder{}
}

// Mode returns format.ModeRaw.
func (c RawCoder) Mode() format.Mode {
	return format.ModeRaw
}

// TryEncode copies src into dst.
func (c RawCoder) TryEncode(dst, src []byte) (uint8, int, bool) {
	if len(dst) < len(src) {
		return 0, 0, false
	}

	return 0, copy(dst, src), true
}

// Decode copies len(dst) bytes from src.
func (c RawCoder) Decode(dst, src []byte, variant uint8) (int, error) {
	if variant != 0 {
		return 0, fmt.Errorf("%w: raw variant %d", errs.ErrCorruptHeader, variant)
	}
	if len(src) < len(dst) {
		return 0, fmt.Errorf("%w: raw payload truncated: need %d bytes, have %d", errs.ErrCorruptPayload, len(dst), len(src))
	}

	return copy(dst, src), nil
}
