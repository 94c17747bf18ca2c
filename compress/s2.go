package compress

import (
	"fmt"

	"github.com/arloliu/td512/errs"
	"github.com/arloliu/td512/format"
	"github.com/arloliu/td512/internal/pool"
	"github.com/klauspost/compress/s2"
)

// S2Backend stores ExtendedString payloads as S2 blocks.
type S2Backend struct{}

var _ Backend = (*S2Backend)(nil)

// NewS2Backend creates a new S2 backend.
func NewS2Backend() S2Backend {
	return S2Backend{}
}

// Type returns format.BackendS2.
func (S2Backend) Type() format.Backend {
	return format.BackendS2
}

// Encode compresses src into a single S2 block.
func (S2Backend) Encode(dst, src []byte) (int, error) {
	scratch := pool.GetScratch()
	defer pool.PutScratch(scratch)

	bound := s2.MaxEncodedLen(len(src))
	if bound < 0 || bound > len(scratch.B) {
		return 0, fmt.Errorf("%w: %d", errs.ErrInvalidLength, len(src))
	}

	return fitPayload(dst, s2.Encode(scratch.B[:bound], src))
}

// Decode expands an S2 block whose embedded length must equal len(dst).
func (S2Backend) Decode(dst, src []byte) (int, error) {
	n, err := s2.DecodedLen(src)
	if err != nil {
		return 0, fmt.Errorf("%w: s2: %v", errs.ErrCorruptPayload, err)
	}
	if err := checkDecoded(format.BackendS2, n, len(dst)); err != nil {
		return 0, err
	}

	if _, err := s2.Decode(dst, src); err != nil {
		return 0, fmt.Errorf("%w: s2: %v", errs.ErrCorruptPayload, err)
	}

	return len(src), nil
}
