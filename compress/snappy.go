package compress

import (
	"fmt"

	"github.com/arloliu/td512/errs"
	"github.com/arloliu/td512/format"
	"github.com/arloliu/td512/internal/pool"
	"github.com/golang/snappy"
)

// SnappyBackend stores ExtendedString payloads as Snappy blocks.
type SnappyBackend struct{}

var _ Backend = (*SnappyBackend)(nil)

// NewSnappyBackend creates a new Snappy backend.
func NewSnappyBackend() SnappyBackend {
	return SnappyBackend{}
}

// Type returns format.BackendSnappy.
func (SnappyBackend) Type() format.Backend {
	return format.BackendSnappy
}

// Encode compresses src into a single Snappy block.
func (SnappyBackend) Encode(dst, src []byte) (int, error) {
	scratch := pool.GetScratch()
	defer pool.PutScratch(scratch)

	bound := snappy.MaxEncodedLen(len(src))
	if bound < 0 || bound > len(scratch.B) {
		return 0, fmt.Errorf("%w: %d", errs.ErrInvalidLength, len(src))
	}

	return fitPayload(dst, snappy.Encode(scratch.B[:bound], src))
}

// Decode expands a Snappy block whose embedded length must equal len(dst).
func (SnappyBackend) Decode(dst, src []byte) (int, error) {
	n, err := snappy.DecodedLen(src)
	if err != nil {
		return 0, fmt.Errorf("%w: snappy: %v", errs.ErrCorruptPayload, err)
	}
	if err := checkDecoded(format.BackendSnappy, n, len(dst)); err != nil {
		return 0, err
	}

	if _, err := snappy.Decode(dst, src); err != nil {
		return 0, fmt.Errorf("%w: snappy: %v", errs.ErrCorruptPayload, err)
	}

	return len(src), nil
}
