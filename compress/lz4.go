package compress

import (
	"fmt"
	"sync"

	"github.com/arloliu/td512/errs"
	"github.com/arloliu/td512/format"
	"github.com/arloliu/td512/internal/pool"
	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances for reuse.
// The lz4.Compressor maintains a hash table that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Backend stores ExtendedString payloads as raw LZ4 blocks.
type LZ4Backend struct{}

var _ Backend = (*LZ4Backend)(nil)

// NewLZ4Backend creates a new LZ4 backend.
//
// Returns:
//   - LZ4Backend: New LZ4 backend instance
func NewLZ4Backend() LZ4Backend {
	return LZ4Backend{}
}

// Type returns format.BackendLZ4.
func (LZ4Backend) Type() format.Backend {
	return format.BackendLZ4
}

// Encode compresses src into a single LZ4 block.
//
// Uses a pooled lz4.Compressor and a pooled work area sized to
// lz4.CompressBlockBound, so the call does not allocate.
func (LZ4Backend) Encode(dst, src []byte) (int, error) {
	scratch := pool.GetScratch()
	defer pool.PutScratch(scratch)

	bound := lz4.CompressBlockBound(len(src))
	if bound > len(scratch.B) {
		return 0, fmt.Errorf("%w: %d", errs.ErrInvalidLength, len(src))
	}

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(src, scratch.B[:bound])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, errIncompressible
	}

	return fitPayload(dst, scratch.B[:n])
}

// Decode expands an LZ4 block that must produce exactly len(dst) bytes.
func (LZ4Backend) Decode(dst, src []byte) (int, error) {
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return 0, fmt.Errorf("%w: lz4: %v", errs.ErrCorruptPayload, err)
	}
	if err := checkDecoded(format.BackendLZ4, n, len(dst)); err != nil {
		return 0, err
	}

	return len(src), nil
}
