package compress

import (
	"fmt"
	"sync"

	"github.com/arloliu/td512/errs"
	"github.com/arloliu/td512/format"
	"github.com/arloliu/td512/internal/pool"
	"github.com/klauspost/compress/zstd"
)

// zstdDecoderPool pools zstd decoders for reuse.
// The decoder is designed to operate without allocations after a warmup.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
			zstd.WithDecoderMaxMemory(1<<20),
		)
		if err != nil {
			// This should never happen with valid options
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

// zstdEncoderPool pools zstd encoders for reuse.
var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			// This should never happen with valid options
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}

		return encoder
	},
}

// ZstdBackend stores ExtendedString payloads as a single zstd frame without
// checksum. Frame overhead makes it rarely the smallest choice for short
// blocks, but it wins on long blocks with distant repeats.
type ZstdBackend struct{}

var _ Backend = (*ZstdBackend)(nil)

// NewZstdBackend creates a new Zstd backend.
func NewZstdBackend() ZstdBackend {
	return ZstdBackend{}
}

// Type returns format.BackendZstd.
func (ZstdBackend) Type() format.Backend {
	return format.BackendZstd
}

// Encode compresses src into one zstd frame using a pooled encoder.
func (ZstdBackend) Encode(dst, src []byte) (int, error) {
	encoder, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	scratch := pool.GetScratch()
	defer pool.PutScratch(scratch)

	// EncodeAll is stateless and safe to use with a pooled encoder
	return fitPayload(dst, encoder.EncodeAll(src, scratch.B[:0]))
}

// Decode expands a zstd frame that must produce exactly len(dst) bytes.
func (ZstdBackend) Decode(dst, src []byte) (int, error) {
	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	out, err := decoder.DecodeAll(src, dst[:0])
	if err != nil {
		return 0, fmt.Errorf("%w: zstd: %v", errs.ErrCorruptPayload, err)
	}
	if err := checkDecoded(format.BackendZstd, len(out), len(dst)); err != nil {
		return 0, err
	}
	copy(dst, out)

	return len(src), nil
}
