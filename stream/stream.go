package stream

import (
	"fmt"

	"github.com/arloliu/td512/block"
	"github.com/arloliu/td512/section"
)

// MaxEncodedLen returns the largest possible stream size for n bytes of input.
func MaxEncodedLen(n int) int {
	blocks := (n + section.MaxBlockSize - 1) / section.MaxBlockSize

	return n + blocks*section.MaxBlockOverhead
}

// EncodeAll compresses src as a sequence of full-size blocks followed by a
// shorter tail block, and returns the concatenated result. An empty src
// encodes to an empty stream.
func EncodeAll(enc *block.Encoder, src []byte) ([]byte, error) {
	return AppendEncodeAll(enc, nil, src)
}

// AppendEncodeAll appends the stream encoding of src to dst.
func AppendEncodeAll(enc *block.Encoder, dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst, nil
	}

	if cap(dst)-len(dst) < MaxEncodedLen(len(src)) {
		grown := make([]byte, len(dst), len(dst)+MaxEncodedLen(len(src)))
		copy(grown, dst)
		dst = grown
	}

	for off := 0; off < len(src); off += section.MaxBlockSize {
		end := min(off+section.MaxBlockSize, len(src))

		var err error
		dst, err = enc.AppendEncode(dst, src[off:end])
		if err != nil {
			return dst, fmt.Errorf("block at input offset %d: %w", off, err)
		}
	}

	return dst, nil
}

// DecodeAll decompresses a concatenated stream of blocks.
//
// Parameters:
//   - dec: Block decoder
//   - src: Encoded stream
//   - sizeHint: Expected decoded size used to preallocate the result; 0 if unknown
//
// Returns:
//   - []byte: Decoded data
//   - error: Block decoding error, wrapped with the offset of the failing block
func DecodeAll(dec *block.Decoder, src []byte, sizeHint int) ([]byte, error) {
	dst := make([]byte, 0, max(sizeHint, 0))
	for pos := 0; pos < len(src); {
		var (
			consumed int
			err      error
		)
		dst, consumed, err = dec.AppendDecode(dst, src[pos:])
		if err != nil {
			return dst, fmt.Errorf("block at stream offset %d: %w", pos, err)
		}
		pos += consumed
	}

	return dst, nil
}
