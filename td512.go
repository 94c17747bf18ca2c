// Package td512 is a lossless codec for tiny, independent data blocks.
//
// Each block holds 1 to 512 bytes and is compressed on its own, without
// any state shared with other blocks. The encoder picks the smallest of
// four coding modes per block and never grows a block by more than
// MaxBlockOverhead bytes, so td512 is suited to records, packets and
// other payloads too small for general-purpose compressors.
//
// # Modes
//
//   - Raw: the block stored verbatim, used when nothing else is smaller.
//   - Td64: blocks of one repeated value, or few distinct values per 64 bytes.
//   - ExtendedString: arbitrary binary data, via an LZ77 coder or a library
//     backend (LZ4, Huffman, S2, Snappy, Zstd).
//   - ExtendedText: human-readable text.
//
// # Basic Usage
//
// Encoding and decoding a block with the package-level codec:
//
//	import "github.com/arloliu/td512"
//
//	dst := make([]byte, td512.MaxEncodedLen(len(src)))
//	n, err := td512.Encode(dst, src)
//	if err != nil {
//	    return err
//	}
//
//	out := make([]byte, td512.MaxBlockSize)
//	size, consumed, err := td512.Decode(out, dst[:n])
//
// Encoded blocks are self-delimiting: consumed tells how far to advance
// in a buffer of concatenated blocks. The stream package builds on this to
// compress inputs of any size.
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the block
// package. For custom mode sets, ExtendedString backends or private
// counters, use block.NewEncoder directly.
package td512

import (
	"github.com/arloliu/td512/block"
	"github.com/arloliu/td512/internal/hash"
	"github.com/arloliu/td512/section"
)

const (
	// MinBlockSize is the smallest block length accepted by Encode.
	MinBlockSize = section.MinBlockSize
	// MaxBlockSize is the largest block length accepted by Encode.
	MaxBlockSize = section.MaxBlockSize
	// MaxBlockOverhead is the largest number of bytes encoding can add to a block.
	MaxBlockOverhead = section.MaxBlockOverhead
)

// counters records the modes chosen by the package-level encoder.
var counters = block.NewCounters()

var (
	defaultEncoder = mustEncoder(block.WithCounters(counters))
	defaultDecoder = block.NewDecoder()
)

func mustEncoder(opts ...block.EncoderOption) *block.Encoder {
	enc, err := block.NewEncoder(opts...)
	if err != nil {
		panic(err)
	}

	return enc
}

// NewEncoder creates a block encoder.
//
// Unlike the package-level functions, the returned encoder records its mode
// choices only in counters passed with block.WithCounters.
func NewEncoder(opts ...block.EncoderOption) (*block.Encoder, error) {
	return block.NewEncoder(opts...)
}

// NewDecoder creates a block decoder.
func NewDecoder() *block.Decoder {
	return block.NewDecoder()
}

// MaxEncodedLen returns the largest possible encoded size of an n-byte block.
func MaxEncodedLen(n int) int {
	return n + MaxBlockOverhead
}

// Encode compresses one block of 1 to 512 bytes from src into dst and
// returns the number of bytes written. A dst of MaxEncodedLen(len(src))
// bytes is always large enough.
//
// The chosen mode is recorded in the process-wide counters reported by ModeCounts.
func Encode(dst, src []byte) (int, error) {
	return defaultEncoder.Encode(dst, src)
}

// AppendEncode appends the encoded form of src to dst.
func AppendEncode(dst, src []byte) ([]byte, error) {
	return defaultEncoder.AppendEncode(dst, src)
}

// Decode decompresses the block at the start of src into dst.
//
// Returns:
//   - n: Decoded block length
//   - consumed: Encoded size of the block, the offset of any following block in src
//   - err: Corrupt header or payload, or dst shorter than the block
func Decode(dst, src []byte) (n, consumed int, err error) {
	return defaultDecoder.Decode(dst, src)
}

// AppendDecode appends the block at the start of src to dst and reports
// the number of bytes of src consumed.
func AppendDecode(dst, src []byte) ([]byte, int, error) {
	return defaultDecoder.AppendDecode(dst, src)
}

// DecodedLen returns the block length declared by the header at the start of src.
func DecodedLen(src []byte) (int, error) {
	return defaultDecoder.DecodedLen(src)
}

// ModeCounts returns how many blocks the package-level encoder has
// encoded with each mode since the process started.
func ModeCounts() block.Snapshot {
	return counters.Snapshot()
}

// Checksum returns the xxHash64 digest of data, for verifying round trips.
func Checksum(data []byte) uint64 {
	return hash.Sum(data)
}
