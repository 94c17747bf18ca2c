// Package compress provides the block coders behind the td512 modes.
//
// Every block is coded by exactly one Coder, identified by the mode tag in
// the block header. Coders never see the header; they read and write
// payloads only, and the variant they return is stored next to the mode.
//
// # Coders
//
//   - RawCoder (format.ModeRaw): verbatim copy, always applicable.
//   - Td64Coder (format.ModeTd64): single-value blocks and per-segment
//     palettes for blocks with few distinct byte values.
//   - StringCoder (format.ModeExtendedString): arbitrary binary data, coded
//     by the best of a configurable set of backends.
//   - TextCoder (format.ModeExtendedText): static nibble code for text.
//
// # ExtendedString Backends
//
// The backend number is stored as the block variant:
//
//	0 Native   bit-packed LZ77, self-delimiting
//	1 LZ4      raw LZ4 block (github.com/pierrec/lz4/v4)
//	2 Huffman  huff0 1X stream (github.com/klauspost/compress/huff0)
//	3 S2       S2 block (github.com/klauspost/compress/s2)
//	4 Snappy   Snappy block (github.com/golang/snappy)
//	5 Zstd     zstd frame (github.com/klauspost/compress/zstd)
//
// Library formats are not self-delimiting inside a td512 stream, so their
// payloads are framed by a size prefix in the block header. The framing
// cost is counted when StringCoder compares backends.
//
// # Usage
//
//	coder, _ := compress.CreateCoder(format.ModeExtendedString, format.BackendNative, format.BackendZstd)
//	variant, n, ok := coder.TryEncode(dst[:len(src)-1], src)
//	if ok {
//		consumed, err := coder.Decode(out[:len(src)], dst[:n], variant)
//	}
//
// # Thread Safety
//
// All coders and backends are stateless values and safe for concurrent
// use. Library state (lz4 compressors, zstd encoders and decoders, huff0
// scratch) is pooled with sync.Pool.
package compress
