// Package section defines the compressed block header and the block length
// bounds shared by the encoder and decoder.
//
// # Block Layout
//
// Every compressed block is a header followed by a mode-specific payload:
//
//	┌──────────────────────────────────────────────────────────┐
//	│ byte 0: bits 0-2 mode, bits 3-5 variant,                 │
//	│         bits 6-7 = bits 8-9 of the decoded length        │
//	│ byte 1: bits 0-7 of the decoded length                   │
//	├──────────────────────────────────────────────────────────┤
//	│ payload size (uvarint, 1-2 bytes, framed variants only)  │
//	├──────────────────────────────────────────────────────────┤
//	│ payload                                                  │
//	└──────────────────────────────────────────────────────────┘
//
// The decoded length is stored as-is (not minus one) so that 0 and values
// above 512 are detectable as corruption. Mode 0 and modes 5-7 are invalid,
// which makes a zeroed buffer fail to parse.
//
// Framed variants are the ExtendedString backends whose payload format is
// not self-delimiting (LZ4, Huffman, S2, Snappy, Zstd). For every other
// variant the payload decoder reports how many bytes it consumed. Framed
// payloads are always shorter than the block, so the size prefix never
// takes more than two bytes and the header never exceeds MaxHeaderSize.
package section
