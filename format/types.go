// Package format defines the mode and ExtendedString backend identifiers
// stored in td512 block headers.
package format

import "strings"

type (
	// Mode identifies the coding strategy bound to one compressed block.
	Mode uint8
	// Backend identifies the sub-format used by ModeExtendedString.
	Backend uint8
)

const (
	ModeRaw            Mode = 0x1 // ModeRaw stores the block verbatim.
	ModeTd64           Mode = 0x2 // ModeTd64 codes short, low-entropy blocks with per-segment palettes.
	ModeExtendedString Mode = 0x3 // ModeExtendedString codes arbitrary binary blocks.
	ModeExtendedText   Mode = 0x4 // ModeExtendedText codes human-readable text blocks.

	// ModeCount is one past the largest valid mode value.
	ModeCount = 5
)

const (
	BackendNative  Backend = 0x0 // BackendNative is the built-in bit-packed LZ coder.
	BackendLZ4     Backend = 0x1 // BackendLZ4 is an LZ4 block.
	BackendHuffman Backend = 0x2 // BackendHuffman is a huff0 1X stream.
	BackendS2      Backend = 0x3 // BackendS2 is an S2 block.
	BackendSnappy  Backend = 0x4 // BackendSnappy is a Snappy block.
	BackendZstd    Backend = 0x5 // BackendZstd is a single zstd frame.

	// BackendCount is one past the largest valid backend value.
	BackendCount = 6
)

// Modes lists every valid mode in tag order.
var Modes = []Mode{ModeRaw, ModeTd64, ModeExtendedString, ModeExtendedText}

// Backends lists every ExtendedString backend in variant order.
var Backends = []Backend{BackendNative, BackendLZ4, BackendHuffman, BackendS2, BackendSnappy, BackendZstd}

// IsValid reports whether m is one of the four known modes.
func (m Mode) IsValid() bool {
	return m >= ModeRaw && m <= ModeExtendedText
}

func (m Mode) String() string {
	switch m {
	case ModeRaw:
		return "Raw"
	case ModeTd64:
		return "Td64"
	case ModeExtendedString:
		return "ExtendedString"
	case ModeExtendedText:
		return "ExtendedText"
	default:
		return "Unknown"
	}
}

// IsValid reports whether b is a known ExtendedString backend.
func (b Backend) IsValid() bool {
	return b < BackendCount
}

// Framed reports whether payloads of this backend carry an explicit size prefix.
// Only the native coder is self-delimiting.
func (b Backend) Framed() bool {
	return b != BackendNative
}

func (b Backend) String() string {
	switch b {
	case BackendNative:
		return "Native"
	case BackendLZ4:
		return "LZ4"
	case BackendHuffman:
		return "Huffman"
	case BackendS2:
		return "S2"
	case BackendSnappy:
		return "Snappy"
	case BackendZstd:
		return "Zstd"
	default:
		return "Unknown"
	}
}

// ParseBackend maps a backend name, as returned by String, to its value. Matching ignores case.
func ParseBackend(name string) (Backend, bool) {
	for _, b := range Backends {
		if strings.EqualFold(b.String(), name) {
			return b, true
		}
	}

	return 0, false
}
