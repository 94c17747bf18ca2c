package compress

import (
	"bytes"
	"fmt"

	"github.com/arloliu/td512/errs"
	"github.com/arloliu/td512/format"
	"github.com/arloliu/td512/internal/bitstream"
)

const (
	textCodeBits      = 4
	textTier1Count    = 14
	textEscapeTier2   = 14
	textEscapeLiteral = 15
)

// Static code tables tuned on English prose. Tier 1 costs 4 bits per entry,
// tier 2 costs 8 bits and any other byte costs 12 bits.
var (
	textTier1 = [textTier1Count]byte{' ', 'e', 't', 'a', 'o', 'i', 'n', 's', 'r', 'h', 'l', 'd', 'c', 'u'}
	textTier2 = [16]string{
		"the", "and", "ing",
		"m", "w", "f", "g", "y", "p", "b", ",", ".", "v", "k", "\n", "'",
	}
)

// textWords is the number of leading multi-byte entries in textTier2.
const textWords = 3

var textTier1Code, textTier2Code = buildTextCodes()

func buildTextCodes() (tier1, tier2 [256]int8) {
	for i := range tier1 {
		tier1[i] = -1
		tier2[i] = -1
	}
	for i, c := range textTier1 {
		tier1[c] = int8(i) //nolint:gosec
	}
	for i, s := range textTier2[textWords:] {
		tier2[s[0]] = int8(i + textWords) //nolint:gosec
	}

	return tier1, tier2
}

// TextCoder codes human-readable text with a static three-tier nibble code.
//
//	code 0..13:       tier 1 byte (space and the most frequent lowercase letters)
//	code 14 + 4 bits: tier 2 entry (common words, further letters, punctuation)
//	code 15 + 8 bits: literal byte
//
// Encoding is greedy and prefers the word entries. Blocks where more than
// one byte in eight is not printable ASCII are rejected before any coding
// work is done.
type TextCoder struct{}

var _ Coder = (*TextCoder)(nil)

// NewTextCoder creates a new text coder.
func NewTextCoder() TextCoder {
	return TextCoder{}
}

// Mode returns format.ModeExtendedText.
func (c TextCoder) Mode() format.Mode {
	return format.ModeExtendedText
}

// TryEncode codes src when it looks like text and the result fits in dst.
func (c TextCoder) TryEncode(dst, src []byte) (uint8, int, bool) {
	if len(src) == 0 || len(dst) == 0 || !looksLikeText(src) {
		return 0, 0, false
	}

	bw := bitstream.NewBitWriter(dst)
	for pos := 0; pos < len(src); {
		n, err := encodeTextSymbol(bw, src[pos:])
		if err != nil {
			return 0, 0, false
		}
		pos += n
	}

	n, err := bw.Flush()
	if err != nil {
		return 0, 0, false
	}

	return 0, n, true
}

// Decode reconstructs a text payload.
func (c TextCoder) Decode(dst, src []byte, variant uint8) (int, error) {
	if variant != 0 {
		return 0, fmt.Errorf("%w: text variant %d", errs.ErrCorruptHeader, variant)
	}

	br := bitstream.NewBitReader(src)
	for pos := 0; pos < len(dst); {
		code, err := br.ReadBits(textCodeBits)
		if err != nil {
			return 0, err
		}

		switch {
		case code < textTier1Count:
			dst[pos] = textTier1[code]
			pos++
		case code == textEscapeTier2:
			idx, err := br.ReadBits(textCodeBits)
			if err != nil {
				return 0, err
			}
			entry := textTier2[idx]
			if pos+len(entry) > len(dst) {
				return 0, fmt.Errorf("%w: text entry %q overruns block at %d", errs.ErrCorruptPayload, entry, pos)
			}
			pos += copy(dst[pos:], entry)
		default:
			v, err := br.ReadByte()
			if err != nil {
				return 0, err
			}
			dst[pos] = v
			pos++
		}
	}

	return br.Consumed(), nil
}

func looksLikeText(src []byte) bool {
	other := 0
	for _, c := range src {
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c < 0x7F) {
			continue
		}
		other++
	}

	return other*8 <= len(src)
}

// encodeTextSymbol writes the code for the longest entry at the start of
// src and returns how many bytes it covered.
func encodeTextSymbol(bw *bitstream.BitWriter, src []byte) (int, error) {
	for i, word := range textTier2[:textWords] {
		if bytes.HasPrefix(src, []byte(word)) {
			return len(word), writeTextCode(bw, textEscapeTier2, i)
		}
	}

	c := src[0]
	if code := textTier1Code[c]; code >= 0 {
		return 1, bw.WriteBits(uint64(code), textCodeBits) //nolint:gosec
	}
	if idx := textTier2Code[c]; idx >= 0 {
		return 1, writeTextCode(bw, textEscapeTier2, int(idx))
	}

	return 1, writeTextCode(bw, textEscapeLiteral, int(c))
}

func writeTextCode(bw *bitstream.BitWriter, escape uint64, value int) error {
	if err := bw.WriteBits(escape, textCodeBits); err != nil {
		return err
	}
	if escape == textEscapeLiteral {
		return bw.WriteByte(byte(value))
	}

	return bw.WriteBits(uint64(value), textCodeBits) //nolint:gosec
}
