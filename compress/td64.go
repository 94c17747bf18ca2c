package compress

import (
	"fmt"
	"math/bits"

	"github.com/arloliu/td512/errs"
	"github.com/arloliu/td512/format"
	"github.com/arloliu/td512/internal/bitstream"
)

const (
	// Td64SingleValue is the variant for blocks made of one repeated byte value.
	// The payload is that byte.
	Td64SingleValue uint8 = 0
	// Td64Segmented is the variant for blocks coded as 64-byte palette segments.
	Td64Segmented uint8 = 1

	td64SegmentSize     = 64
	td64WidthBits       = 3
	td64MaxPaletteWidth = 4
	td64MaxPalette      = 1 << td64MaxPaletteWidth
	td64LiteralWidth    = 7
)

// Td64Coder codes short, low-entropy blocks.
//
// A block of one repeated value costs a single payload byte. Otherwise the
// block is cut into 64-byte segments and each segment is written as one of:
//
//	width 0:    [3 bits: 0][8 bits: value]
//	width 1..4: [3 bits: w][w bits: u-1][u × 8 bits: palette][n × w bits: indices]
//	width 7:    [3 bits: 7][n × 8 bits: literal bytes]
//
// where u is the number of distinct values in the segment (u <= 2^w) and
// the palette lists them in order of first appearance. Each segment takes
// the cheaper of its palette and literal form. The bitstream is padded with
// zero bits to a whole byte.
type Td64Coder struct{}

var _ Coder = (*Td64Coder)(nil)

// NewTd64Coder creates a new Td64 coder.
func NewTd64Coder() Td64Coder {
	return Td64Coder{}
}

// Mode returns format.ModeTd64.
func (c Td64Coder) Mode() format.Mode {
	return format.ModeTd64
}

// TryEncode emits the single-value form when possible, else the segmented form.
func (c Td64Coder) TryEncode(dst, src []byte) (uint8, int, bool) {
	if len(src) == 0 || len(dst) == 0 {
		return 0, 0, false
	}

	if isUniform(src) {
		dst[0] = src[0]
		return Td64SingleValue, 1, true
	}

	bw := bitstream.NewBitWriter(dst)
	for off := 0; off < len(src); off += td64SegmentSize {
		seg := src[off:min(off+td64SegmentSize, len(src))]
		if err := encodeTd64Segment(bw, seg); err != nil {
			return 0, 0, false
		}
	}

	n, err := bw.Flush()
	if err != nil {
		return 0, 0, false
	}

	return Td64Segmented, n, true
}

// Decode reconstructs a Td64 payload.
func (c Td64Coder) Decode(dst, src []byte, variant uint8) (int, error) {
	switch variant {
	case Td64SingleValue:
		if len(src) < 1 {
			return 0, fmt.Errorf("%w: td64 payload empty", errs.ErrCorruptPayload)
		}
		for i := range dst {
			dst[i] = src[0]
		}

		return 1, nil
	case Td64Segmented:
		br := bitstream.NewBitReader(src)
		for off := 0; off < len(dst); off += td64SegmentSize {
			if err := decodeTd64Segment(br, dst[off:min(off+td64SegmentSize, len(dst))]); err != nil {
				return 0, err
			}
		}

		return br.Consumed(), nil
	default:
		return 0, fmt.Errorf("%w: td64 variant %d", errs.ErrCorruptHeader, variant)
	}
}

func isUniform(src []byte) bool {
	first := src[0]
	for _, c := range src[1:] {
		if c != first {
			return false
		}
	}

	return true
}

func encodeTd64Segment(bw *bitstream.BitWriter, seg []byte) error {
	var (
		palette [td64MaxPalette]byte
		slot    [256]uint8 // palette index + 1, zero when absent
		u       int
	)

	for _, c := range seg {
		if slot[c] != 0 {
			continue
		}
		if u == td64MaxPalette {
			return writeTd64Literal(bw, seg)
		}
		palette[u] = c
		u++
		slot[c] = uint8(u) //nolint:gosec
	}

	if u == 1 {
		if err := bw.WriteBits(0, td64WidthBits); err != nil {
			return err
		}

		return bw.WriteByte(palette[0])
	}

	width := bits.Len(uint(u - 1))
	paletteBits := width + 8*u + width*len(seg)
	if paletteBits >= 8*len(seg) {
		return writeTd64Literal(bw, seg)
	}

	w := uint8(width) //nolint:gosec
	if err := bw.WriteBits(uint64(width), td64WidthBits); err != nil {
		return err
	}
	if err := bw.WriteBits(uint64(u-1), w); err != nil { //nolint:gosec
		return err
	}
	for _, c := range palette[:u] {
		if err := bw.WriteByte(c); err != nil {
			return err
		}
	}
	for _, c := range seg {
		if err := bw.WriteBits(uint64(slot[c]-1), w); err != nil {
			return err
		}
	}

	return nil
}

func writeTd64Literal(bw *bitstream.BitWriter, seg []byte) error {
	if err := bw.WriteBits(td64LiteralWidth, td64WidthBits); err != nil {
		return err
	}
	for _, c := range seg {
		if err := bw.WriteByte(c); err != nil {
			return err
		}
	}

	return nil
}

func decodeTd64Segment(br *bitstream.BitReader, seg []byte) error {
	width, err := br.ReadBits(td64WidthBits)
	if err != nil {
		return err
	}

	switch {
	case width == 0:
		v, err := br.ReadByte()
		if err != nil {
			return err
		}
		for i := range seg {
			seg[i] = v
		}
	case width <= td64MaxPaletteWidth:
		w := uint8(width)
		um1, err := br.ReadBits(w)
		if err != nil {
			return err
		}
		u := int(um1) + 1 //nolint:gosec

		var palette [td64MaxPalette]byte
		for i := 0; i < u; i++ {
			if palette[i], err = br.ReadByte(); err != nil {
				return err
			}
		}
		for i := range seg {
			idx, err := br.ReadBits(w)
			if err != nil {
				return err
			}
			if int(idx) >= u { //nolint:gosec
				return fmt.Errorf("%w: td64 palette index %d out of %d", errs.ErrCorruptPayload, idx, u)
			}
			seg[i] = palette[idx]
		}
	case width == td64LiteralWidth:
		for i := range seg {
			c, err := br.ReadByte()
			if err != nil {
				return err
			}
			seg[i] = c
		}
	default:
		return fmt.Errorf("%w: td64 segment width %d", errs.ErrCorruptPayload, width)
	}

	return nil
}
