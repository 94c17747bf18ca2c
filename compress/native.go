package compress

import (
	"fmt"
	"math/bits"

	"github.com/arloliu/td512/errs"
	"github.com/arloliu/td512/format"
	"github.com/arloliu/td512/internal/bitstream"
	"github.com/arloliu/td512/section"
)

const (
	lzMinMatch  = 3
	lzHashBits  = 10
	lzHashSize  = 1 << lzHashBits
	lzMaxChain  = 32
	lzMaxGammaZ = 9 // a 512-byte match needs 8 leading zeros
)

// NativeBackend is a bit-packed LZ77 coder sized for single small blocks.
//
// Tokens start with a flag bit:
//
//	0: [8 bits: literal]
//	1: [offset-1 in bits.Len(pos-1) bits][gamma(length-2)]
//
// The offset field width grows with the output position, so early matches
// are cheap. Lengths start at 3 and use Elias-gamma coding; matches may
// overlap the bytes they produce. The payload is self-delimiting because
// the decoder stops at the declared block length.
type NativeBackend struct{}

var _ Backend = (*NativeBackend)(nil)

// NewNativeBackend creates a new native LZ backend.
func NewNativeBackend() NativeBackend {
	return NativeBackend{}
}

// Type returns format.BackendNative.
func (NativeBackend) Type() format.Backend {
	return format.BackendNative
}

// Encode greedily parses src into literals and matches.
func (NativeBackend) Encode(dst, src []byte) (int, error) {
	if len(src) > section.MaxBlockSize {
		return 0, fmt.Errorf("%w: %d", errs.ErrInvalidLength, len(src))
	}

	var m lzMatcher
	m.reset()

	bw := bitstream.NewBitWriter(dst)
	for pos := 0; pos < len(src); {
		offset, length := m.find(src, pos)
		if length < lzMinMatch {
			if err := bw.WriteBool(false); err != nil {
				return 0, err
			}
			if err := bw.WriteByte(src[pos]); err != nil {
				return 0, err
			}
			m.insert(src, pos)
			pos++

			continue
		}

		if err := bw.WriteBool(true); err != nil {
			return 0, err
		}
		if err := bw.WriteBits(uint64(offset-1), offsetWidth(pos)); err != nil { //nolint:gosec
			return 0, err
		}
		if err := writeGamma(bw, length-2); err != nil {
			return 0, err
		}
		for end := pos + length; pos < end; pos++ {
			m.insert(src, pos)
		}
	}

	return bw.Flush()
}

// Decode replays tokens until len(dst) bytes are produced.
func (NativeBackend) Decode(dst, src []byte) (int, error) {
	br := bitstream.NewBitReader(src)
	for pos := 0; pos < len(dst); {
		isMatch, err := br.ReadBool()
		if err != nil {
			return 0, err
		}
		if !isMatch {
			if dst[pos], err = br.ReadByte(); err != nil {
				return 0, err
			}
			pos++

			continue
		}

		if pos == 0 {
			return 0, fmt.Errorf("%w: match before first literal", errs.ErrCorruptPayload)
		}
		offm1, err := br.ReadBits(offsetWidth(pos))
		if err != nil {
			return 0, err
		}
		offset := int(offm1) + 1 //nolint:gosec
		if offset > pos {
			return 0, fmt.Errorf("%w: match offset %d at position %d", errs.ErrCorruptPayload, offset, pos)
		}
		g, err := readGamma(br)
		if err != nil {
			return 0, err
		}
		length := g + 2
		if pos+length > len(dst) {
			return 0, fmt.Errorf("%w: match length %d overruns block at %d", errs.ErrCorruptPayload, length, pos)
		}
		for end := pos + length; pos < end; pos++ {
			dst[pos] = dst[pos-offset]
		}
	}

	return br.Consumed(), nil
}

// offsetWidth returns the bits needed for an offset-1 value at output position pos >= 1.
func offsetWidth(pos int) uint8 {
	return uint8(bits.Len(uint(pos - 1))) //nolint:gosec
}

func writeGamma(bw *bitstream.BitWriter, v int) error {
	n := uint8(bits.Len(uint(v))) //nolint:gosec
	if err := bw.WriteBits(0, n-1); err != nil {
		return err
	}

	return bw.WriteBits(uint64(v), n) //nolint:gosec
}

func readGamma(br *bitstream.BitReader) (int, error) {
	var zeros uint8
	for {
		bit, err := br.ReadBool()
		if err != nil {
			return 0, err
		}
		if bit {
			break
		}
		zeros++
		if zeros > lzMaxGammaZ {
			return 0, fmt.Errorf("%w: gamma code too long", errs.ErrCorruptPayload)
		}
	}

	rest, err := br.ReadBits(zeros)
	if err != nil {
		return 0, err
	}

	return 1<<zeros | int(rest), nil //nolint:gosec
}

// lzMatcher is a hash-chain match finder over 3-byte prefixes. Positions
// fit in int16 because blocks never exceed 512 bytes.
type lzMatcher struct {
	head [lzHashSize]int16
	prev [section.MaxBlockSize]int16
}

func (m *lzMatcher) reset() {
	for i := range m.head {
		m.head[i] = -1
	}
}

func lzHash(b []byte) uint32 {
	v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	return (v * 2654435761) >> (32 - lzHashBits)
}

func (m *lzMatcher) insert(src []byte, pos int) {
	if pos+lzMinMatch > len(src) {
		return
	}
	h := lzHash(src[pos:])
	m.prev[pos] = m.head[h]
	m.head[h] = int16(pos) //nolint:gosec
}

// find returns the longest earlier match for src[pos:], preferring the
// closest candidate among equal lengths.
func (m *lzMatcher) find(src []byte, pos int) (offset, length int) {
	if pos+lzMinMatch > len(src) {
		return 0, 0
	}

	maxLen := len(src) - pos
	cand := int(m.head[lzHash(src[pos:])])
	for depth := 0; cand >= 0 && depth < lzMaxChain; depth++ {
		n := 0
		for n < maxLen && src[cand+n] == src[pos+n] {
			n++
		}
		if n > length {
			offset, length = pos-cand, n
			if n == maxLen {
				break
			}
		}
		cand = int(m.prev[cand])
	}

	return offset, length
}
