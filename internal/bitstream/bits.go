package bitstream

import (
	"fmt"

	"github.com/icza/bitio"

	"github.com/arloliu/td512/errs"
)

// BitWriter writes MSB-first bit fields into a bounded buffer.
type BitWriter struct {
	sink *ByteWriter
	w    *bitio.Writer
}

// NewBitWriter creates a bit writer whose capacity is len(buf) bytes.
func NewBitWriter(buf []byte) *BitWriter {
	sink := NewByteWriter(buf)

	return &BitWriter{sink: sink, w: bitio.NewWriter(sink)}
}

// WriteBits writes the n low bits of v, most significant first. n must be in [0, 64].
func (b *BitWriter) WriteBits(v uint64, n uint8) error {
	if n == 0 {
		return nil
	}
	if n < 64 {
		v &= 1<<n - 1
	}

	return b.w.WriteBits(v, n)
}

// WriteBool writes a single bit.
func (b *BitWriter) WriteBool(bit bool) error {
	return b.w.WriteBool(bit)
}

// WriteByte writes 8 bits.
func (b *BitWriter) WriteByte(c byte) error {
	return b.w.WriteByte(c)
}

// Flush pads the pending partial byte with zero bits and returns the total
// number of bytes written to the buffer.
func (b *BitWriter) Flush() (int, error) {
	if _, err := b.w.Align(); err != nil {
		return 0, err
	}

	return b.sink.Len(), nil
}

// BitReader reads MSB-first bit fields from a buffer.
type BitReader struct {
	src *ByteReader
	r   *bitio.Reader
}

// NewBitReader creates a bit reader over buf.
func NewBitReader(buf []byte) *BitReader {
	src := NewByteReader(buf)

	return &BitReader{src: src, r: bitio.NewReader(src)}
}

// ReadBits reads an n-bit field. n must be in [0, 64]. Running out of input
// is reported as errs.ErrCorruptPayload.
func (b *BitReader) ReadBits(n uint8) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	v, err := b.r.ReadBits(n)
	if err != nil {
		return 0, fmt.Errorf("%w: reading %d bits: %v", errs.ErrCorruptPayload, n, err)
	}

	return v, nil
}

// ReadBool reads a single bit.
func (b *BitReader) ReadBool() (bool, error) {
	bit, err := b.r.ReadBool()
	if err != nil {
		return false, fmt.Errorf("%w: reading bit: %v", errs.ErrCorruptPayload, err)
	}

	return bit, nil
}

// ReadByte reads 8 bits.
func (b *BitReader) ReadByte() (byte, error) {
	c, err := b.r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w: reading byte: %v", errs.ErrCorruptPayload, err)
	}

	return c, nil
}

// Consumed returns the number of source bytes pulled so far, including a
// partially read final byte.
func (b *BitReader) Consumed() int {
	return b.src.Pos()
}
