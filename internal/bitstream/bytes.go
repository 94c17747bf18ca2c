package bitstream

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/arloliu/td512/errs"
)

// ByteWriter is a bounded write cursor over a caller-owned buffer.
// It implements io.Writer and io.ByteWriter.
type ByteWriter struct {
	buf []byte
	pos int
}

var (
	_ io.Writer     = (*ByteWriter)(nil)
	_ io.ByteWriter = (*ByteWriter)(nil)
)

// NewByteWriter creates a writer whose capacity is len(buf).
func NewByteWriter(buf []byte) *ByteWriter {
	return &ByteWriter{buf: buf}
}

// WriteByte appends one byte.
func (w *ByteWriter) WriteByte(c byte) error {
	if w.pos >= len(w.buf) {
		return errs.ErrBufferTooSmall
	}
	w.buf[w.pos] = c
	w.pos++

	return nil
}

// Write appends p in full or not at all.
func (w *ByteWriter) Write(p []byte) (int, error) {
	if len(p) > len(w.buf)-w.pos {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrBufferTooSmall, len(p), len(w.buf)-w.pos)
	}
	copy(w.buf[w.pos:], p)
	w.pos += len(p)

	return len(p), nil
}

// WriteUvarint appends v as a length-prefix style unsigned varint.
func (w *ByteWriter) WriteUvarint(v uint64) error {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	_, err := w.Write(tmp[:n])

	return err
}

// Len returns the number of bytes written.
func (w *ByteWriter) Len() int {
	return w.pos
}

// Available returns the number of bytes that can still be written.
func (w *ByteWriter) Available() int {
	return len(w.buf) - w.pos
}

// Bytes returns the written part of the buffer.
func (w *ByteWriter) Bytes() []byte {
	return w.buf[:w.pos]
}

// ByteReader is a read cursor over a caller-owned buffer.
// It implements io.Reader and io.ByteReader.
type ByteReader struct {
	buf []byte
	pos int
}

var (
	_ io.Reader     = (*ByteReader)(nil)
	_ io.ByteReader = (*ByteReader)(nil)
)

// NewByteReader creates a reader over buf.
func NewByteReader(buf []byte) *ByteReader {
	return &ByteReader{buf: buf}
}

// ReadByte returns the next byte, or io.EOF at the end of the buffer.
func (r *ByteReader) ReadByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, io.EOF
	}
	c := r.buf[r.pos]
	r.pos++

	return c, nil
}

// Read implements io.Reader.
func (r *ByteReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.pos >= len(r.buf) {
		return 0, io.EOF
	}
	n := copy(p, r.buf[r.pos:])
	r.pos += n

	return n, nil
}

// ReadFull fills p completely or fails with errs.ErrCorruptPayload without
// moving the cursor.
func (r *ByteReader) ReadFull(p []byte) error {
	if len(p) > len(r.buf)-r.pos {
		return fmt.Errorf("%w: need %d bytes, have %d", errs.ErrCorruptPayload, len(p), len(r.buf)-r.pos)
	}
	copy(p, r.buf[r.pos:])
	r.pos += len(p)

	return nil
}

// ReadUvarint reads an unsigned varint. Truncated, overflowing and
// non-minimal encodings are rejected so that every value has exactly one
// byte representation.
func (r *ByteReader) ReadUvarint() (uint64, error) {
	v, n := binary.Uvarint(r.buf[r.pos:])
	switch {
	case n == 0:
		return 0, fmt.Errorf("%w: truncated varint", errs.ErrCorruptPayload)
	case n < 0:
		return 0, fmt.Errorf("%w: varint overflow", errs.ErrCorruptPayload)
	case n != UvarintLen(v):
		return 0, fmt.Errorf("%w: non-minimal varint", errs.ErrCorruptPayload)
	}
	r.pos += n

	return v, nil
}

// Pos returns the number of bytes consumed so far.
func (r *ByteReader) Pos() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *ByteReader) Remaining() int {
	return len(r.buf) - r.pos
}

// UvarintLen returns the encoded size of v as an unsigned varint.
func UvarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}

	return n
}
