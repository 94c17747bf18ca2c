package stream

import (
	"errors"
	"io"

	"github.com/arloliu/td512/block"
	"github.com/arloliu/td512/internal/pool"
	"github.com/arloliu/td512/section"
)

// ErrClosed is returned by a Writer used after Close.
var ErrClosed = errors.New("stream: writer closed")

// Writer compresses everything written to it into an underlying io.Writer.
//
// Input is cut into full-size blocks as it arrives; a partial block is held
// back until more data or Close. Encoded blocks are batched in a pooled
// buffer and written out once the batch fills up, on Flush and on Close.
//
// Note: Writer is NOT thread-safe.
type Writer struct {
	w       io.Writer
	enc     *block.Encoder
	pending [section.MaxBlockSize]byte
	npend   int
	out     *pool.ByteBuffer
	written int64
	err     error
}

var _ io.WriteCloser = (*Writer)(nil)

// NewWriter creates a Writer that sends the encoded stream to w.
func NewWriter(w io.Writer, enc *block.Encoder) *Writer {
	return &Writer{
		w:   w,
		enc: enc,
		out: pool.GetStreamBuffer(),
	}
}

// Write compresses p. It returns len(p) unless a block fails to encode or
// the underlying writer fails; the error is sticky.
func (w *Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}

	total := len(p)
	for len(p) > 0 {
		if w.npend == 0 && len(p) >= section.MaxBlockSize {
			if err := w.encodeBlock(p[:section.MaxBlockSize]); err != nil {
				return total - len(p), err
			}
			p = p[section.MaxBlockSize:]

			continue
		}

		n := copy(w.pending[w.npend:], p)
		w.npend += n
		p = p[n:]
		if w.npend == section.MaxBlockSize {
			if err := w.encodeBlock(w.pending[:]); err != nil {
				return total - len(p), err
			}
			w.npend = 0
		}
	}

	return total, nil
}

// Flush encodes any partial block and writes all buffered output.
//
// Flushing in the middle of a stream produces a short block, which costs
// some compression but keeps the stream valid.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}

	if w.npend > 0 {
		if err := w.encodeBlock(w.pending[:w.npend]); err != nil {
			return err
		}
		w.npend = 0
	}

	return w.flushOutput()
}

// Close flushes the remaining data and releases the batch buffer. It does
// not close the underlying writer.
func (w *Writer) Close() error {
	if errors.Is(w.err, ErrClosed) {
		return nil
	}

	err := w.Flush()
	pool.PutStreamBuffer(w.out)
	w.out = nil
	if err == nil {
		w.err = ErrClosed
	}

	return err
}

// Written returns the number of encoded bytes sent to the underlying writer.
func (w *Writer) Written() int64 {
	return w.written
}

func (w *Writer) encodeBlock(src []byte) error {
	w.out.Grow(len(src) + section.MaxBlockOverhead)

	var err error
	w.out.B, err = w.enc.AppendEncode(w.out.B, src)
	if err != nil {
		w.err = err
		return err
	}

	if w.out.Len() >= pool.StreamBufferDefaultSize-section.MaxBlockSize-section.MaxBlockOverhead {
		return w.flushOutput()
	}

	return nil
}

func (w *Writer) flushOutput() error {
	if w.out.Len() == 0 {
		return nil
	}

	n, err := w.w.Write(w.out.Bytes())
	w.written += int64(n)
	if err == nil && n < w.out.Len() {
		err = io.ErrShortWrite
	}
	if err != nil {
		w.err = err
		return err
	}
	w.out.Reset()

	return nil
}
