package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/td512/block"
	"github.com/arloliu/td512/section"
)

const readerBufferSize = 64 * 1024

// Reader decompresses a stream of blocks read from an underlying io.Reader.
//
// Note: Reader is NOT thread-safe.
type Reader struct {
	r       *bufio.Reader
	dec     *block.Decoder
	block   [section.MaxBlockSize]byte
	pending []byte
	offset  int64
	err     error
}

var _ io.Reader = (*Reader)(nil)

// NewReader creates a Reader that decodes the stream read from r.
func NewReader(r io.Reader, dec *block.Decoder) *Reader {
	return &Reader{
		r:   bufio.NewReaderSize(r, readerBufferSize),
		dec: dec,
	}
}

// Read decodes blocks as needed to fill p.
//
// A stream that ends inside a block is reported as an error wrapping the
// block decoding failure, never as io.EOF.
func (r *Reader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.pending) == 0 {
			if r.err != nil {
				break
			}
			r.err = r.nextBlock()

			continue
		}

		c := copy(p[n:], r.pending)
		r.pending = r.pending[c:]
		n += c
	}

	if n > 0 {
		return n, nil
	}
	if r.err != nil {
		return 0, r.err
	}

	return 0, nil
}

// Offset returns the number of encoded bytes consumed so far.
func (r *Reader) Offset() int64 {
	return r.offset
}

func (r *Reader) nextBlock() error {
	buf, err := r.r.Peek(section.MaxBlockSize + section.MaxBlockOverhead)
	if len(buf) == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			return io.EOF
		}

		return err
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	n, consumed, err := r.dec.Decode(r.block[:], buf)
	if err != nil {
		return fmt.Errorf("block at stream offset %d: %w", r.offset, err)
	}
	if _, err := r.r.Discard(consumed); err != nil {
		return err
	}

	r.offset += int64(consumed)
	r.pending = r.block[:n]

	return nil
}
