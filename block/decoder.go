package block

import (
	"fmt"
	"slices"

	"github.com/arloliu/td512/compress"
	"github.com/arloliu/td512/errs"
	"github.com/arloliu/td512/section"
)

// Decoder decodes single blocks.
//
// Decoding needs no configuration: every mode and variant is always
// supported. The zero value is ready to use and safe for concurrent use.
type Decoder struct{}

// NewDecoder creates a new Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// DecodedLen returns the block length declared by the header at the start of src.
func (d *Decoder) DecodedLen(src []byte) (int, error) {
	var h section.BlockHeader
	if _, err := h.Parse(src); err != nil {
		return 0, err
	}

	return h.Length, nil
}

// Decode decompresses the block at the start of src into dst.
//
// src may hold further blocks after the first; only the bytes of the first
// block are read. Nothing is written to dst when the header is corrupt or
// dst is too small.
//
// Parameters:
//   - dst: Destination buffer, at least the declared block length
//   - src: Encoded block, possibly followed by more data
//
// Returns:
//   - n: Decoded block length
//   - consumed: Number of bytes of src that belong to the block
//   - err: errs.ErrCorruptHeader, errs.ErrBufferTooSmall or errs.ErrCorruptPayload
func (d *Decoder) Decode(dst, src []byte) (n, consumed int, err error) {
	var h section.BlockHeader
	hn, err := h.Parse(src)
	if err != nil {
		return 0, 0, err
	}
	if len(dst) < h.Length {
		return 0, 0, fmt.Errorf("%w: block decodes to %d bytes, have %d", errs.ErrBufferTooSmall, h.Length, len(dst))
	}

	coder, err := compress.GetCoder(h.Mode)
	if err != nil {
		return 0, 0, err
	}

	payload := src[hn:]
	if h.Framed() {
		if len(payload) < h.PayloadSize {
			return 0, 0, fmt.Errorf("%w: payload truncated: need %d bytes, have %d", errs.ErrCorruptPayload, h.PayloadSize, len(payload))
		}
		payload = payload[:h.PayloadSize]
	}

	used, err := coder.Decode(dst[:h.Length], payload, h.Variant)
	if err != nil {
		return 0, 0, err
	}
	if h.Framed() && used != h.PayloadSize {
		return 0, 0, fmt.Errorf("%w: %d of %d payload bytes used", errs.ErrCorruptPayload, used, h.PayloadSize)
	}

	return h.Length, hn + used, nil
}

// AppendDecode appends the block at the start of src to dst and returns the
// extended slice along with the number of bytes of src consumed.
func (d *Decoder) AppendDecode(dst, src []byte) ([]byte, int, error) {
	size, err := d.DecodedLen(src)
	if err != nil {
		return dst, 0, err
	}

	dst = slices.Grow(dst, size)
	start := len(dst)

	n, consumed, err := d.Decode(dst[start:start+size], src)
	if err != nil {
		return dst, 0, err
	}

	return dst[:start+n], consumed, nil
}
