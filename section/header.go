package section

import (
	"fmt"

	"github.com/arloliu/td512/errs"
	"github.com/arloliu/td512/format"
	"github.com/arloliu/td512/internal/bitstream"
)

// BlockHeader is the decoded form of a compressed block header.
type BlockHeader struct {
	// Mode is the coding strategy of the payload.
	Mode format.Mode
	// Variant is the mode-specific sub-format.
	Variant uint8
	// Length is the decoded block length, in [MinBlockSize, MaxBlockSize].
	Length int
	// PayloadSize is the payload length in bytes. It is only stored in the
	// header for framed variants; Parse leaves it zero otherwise.
	PayloadSize int
}

// ValidateLength fails with errs.ErrInvalidLength unless n is a valid block length.
func ValidateLength(n int) error {
	if n < MinBlockSize || n > MaxBlockSize {
		return fmt.Errorf("%w: %d (want %d..%d)", errs.ErrInvalidLength, n, MinBlockSize, MaxBlockSize)
	}

	return nil
}

// ValidVariant reports whether variant is defined for mode.
func ValidVariant(mode format.Mode, variant uint8) bool {
	switch mode {
	case format.ModeRaw, format.ModeExtendedText:
		return variant == 0
	case format.ModeTd64:
		return variant <= 1
	case format.ModeExtendedString:
		return format.Backend(variant).IsValid()
	default:
		return false
	}
}

// IsFramed reports whether payloads of mode/variant carry a size prefix.
func IsFramed(mode format.Mode, variant uint8) bool {
	return mode == format.ModeExtendedString && format.Backend(variant).Framed()
}

// Framed reports whether this header carries a payload size.
func (h BlockHeader) Framed() bool {
	return IsFramed(h.Mode, h.Variant)
}

// Size returns the encoded header size in bytes.
func (h BlockHeader) Size() int {
	if h.Framed() {
		return BaseHeaderSize + bitstream.UvarintLen(uint64(h.PayloadSize)) //nolint:gosec
	}

	return BaseHeaderSize
}

// EncodedSize returns the full compressed block size: header plus payload.
func (h BlockHeader) EncodedSize() int {
	return h.Size() + h.PayloadSize
}

// Validate checks that the header describes a block the decoder will accept.
func (h BlockHeader) Validate() error {
	if !h.Mode.IsValid() {
		return fmt.Errorf("%w: unknown mode %d", errs.ErrCorruptHeader, h.Mode)
	}
	if !ValidVariant(h.Mode, h.Variant) {
		return fmt.Errorf("%w: variant %d not defined for mode %s", errs.ErrCorruptHeader, h.Variant, h.Mode)
	}
	if h.Length < MinBlockSize || h.Length > MaxBlockSize {
		return fmt.Errorf("%w: declared length %d", errs.ErrCorruptHeader, h.Length)
	}
	if h.Framed() && (h.PayloadSize < 1 || h.PayloadSize > maxPayloadSize) {
		return fmt.Errorf("%w: payload size %d", errs.ErrCorruptHeader, h.PayloadSize)
	}

	return nil
}

// Put writes the header into dst and returns the number of bytes written.
// It fails with errs.ErrBufferTooSmall when dst is shorter than Size().
func (h BlockHeader) Put(dst []byte) (int, error) {
	if err := h.Validate(); err != nil {
		return 0, err
	}

	w := bitstream.NewByteWriter(dst)
	b0 := byte(h.Mode)&modeMask |
		(h.Variant&variantMask)<<variantShift |
		byte(h.Length>>8)&lengthHiMask<<lengthHiShift
	if err := w.WriteByte(b0); err != nil {
		return 0, err
	}
	if err := w.WriteByte(byte(h.Length)); err != nil {
		return 0, err
	}
	if h.Framed() {
		if err := w.WriteUvarint(uint64(h.PayloadSize)); err != nil { //nolint:gosec
			return 0, err
		}
	}

	return w.Len(), nil
}

// Parse decodes a header from the start of src and returns its size.
// Every failure is reported as errs.ErrCorruptHeader.
func (h *BlockHeader) Parse(src []byte) (int, error) {
	if len(src) < BaseHeaderSize {
		return 0, fmt.Errorf("%w: truncated header (%d bytes)", errs.ErrCorruptHeader, len(src))
	}

	r := bitstream.NewByteReader(src)
	b0, _ := r.ReadByte()
	b1, _ := r.ReadByte()

	parsed := BlockHeader{
		Mode:    format.Mode(b0 & modeMask),
		Variant: (b0 >> variantShift) & variantMask,
		Length:  int(b0>>lengthHiShift)<<8 | int(b1),
	}
	if !parsed.Mode.IsValid() {
		return 0, fmt.Errorf("%w: unknown mode tag 0x%02x", errs.ErrCorruptHeader, b0&modeMask)
	}
	if !ValidVariant(parsed.Mode, parsed.Variant) {
		return 0, fmt.Errorf("%w: variant %d not defined for mode %s", errs.ErrCorruptHeader, parsed.Variant, parsed.Mode)
	}
	if parsed.Framed() {
		size, err := r.ReadUvarint()
		if err != nil {
			return 0, fmt.Errorf("%w: payload size: %v", errs.ErrCorruptHeader, err)
		}
		if size > maxPayloadSize {
			return 0, fmt.Errorf("%w: payload size %d", errs.ErrCorruptHeader, size)
		}
		parsed.PayloadSize = int(size)
	}

	if err := parsed.Validate(); err != nil {
		return 0, err
	}
	*h = parsed

	return r.Pos(), nil
}
