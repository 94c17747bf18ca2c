package block

import (
	"fmt"
	"slices"

	"github.com/arloliu/td512/compress"
	"github.com/arloliu/td512/errs"
	"github.com/arloliu/td512/format"
	"github.com/arloliu/td512/internal/options"
	"github.com/arloliu/td512/internal/pool"
	"github.com/arloliu/td512/section"
)

// selectionOrder lists the non-Raw modes in tie-breaking priority.
var selectionOrder = []format.Mode{format.ModeTd64, format.ModeExtendedText, format.ModeExtendedString}

// Encoder selects the smallest encoding for each block.
//
// An Encoder holds only immutable configuration and is safe for concurrent use.
type Encoder struct {
	coders   []compress.Coder
	counters *Counters
}

// NewEncoder creates a new Encoder.
//
// Parameters:
//   - opts: Optional configuration (WithCounters, WithStringBackends, WithDisabledModes)
//
// Returns:
//   - *Encoder: New encoder instance
//   - error: Invalid option error
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	cfg := newEncoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	enc := &Encoder{counters: cfg.counters}
	for _, mode := range selectionOrder {
		if cfg.disabled[mode] {
			continue
		}

		coder, err := compress.CreateCoder(mode, cfg.backends...)
		if err != nil {
			return nil, err
		}
		enc.coders = append(enc.coders, coder)
	}

	return enc, nil
}

// Counters returns the counters this encoder records into, or nil.
func (e *Encoder) Counters() *Counters {
	return e.counters
}

// Modes returns the enabled modes in selection priority, Raw last.
func (e *Encoder) Modes() []format.Mode {
	modes := make([]format.Mode, 0, len(e.coders)+1)
	for _, c := range e.coders {
		modes = append(modes, c.Mode())
	}

	return append(modes, format.ModeRaw)
}

// Encode compresses one block from src into dst.
//
// Parameters:
//   - dst: Destination buffer; len(src)+section.MaxBlockOverhead bytes always suffice
//   - src: Block to encode, 1 to 512 bytes
//
// Returns:
//   - int: Number of bytes written to dst (header plus payload)
//   - error: errs.ErrInvalidLength for a bad block length, errs.ErrBufferTooSmall
//     when dst cannot hold the encoded block
func (e *Encoder) Encode(dst, src []byte) (int, error) {
	if err := section.ValidateLength(len(src)); err != nil {
		return 0, err
	}

	scratch := pool.GetScratch()
	defer pool.PutScratch(scratch)

	header, payload := e.selectBest(scratch, src)
	size := header.EncodedSize()
	if len(dst) < size {
		return 0, fmt.Errorf("%w: encoded block needs %d bytes, have %d", errs.ErrBufferTooSmall, size, len(dst))
	}

	n, err := header.Put(dst)
	if err != nil {
		return 0, err
	}
	n += copy(dst[n:], payload)

	e.counters.Add(header.Mode)

	return n, nil
}

// AppendEncode appends the encoded form of src to dst and returns the extended slice.
func (e *Encoder) AppendEncode(dst, src []byte) ([]byte, error) {
	dst = slices.Grow(dst, len(src)+section.MaxBlockOverhead)
	start := len(dst)

	n, err := e.Encode(dst[start:start+len(src)+section.MaxBlockOverhead], src)
	if err != nil {
		return dst, err
	}

	return dst[:start+n], nil
}

// selectBest returns the header and payload of the smallest encoding of
// src. The first half of scratch holds the current candidate and the
// second half the best payload so far; Raw needs neither. Raw seeds the
// search and loses every tie.
func (e *Encoder) selectBest(scratch *pool.Scratch, src []byte) (section.BlockHeader, []byte) {
	n := len(src)
	best := section.BlockHeader{Mode: format.ModeRaw, Length: n, PayloadSize: n}
	bestPayload := src

	candidate := scratch.B[:n-1]
	kept := scratch.B[section.MaxBlockSize:]
	for _, coder := range e.coders {
		variant, m, ok := coder.TryEncode(candidate, src)
		if !ok {
			continue
		}

		h := section.BlockHeader{Mode: coder.Mode(), Variant: variant, Length: n, PayloadSize: m}
		size, bestSize := h.EncodedSize(), best.EncodedSize()
		if size < bestSize || (size == bestSize && best.Mode == format.ModeRaw) {
			best = h
			bestPayload = kept[:copy(kept, candidate[:m])]
		}
	}

	return best, bestPayload
}
