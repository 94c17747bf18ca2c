package compress

import (
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/td512/errs"
	"github.com/arloliu/td512/format"
	"github.com/arloliu/td512/internal/bitstream"
	"github.com/arloliu/td512/internal/pool"
)

// Backend is one ExtendedString sub-format.
type Backend interface {
	// Type returns the backend identifier stored as the block variant.
	Type() format.Backend

	// Encode writes a payload for src into dst and returns its size. It
	// fails with errs.ErrBufferTooSmall when the payload does not fit.
	Encode(dst, src []byte) (int, error)

	// Decode reconstructs exactly len(dst) bytes and returns the number of
	// payload bytes consumed. Framed backends receive exactly their payload
	// and must consume all of it.
	Decode(dst, src []byte) (int, error)
}

// DefaultStringBackends are the backends tried by an ExtendedString coder
// created without an explicit list.
var DefaultStringBackends = []format.Backend{format.BackendNative, format.BackendLZ4, format.BackendHuffman}

var builtinBackends = [format.BackendCount]Backend{
	format.BackendNative:  NewNativeBackend(),
	format.BackendLZ4:     NewLZ4Backend(),
	format.BackendHuffman: NewHuffmanBackend(),
	format.BackendS2:      NewS2Backend(),
	format.BackendSnappy:  NewSnappyBackend(),
	format.BackendZstd:    NewZstdBackend(),
}

// GetBackend retrieves the built-in Backend for b.
func GetBackend(b format.Backend) (Backend, error) {
	if !b.IsValid() {
		return nil, fmt.Errorf("unsupported backend: %s", b)
	}

	return builtinBackends[b], nil
}

// StringCoder codes arbitrary binary blocks by trying a set of backends
// and keeping the smallest result, counting the size prefix of framed
// backends. Ties go to the lower backend number.
type StringCoder struct {
	backends []format.Backend
}

var _ Coder = (*StringCoder)(nil)

// NewStringCoder creates an ExtendedString coder.
//
// Parameters:
//   - backends: Backends to try when encoding, in any order; duplicates are
//     ignored and DefaultStringBackends is used when empty
//
// Returns:
//   - *StringCoder: New coder instance
//   - error: Unknown backend error
func NewStringCoder(backends ...format.Backend) (*StringCoder, error) {
	if len(backends) == 0 {
		backends = DefaultStringBackends
	}

	for _, b := range backends {
		if !b.IsValid() {
			return nil, fmt.Errorf("invalid extended string backend: %s", b)
		}
	}

	sorted := slices.Clone(backends)
	slices.Sort(sorted)

	return &StringCoder{backends: slices.Compact(sorted)}, nil
}

// Mode returns format.ModeExtendedString.
func (c *StringCoder) Mode() format.Mode {
	return format.ModeExtendedString
}

// Backends returns the backends tried when encoding, in variant order.
func (c *StringCoder) Backends() []format.Backend {
	return slices.Clone(c.backends)
}

// TryEncode runs every configured backend and keeps the smallest payload.
func (c *StringCoder) TryEncode(dst, src []byte) (uint8, int, bool) {
	if len(src) == 0 || len(dst) == 0 {
		return 0, 0, false
	}

	scratch := pool.GetScratch()
	defer pool.PutScratch(scratch)
	cand := scratch.B[:min(len(dst), len(scratch.B))]

	var (
		bestVariant uint8
		bestSize    int
		bestCost    = math.MaxInt
	)
	for _, b := range c.backends {
		n, err := builtinBackends[b].Encode(cand, src)
		if err != nil {
			continue
		}

		cost := n
		if b.Framed() {
			cost += bitstream.UvarintLen(uint64(n)) //nolint:gosec
		}
		if cost < bestCost {
			bestVariant, bestSize, bestCost = uint8(b), n, cost
			copy(dst, cand[:n])
		}
	}

	if bestCost == math.MaxInt {
		return 0, 0, false
	}

	return bestVariant, bestSize, true
}

// Decode dispatches to the backend named by variant.
func (c *StringCoder) Decode(dst, src []byte, variant uint8) (int, error) {
	b := format.Backend(variant)
	if !b.IsValid() {
		return 0, fmt.Errorf("%w: extended string backend %d", errs.ErrCorruptHeader, variant)
	}

	return builtinBackends[b].Decode(dst, src)
}

// fitPayload copies a library-produced payload into dst.
func fitPayload(dst, out []byte) (int, error) {
	if len(out) > len(dst) {
		return 0, fmt.Errorf("%w: payload %d bytes, room for %d", errs.ErrBufferTooSmall, len(out), len(dst))
	}

	return copy(dst, out), nil
}

// checkDecoded verifies that a library decoder produced exactly the declared length.
func checkDecoded(backend format.Backend, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: %s decoded %d bytes, header declares %d", errs.ErrCorruptPayload, backend, got, want)
	}

	return nil
}
