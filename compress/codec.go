package compress

import (
	"errors"
	"fmt"

	"github.com/arloliu/td512/errs"
	"github.com/arloliu/td512/format"
)

// Coder is one block coding strategy.
//
// All coders are stateless and safe for concurrent use. Per-call work areas
// come from pools, never from the coder value itself.
type Coder interface {
	// Mode returns the mode tag this coder's payloads are stored under.
	Mode() format.Mode

	// TryEncode writes a payload for src into dst.
	//
	// The payload must fit in len(dst); the selector sizes dst so that a
	// payload which cannot beat a verbatim copy does not fit. ok is false
	// when the coder does not apply to src or its payload does not fit, in
	// which case the contents of dst are undefined.
	//
	// Returns:
	//   - variant: Mode-specific sub-format, stored in the block header
	//   - n: Payload size in bytes
	//   - ok: Whether a payload was produced
	TryEncode(dst, src []byte) (variant uint8, n int, ok bool)

	// Decode reconstructs exactly len(dst) bytes from the payload at the
	// start of src.
	//
	// For self-delimiting variants src may extend past the payload; for
	// framed variants src is exactly the payload.
	//
	// Returns:
	//   - int: Number of payload bytes consumed
	//   - error: errs.ErrCorruptPayload on malformed or truncated payloads,
	//     errs.ErrCorruptHeader on an unknown variant
	Decode(dst, src []byte, variant uint8) (int, error)
}

// errIncompressible signals that a backend found no redundancy to exploit.
var errIncompressible = errors.New("incompressible input")

// CreateCoder creates the Coder for mode.
//
// Parameters:
//   - mode: Mode to create a coder for
//   - backends: ExtendedString backends to try when encoding (ignored for other modes;
//     DefaultStringBackends when empty)
//
// Returns:
//   - Coder: Coder instance for the mode
//   - error: Invalid mode or backend error
func CreateCoder(mode format.Mode, backends ...format.Backend) (Coder, error) {
	switch mode {
	case format.ModeRaw:
		return NewRawCoder(), nil
	case format.ModeTd64:
		return NewTd64Coder(), nil
	case format.ModeExtendedString:
		return NewStringCoder(backends...)
	case format.ModeExtendedText:
		return NewTextCoder(), nil
	default:
		return nil, fmt.Errorf("invalid mode: %s", mode)
	}
}

var defaultStringCoder, _ = NewStringCoder()

var builtinCoders = map[format.Mode]Coder{
	format.ModeRaw:            NewRawCoder(),
	format.ModeTd64:           NewTd64Coder(),
	format.ModeExtendedString: defaultStringCoder,
	format.ModeExtendedText:   NewTextCoder(),
}

// GetCoder retrieves the built-in Coder for mode. Every built-in coder
// decodes all variants of its mode regardless of encoding configuration.
func GetCoder(mode format.Mode) (Coder, error) {
	if coder, ok := builtinCoders[mode]; ok {
		return coder, nil
	}

	return nil, fmt.Errorf("%w: unsupported mode %s", errs.ErrCorruptHeader, mode)
}
