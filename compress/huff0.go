package compress

import (
	"fmt"
	"sync"

	"github.com/arloliu/td512/errs"
	"github.com/arloliu/td512/format"
	"github.com/arloliu/td512/section"
	"github.com/klauspost/compress/huff0"
)

// huffScratchPool pools huff0 scratch state. Table reuse across calls is
// disabled so that the output depends only on the input block.
var huffScratchPool = sync.Pool{
	New: func() any {
		return &huff0.Scratch{
			Reuse:          huff0.ReusePolicyNone,
			MaxSymbolValue: 255,
			MaxDecodedSize: section.MaxBlockSize,
		}
	},
}

func getHuffScratch() *huff0.Scratch {
	s, _ := huffScratchPool.Get().(*huff0.Scratch)
	s.Reuse = huff0.ReusePolicyNone
	s.MaxSymbolValue = 255
	s.TableLog = 0
	s.MaxDecodedSize = section.MaxBlockSize

	return s
}

// HuffmanBackend stores ExtendedString payloads as a huff0 table followed by
// a single 1X stream. It has no match stage, so it wins on blocks with
// skewed byte frequencies but little repetition.
type HuffmanBackend struct{}

var _ Backend = (*HuffmanBackend)(nil)

// NewHuffmanBackend creates a new Huffman backend.
func NewHuffmanBackend() HuffmanBackend {
	return HuffmanBackend{}
}

// Type returns format.BackendHuffman.
func (HuffmanBackend) Type() format.Backend {
	return format.BackendHuffman
}

// Encode entropy-codes src. Inputs huff0 declines (a single repeated
// symbol, or no gain) are reported as incompressible.
func (HuffmanBackend) Encode(dst, src []byte) (int, error) {
	s := getHuffScratch()
	defer huffScratchPool.Put(s)

	out, _, err := huff0.Compress1X(src, s)
	if err != nil {
		return 0, errIncompressible
	}

	return fitPayload(dst, out)
}

// Decode reads the table and the 1X stream, which must yield exactly len(dst) bytes.
func (HuffmanBackend) Decode(dst, src []byte) (int, error) {
	s := getHuffScratch()
	defer huffScratchPool.Put(s)

	s, remain, err := huff0.ReadTable(src, s)
	if err != nil {
		return 0, fmt.Errorf("%w: huff0 table: %v", errs.ErrCorruptPayload, err)
	}

	out, err := s.Decoder().Decompress1X(dst[:0:len(dst)], remain)
	if err != nil {
		return 0, fmt.Errorf("%w: huff0: %v", errs.ErrCorruptPayload, err)
	}
	if err := checkDecoded(format.BackendHuffman, len(out), len(dst)); err != nil {
		return 0, err
	}
	copy(dst, out)

	return len(src), nil
}
