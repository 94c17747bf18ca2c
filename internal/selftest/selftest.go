// Package selftest checks a block encoder and decoder against every block
// length on two fixed inputs: a passage of English prose and a constant
// 0x91 fill.
package selftest

import (
	"bytes"
	"fmt"

	"github.com/arloliu/td512/block"
	"github.com/arloliu/td512/section"
)

// SampleText is the 512-byte prose input: 511 characters and a trailing NUL.
var SampleText = []byte("it over afterwards, it occurred to her that she ought to have wondered at this, " +
	"but at the time it all seemed quite natural); but when the Rabbit actually TOOK A WATCH OUT OF " +
	"ITS WAISTCOAT- POCKET, and looked at it, and then hurried on, Alice started to her feet, for it " +
	"flashed across her mind that she had never before seen a rabbit with either a waistcoat-pocket, " +
	"or a watch to take out of it, and burning with curiosity, she ran across the field after it, and " +
	"fortunately was just in time to see it positive\x00")

// FillByte is the value of the constant input.
const FillByte = 0x91

// Inputs returns fresh copies of the two test inputs, each section.MaxBlockSize bytes long.
func Inputs() [][]byte {
	return [][]byte{bytes.Clone(SampleText), bytes.Repeat([]byte{FillByte}, section.MaxBlockSize)}
}

// Failure describes the first block that did not round-trip.
type Failure struct {
	Input  int // index into Inputs
	Length int
	Stage  string
	Err    error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("selftest: input %d, length %d: %s: %v", f.Input, f.Length, f.Stage, f.Err)
	}

	return fmt.Sprintf("selftest: input %d, length %d: %s", f.Input, f.Length, f.Stage)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Run encodes and decodes every prefix of length 1..512 of each input and
// returns a *Failure for the first mismatch.
//
// Between blocks the output buffers are overwritten with filler, so stale
// bytes from the previous length cannot hide a decoder that skips writes.
func Run(enc *block.Encoder, dec *block.Decoder) error {
	encoded := make([]byte, section.MaxBlockSize+section.MaxBlockOverhead)
	decoded := make([]byte, section.MaxBlockSize)

	for idx, input := range Inputs() {
		for n := section.MinBlockSize; n <= section.MaxBlockSize; n++ {
			src := input[:n]

			size, err := enc.Encode(encoded, src)
			if err != nil {
				return &Failure{Input: idx, Length: n, Stage: "encode", Err: err}
			}
			if size > n+section.MaxBlockOverhead {
				return &Failure{Input: idx, Length: n, Stage: fmt.Sprintf("encoded size %d exceeds bound", size)}
			}

			got, consumed, err := dec.Decode(decoded, encoded[:size])
			if err != nil {
				return &Failure{Input: idx, Length: n, Stage: "decode", Err: err}
			}
			if consumed != size {
				return &Failure{Input: idx, Length: n, Stage: fmt.Sprintf("consumed %d of %d bytes", consumed, size)}
			}
			if got != n || !bytes.Equal(decoded[:got], src) {
				return &Failure{Input: idx, Length: n, Stage: "decoded data mismatch"}
			}

			fill(encoded, '0')
			fill(decoded, '1')
		}
	}

	return nil
}

func fill(b []byte, c byte) {
	for i := range b {
		b[i] = c
	}
}
