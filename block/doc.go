// Package block encodes and decodes single td512 blocks.
//
// An Encoder validates the block length, asks every enabled coder for a
// payload and keeps the smallest complete block (header plus payload).
// Candidates are evaluated in priority order
//
//	Td64 > ExtendedText > ExtendedString > Raw
//
// and a later candidate only wins when it is strictly smaller, so ties
// follow that order. Raw seeds the search and any candidate of equal size
// replaces it. Raw is always available, which bounds the size of
// any encoded block to its length plus section.MaxBlockOverhead.
//
// A Decoder parses the header, checks the destination before writing to
// it and dispatches to the coder named by the mode tag. It reports both
// the decoded length and the number of input bytes consumed, so blocks
// can be concatenated without any outer framing:
//
//	enc, _ := block.NewEncoder(block.WithCounters(counters))
//	n, err := enc.Encode(dst, src)
//
//	dec := block.NewDecoder()
//	size, consumed, err := dec.Decode(out, dst[:n])
//
// Encoder and Decoder are safe for concurrent use. Counters record how
// many blocks each mode won; they are updated atomically and can be
// shared by any number of encoders.
package block
