// Package stream compresses inputs of any size as a sequence of
// independent td512 blocks.
//
// The stream format is the plain concatenation of encoded blocks. Every
// block but the last holds block.MaxBlockSize bytes of input; the decoder
// needs no outer framing because each block reports its own encoded size.
// Streams can therefore be split at any block boundary, and a damaged
// block never affects how earlier blocks decode.
//
// EncodeAll and DecodeAll work on whole buffers. Writer and Reader adapt
// the same format to io.Writer and io.Reader.
package stream
