// Package bitstream provides bounded cursors for writing and reading byte
// and bit fields inside caller-owned buffers.
//
// Writers never grow their buffer: any write that would pass the end of the
// destination fails with errs.ErrBufferTooSmall. Readers report how many
// source bytes they have consumed, which is how self-delimiting payloads
// tell the block decoder where the next block starts.
//
// Bit fields are written MSB-first on top of the byte cursors using
// github.com/icza/bitio. A BitWriter pads its last byte with zero bits on
// Flush, and a BitReader only pulls a source byte when it needs one of its
// bits, so the reader's consumed count equals the writer's flushed length.
package bitstream
