package stream

import (
	"time"

	"github.com/arloliu/td512/block"
	"github.com/arloliu/td512/section"
)

// Stats describes one compression round trip of a stream.
//
// This is useful for benchmarking the codec on real data and for
// comparing ExtendedString backend sets.
type Stats struct {
	// OriginalSize is the size of the input before compression
	OriginalSize int64

	// CompressedSize is the size of the encoded stream
	CompressedSize int64

	// Blocks is the number of blocks in the stream
	Blocks int64

	// EncodeTime is the time taken to encode the stream
	EncodeTime time.Duration

	// DecodeTime is the time taken to decode the stream
	DecodeTime time.Duration

	// Modes holds the number of blocks encoded with each mode
	Modes block.Snapshot
}

// BlockCount returns the number of blocks a stream of n input bytes holds.
func BlockCount(n int) int64 {
	return int64((n + section.MaxBlockSize - 1) / section.MaxBlockSize)
}

// CompressionRatio returns the compression ratio (compressed size / original size).
//
// Values less than 1.0 indicate successful compression. The ratio never
// exceeds 1 + MaxBlockOverhead/MaxBlockSize for streams of full blocks.
//
// Returns:
//   - float64: Compression ratio (0.0 if original size is zero)
func (s Stats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage.
//
// Higher values indicate better compression; incompressible input yields a
// small negative value.
func (s Stats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// EncodeThroughput returns the encode speed in MB/s of original data.
func (s Stats) EncodeThroughput() float64 {
	return throughput(s.OriginalSize, s.EncodeTime)
}

// DecodeThroughput returns the decode speed in MB/s of original data.
func (s Stats) DecodeThroughput() float64 {
	return throughput(s.OriginalSize, s.DecodeTime)
}

func throughput(size int64, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}

	return float64(size) / 1e6 / d.Seconds()
}
