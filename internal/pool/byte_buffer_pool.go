package pool

import "sync"

const (
	// ScratchSize covers any candidate payload or library work area for one
	// block: the largest bound needed is the Snappy/S2 worst case for 512
	// bytes (629 bytes).
	ScratchSize = 1024

	// StreamBufferDefaultSize is the default capacity of a pooled stream buffer.
	StreamBufferDefaultSize = 1024 * 64 // 64KiB
	// StreamBufferMaxThreshold is the largest stream buffer kept for reuse.
	StreamBufferMaxThreshold = 1024 * 1024 * 4 // 4MiB
)

// Scratch is a fixed-size work area. It never grows, so a pooled Scratch
// always has exactly ScratchSize bytes available.
type Scratch struct {
	B [ScratchSize]byte
}

var scratchPool = sync.Pool{
	New: func() any {
		return new(Scratch)
	},
}

// GetScratch retrieves a Scratch from the pool. Its contents are undefined.
func GetScratch() *Scratch {
	s, _ := scratchPool.Get().(*Scratch)
	return s
}

// PutScratch returns s to the pool.
func PutScratch(s *Scratch) {
	if s == nil {
		return
	}
	scratchPool.Put(s)
}

// ByteBuffer is a growable byte slice used for multi-block output.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Reset empties the buffer but keeps the allocated memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Grow ensures the buffer can take requiredBytes more bytes without reallocating.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	if cap(bb.B)-len(bb.B) >= requiredBytes {
		return
	}

	growBy := cap(bb.B) / 4
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ByteBufferPool is a pool of ByteBuffers. Buffers that grew beyond
// maxThreshold are dropped instead of being retained.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var streamDefaultPool = NewByteBufferPool(StreamBufferDefaultSize, StreamBufferMaxThreshold)

// GetStreamBuffer retrieves a ByteBuffer from the default stream pool.
func GetStreamBuffer() *ByteBuffer {
	return streamDefaultPool.Get()
}

// PutStreamBuffer returns a ByteBuffer to the default stream pool.
func PutStreamBuffer(bb *ByteBuffer) {
	streamDefaultPool.Put(bb)
}
