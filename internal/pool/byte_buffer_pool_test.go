package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScratch_GetPut(t *testing.T) {
	s := GetScratch()
	require.NotNil(t, s)
	require.Len(t, s.B, ScratchSize)

	s.B[0] = 0x42
	PutScratch(s)
	PutScratch(nil)

	s2 := GetScratch()
	require.Len(t, s2.B, ScratchSize)
	PutScratch(s2)
}

func TestByteBuffer_Grow(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.B = append(bb.B, 1, 2, 3)
	require.Equal(t, 3, bb.Len())

	bb.Grow(1)
	require.Equal(t, 4, cap(bb.B))

	bb.Grow(10)
	require.GreaterOrEqual(t, cap(bb.B)-bb.Len(), 10)
	require.Equal(t, []byte{1, 2, 3}, bb.Bytes())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, cap(bb.B), 13)
}

func TestByteBufferPool_DropsOversized(t *testing.T) {
	p := NewByteBufferPool(8, 16)

	bb := p.Get()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())

	bb.B = append(bb.B, []byte("payload")...)
	p.Put(bb)

	again := p.Get()
	require.Equal(t, 0, again.Len(), "pooled buffers are reset")

	big := NewByteBuffer(64)
	require.NotPanics(t, func() { p.Put(big) })
	require.NotPanics(t, func() { p.Put(nil) })
}

func TestStreamBuffer(t *testing.T) {
	bb := GetStreamBuffer()
	require.GreaterOrEqual(t, cap(bb.B), StreamBufferDefaultSize)
	bb.B = append(bb.B, 'x')
	PutStreamBuffer(bb)
}
