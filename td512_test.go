package td512

import (
	"bytes"
	"testing"

	"github.com/arloliu/td512/block"
	"github.com/arloliu/td512/errs"
	"github.com/arloliu/td512/format"
	"github.com/stretchr/testify/require"
)

const sampleText = "it over afterwards, it occurred to her that she ought to have wondered at this, " +
	"but at the time it all seemed quite natural); but when the Rabbit actually TOOK A WATCH OUT OF " +
	"ITS WAISTCOAT- POCKET, and looked at it, and then hurried on, Alice started to her feet"

func TestEncodeDecode(t *testing.T) {
	src := []byte(sampleText)
	dst := make([]byte, MaxEncodedLen(len(src)))

	n, err := Encode(dst, src)
	require.NoError(t, err)
	require.Less(t, n, len(src))

	size, err := DecodedLen(dst[:n])
	require.NoError(t, err)
	require.Equal(t, len(src), size)

	out := make([]byte, MaxBlockSize)
	got, consumed, err := Decode(out, dst[:n])
	require.NoError(t, err)
	require.Equal(t, len(src), got)
	require.Equal(t, n, consumed)
	require.Equal(t, src, out[:got])
}

func TestAppendEncodeDecode(t *testing.T) {
	blocks := [][]byte{
		[]byte(sampleText),
		bytes.Repeat([]byte{0x91}, MaxBlockSize),
		{0x00},
	}

	var stream []byte
	for _, b := range blocks {
		var err error
		stream, err = AppendEncode(stream, b)
		require.NoError(t, err)
	}

	var out []byte
	for pos := 0; pos < len(stream); {
		var (
			consumed int
			err      error
		)
		out, consumed, err = AppendDecode(out, stream[pos:])
		require.NoError(t, err)
		pos += consumed
	}
	require.Equal(t, bytes.Join(blocks, nil), out)
	require.Equal(t, Checksum(bytes.Join(blocks, nil)), Checksum(out))
}

func TestMaxEncodedLen(t *testing.T) {
	require.Equal(t, 5, MaxEncodedLen(1))
	require.Equal(t, 516, MaxEncodedLen(MaxBlockSize))
}

func TestEncode_Errors(t *testing.T) {
	_, err := Encode(make([]byte, 16), nil)
	require.ErrorIs(t, err, errs.ErrInvalidLength)

	_, err = Encode(make([]byte, 1024), make([]byte, MaxBlockSize+1))
	require.ErrorIs(t, err, errs.ErrInvalidLength)

	_, err = Encode(make([]byte, 2), []byte("abc"))
	require.ErrorIs(t, err, errs.ErrBufferTooSmall)

	_, _, err = Decode(make([]byte, 8), []byte{0x00, 0x01, 0x00})
	require.ErrorIs(t, err, errs.ErrCorruptHeader)
}

func TestModeCounts(t *testing.T) {
	before := ModeCounts()

	dst := make([]byte, MaxEncodedLen(MaxBlockSize))
	_, err := Encode(dst, bytes.Repeat([]byte{0x91}, MaxBlockSize))
	require.NoError(t, err)
	_, err = Encode(dst, []byte{0x42})
	require.NoError(t, err)

	after := ModeCounts()
	require.Equal(t, uint64(1), after.Td64-before.Td64)
	require.Equal(t, uint64(1), after.Raw-before.Raw)
	require.Equal(t, uint64(2), after.Total()-before.Total())
}

func TestNewEncoder_PrivateCounters(t *testing.T) {
	before := ModeCounts().Total()

	own := block.NewCounters()
	enc, err := NewEncoder(block.WithCounters(own), block.WithStringBackends(format.Backends...))
	require.NoError(t, err)

	encoded, err := enc.AppendEncode(nil, []byte(sampleText))
	require.NoError(t, err)
	require.Equal(t, uint64(1), own.Snapshot().Total())
	require.Equal(t, before, ModeCounts().Total(), "private encoders leave the process-wide counters alone")

	out, consumed, err := NewDecoder().AppendDecode(nil, encoded)
	require.NoError(t, err)
	require.Equal(t, len(encoded), consumed)
	require.Equal(t, sampleText, string(out))
}
