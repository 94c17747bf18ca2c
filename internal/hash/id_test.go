package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSum_MatchesDigest(t *testing.T) {
	data := []byte("it over afterwards, it occurred to her that she ought to have wondered at this")

	d := NewDigest()
	for i := 0; i < len(data); i += 7 {
		end := min(i+7, len(data))
		n, err := d.Write(data[i:end])
		require.NoError(t, err)
		require.Equal(t, end-i, n)
	}

	require.Equal(t, Sum(data), d.Sum64())
}

func TestSum_Distinguishes(t *testing.T) {
	require.NotEqual(t, Sum([]byte("block-a")), Sum([]byte("block-b")))
	require.Equal(t, Sum(nil), NewDigest().Sum64())
}
