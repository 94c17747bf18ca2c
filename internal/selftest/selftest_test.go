package selftest

import (
	"errors"
	"testing"

	"github.com/arloliu/td512/block"
	"github.com/arloliu/td512/errs"
	"github.com/arloliu/td512/format"
	"github.com/arloliu/td512/section"
	"github.com/stretchr/testify/require"
)

func TestInputs(t *testing.T) {
	inputs := Inputs()
	require.Len(t, inputs, 2)
	for _, in := range inputs {
		require.Len(t, in, section.MaxBlockSize)
	}
	require.Equal(t, byte(0), SampleText[511])
}

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		opts []block.EncoderOption
	}{
		{"default", nil},
		{"all backends", []block.EncoderOption{block.WithStringBackends(format.Backends...)}},
		{"raw only", []block.EncoderOption{block.WithDisabledModes(format.ModeTd64, format.ModeExtendedText, format.ModeExtendedString)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counters := block.NewCounters()
			enc, err := block.NewEncoder(append(tt.opts, block.WithCounters(counters))...)
			require.NoError(t, err)

			require.NoError(t, Run(enc, block.NewDecoder()))
			require.Equal(t, uint64(2*section.MaxBlockSize), counters.Snapshot().Total())
		})
	}
}

func TestFailure(t *testing.T) {
	f := &Failure{Input: 1, Length: 7, Stage: "decode", Err: errs.ErrCorruptPayload}
	require.ErrorIs(t, f, errs.ErrCorruptPayload)
	require.Contains(t, f.Error(), "length 7")

	var target *Failure
	require.True(t, errors.As(error(f), &target))

	plain := &Failure{Stage: "decoded data mismatch"}
	require.NotContains(t, plain.Error(), "<nil>")
}
