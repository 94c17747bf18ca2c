package compress

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/arloliu/td512/errs"
	"github.com/arloliu/td512/format"
	"github.com/stretchr/testify/require"
)

const aliceText = "it over afterwards, it occurred to her that she ought to have wondered at this, " +
	"but at the time it all seemed quite natural); but when the Rabbit actually TOOK A WATCH OUT OF " +
	"ITS WAISTCOAT- POCKET, and looked at it, and then hurried on, Alice started to her feet, for it " +
	"flashed across her mind that she had never before seen a rabbit with either a waistcoat-pocket, " +
	"or a watch to take out of it, and burning with curiosity, she ran across the field after it, and " +
	"fortunately was just in time to see it positive\x00"

func testInputs() map[string][]byte {
	rng := rand.New(rand.NewSource(512))

	random := make([]byte, 512)
	rng.Read(random)

	lowEntropy := make([]byte, 512)
	for i := range lowEntropy {
		lowEntropy[i] = byte(rng.Intn(4)) * 0x11
	}

	counter := make([]byte, 512)
	for i := range counter {
		counter[i] = byte(i / 3)
	}

	return map[string][]byte{
		"alice":       []byte(aliceText),
		"fill_0x91":   bytes.Repeat([]byte{0x91}, 512),
		"random":      random,
		"low_entropy": lowEntropy,
		"counter":     counter,
		"repeat":      bytes.Repeat([]byte("abcdefgh12"), 52)[:512],
	}
}

func allCoders(t *testing.T) []Coder {
	t.Helper()

	coders := make([]Coder, 0, len(format.Modes)+len(format.Backends))
	for _, mode := range format.Modes {
		c, err := CreateCoder(mode)
		require.NoError(t, err)
		coders = append(coders, c)
	}
	for _, b := range format.Backends {
		c, err := NewStringCoder(b)
		require.NoError(t, err)
		coders = append(coders, c)
	}

	return coders
}

func TestCoders_RoundTripAllLengths(t *testing.T) {
	for name, input := range testInputs() {
		t.Run(name, func(t *testing.T) {
			for _, coder := range allCoders(t) {
				for n := 1; n <= len(input); n++ {
					src := input[:n]
					room := n - 1
					if coder.Mode() == format.ModeRaw {
						room = n
					}

					payload := make([]byte, room)
					variant, size, ok := coder.TryEncode(payload, src)
					if !ok {
						continue
					}
					require.LessOrEqual(t, size, room)

					out := make([]byte, n)
					consumed, err := coder.Decode(out, payload[:size], variant)
					require.NoError(t, err, "mode %s variant %d length %d", coder.Mode(), variant, n)
					require.Equal(t, size, consumed, "mode %s variant %d length %d", coder.Mode(), variant, n)
					require.Equal(t, src, out, "mode %s variant %d length %d", coder.Mode(), variant, n)
				}
			}
		})
	}
}

func TestCoders_TrailingBytesIgnored(t *testing.T) {
	src := []byte(aliceText)
	for _, mode := range []format.Mode{format.ModeTd64, format.ModeExtendedText} {
		coder, err := GetCoder(mode)
		require.NoError(t, err)

		for _, input := range [][]byte{src, bytes.Repeat([]byte{0x20, 0x65}, 100)} {
			payload := make([]byte, len(input)+16)
			variant, n, ok := coder.TryEncode(payload[:len(input)-1], input)
			if !ok {
				continue
			}
			for i := n; i < len(payload); i++ {
				payload[i] = 0xFF
			}

			out := make([]byte, len(input))
			consumed, err := coder.Decode(out, payload, variant)
			require.NoError(t, err)
			require.Equal(t, n, consumed)
			require.Equal(t, input, out)
		}
	}
}

func TestRawCoder(t *testing.T) {
	c := NewRawCoder()
	require.Equal(t, format.ModeRaw, c.Mode())

	_, _, ok := c.TryEncode(make([]byte, 2), []byte("abc"))
	require.False(t, ok)

	_, err := c.Decode(make([]byte, 3), []byte("abc"), 1)
	require.ErrorIs(t, err, errs.ErrCorruptHeader)

	_, err = c.Decode(make([]byte, 3), []byte("ab"), 0)
	require.ErrorIs(t, err, errs.ErrCorruptPayload)
}

func TestTd64Coder(t *testing.T) {
	c := NewTd64Coder()

	t.Run("single value", func(t *testing.T) {
		dst := make([]byte, 511)
		variant, n, ok := c.TryEncode(dst, bytes.Repeat([]byte{0x91}, 512))
		require.True(t, ok)
		require.Equal(t, Td64SingleValue, variant)
		require.Equal(t, 1, n)
		require.Equal(t, byte(0x91), dst[0])
	})

	t.Run("two values use one bit per byte", func(t *testing.T) {
		src := bytes.Repeat([]byte{0x00, 0xFF}, 32)
		dst := make([]byte, 63)
		variant, n, ok := c.TryEncode(dst, src)
		require.True(t, ok)
		require.Equal(t, Td64Segmented, variant)
		// 3 + 1 + 16 + 64 bits
		require.Equal(t, 11, n)
	})

	t.Run("rejects high entropy", func(t *testing.T) {
		src := make([]byte, 64)
		for i := range src {
			src[i] = byte(i * 7)
		}
		_, _, ok := c.TryEncode(make([]byte, 63), src)
		require.False(t, ok)
	})

	t.Run("corrupt payloads", func(t *testing.T) {
		tests := []struct {
			name    string
			payload []byte
			variant uint8
			wantErr error
		}{
			{"empty single value", nil, Td64SingleValue, errs.ErrCorruptPayload},
			{"reserved width", []byte{0xA0, 0x00}, Td64Segmented, errs.ErrCorruptPayload},
			{"truncated", []byte{0x20}, Td64Segmented, errs.ErrCorruptPayload},
			{"palette index out of range", []byte{0x40, 0xFF, 0xFF}, Td64Segmented, errs.ErrCorruptPayload},
			{"unknown variant", []byte{0x00}, 2, errs.ErrCorruptHeader},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := c.Decode(make([]byte, 8), tt.payload, tt.variant)
				require.ErrorIs(t, err, tt.wantErr)
			})
		}
	})
}

func TestTextCoder(t *testing.T) {
	c := NewTextCoder()

	t.Run("compresses prose", func(t *testing.T) {
		src := []byte(aliceText[:511])
		dst := make([]byte, 510)
		_, n, ok := c.TryEncode(dst, src)
		require.True(t, ok)
		require.Less(t, n, len(src)*7/8)
	})

	t.Run("rejects binary", func(t *testing.T) {
		src := make([]byte, 64)
		for i := range src {
			src[i] = byte(0x80 + i)
		}
		_, _, ok := c.TryEncode(make([]byte, 63), src)
		require.False(t, ok)
	})

	t.Run("word entries", func(t *testing.T) {
		src := []byte("the and thing")
		dst := make([]byte, 12)
		_, n, ok := c.TryEncode(dst, src)
		require.True(t, ok)

		out := make([]byte, len(src))
		consumed, err := c.Decode(out, dst[:n], 0)
		require.NoError(t, err)
		require.Equal(t, n, consumed)
		require.Equal(t, src, out)
	})

	t.Run("word overruns block", func(t *testing.T) {
		_, err := c.Decode(make([]byte, 1), []byte{0xE0}, 0)
		require.ErrorIs(t, err, errs.ErrCorruptPayload)
	})

	t.Run("unknown variant", func(t *testing.T) {
		_, err := c.Decode(make([]byte, 1), []byte{0x00}, 1)
		require.ErrorIs(t, err, errs.ErrCorruptHeader)
	})
}

func TestStringCoder_Backends(t *testing.T) {
	c, err := NewStringCoder(format.BackendZstd, format.BackendNative, format.BackendZstd)
	require.NoError(t, err)
	require.Equal(t, []format.Backend{format.BackendNative, format.BackendZstd}, c.Backends())

	c, err = NewStringCoder()
	require.NoError(t, err)
	require.Equal(t, DefaultStringBackends, c.Backends())

	_, err = NewStringCoder(format.Backend(9))
	require.Error(t, err)
}

func TestStringCoder_PicksSmallest(t *testing.T) {
	all, err := NewStringCoder(format.Backends...)
	require.NoError(t, err)

	for name, input := range testInputs() {
		t.Run(name, func(t *testing.T) {
			dst := make([]byte, len(input)-1)
			variant, n, ok := all.TryEncode(dst, input)
			if !ok {
				return
			}
			cost := n
			if format.Backend(variant).Framed() {
				cost++
				if n >= 128 {
					cost++
				}
			}

			for _, b := range format.Backends {
				single, err := NewStringCoder(b)
				require.NoError(t, err)

				_, m, ok := single.TryEncode(make([]byte, len(input)-1), input)
				if !ok {
					continue
				}
				other := m
				if b.Framed() {
					other++
					if m >= 128 {
						other++
					}
				}
				require.LessOrEqual(t, cost, other, "backend %s beats chosen %s", b, format.Backend(variant))
			}
		})
	}
}

func TestStringCoder_Deterministic(t *testing.T) {
	all, err := NewStringCoder(format.Backends...)
	require.NoError(t, err)

	src := []byte(aliceText)
	first := make([]byte, len(src)-1)
	v1, n1, ok := all.TryEncode(first, src)
	require.True(t, ok)

	for i := 0; i < 10; i++ {
		again := make([]byte, len(src)-1)
		v2, n2, ok := all.TryEncode(again, src)
		require.True(t, ok)
		require.Equal(t, v1, v2)
		require.Equal(t, first[:n1], again[:n2])
	}
}

func TestStringCoder_DecodeUnknownBackend(t *testing.T) {
	_, err := defaultStringCoder.Decode(make([]byte, 4), []byte{0x00}, uint8(format.BackendCount))
	require.ErrorIs(t, err, errs.ErrCorruptHeader)
}

func TestBackends_RoundTrip(t *testing.T) {
	src := []byte(aliceText[:256] + aliceText[:256])
	for _, b := range format.Backends {
		t.Run(b.String(), func(t *testing.T) {
			backend, err := GetBackend(b)
			require.NoError(t, err)
			require.Equal(t, b, backend.Type())

			payload := make([]byte, 1024)
			n, err := backend.Encode(payload, src)
			require.NoError(t, err)
			require.Less(t, n, len(src))

			out := make([]byte, len(src))
			consumed, err := backend.Decode(out, payload[:n])
			require.NoError(t, err)
			require.Equal(t, n, consumed)
			require.Equal(t, src, out)
		})
	}
}

func TestBackends_BufferTooSmall(t *testing.T) {
	src := []byte(aliceText[:256] + aliceText[:256])
	for _, b := range format.Backends {
		t.Run(b.String(), func(t *testing.T) {
			backend, err := GetBackend(b)
			require.NoError(t, err)

			_, err = backend.Encode(make([]byte, 8), src)
			require.ErrorIs(t, err, errs.ErrBufferTooSmall)
		})
	}
}

func TestBackends_LengthMismatch(t *testing.T) {
	src := []byte(aliceText[:256] + aliceText[:256])
	for _, b := range format.Backends {
		if !b.Framed() {
			continue
		}
		t.Run(b.String(), func(t *testing.T) {
			backend, err := GetBackend(b)
			require.NoError(t, err)

			payload := make([]byte, 1024)
			n, err := backend.Encode(payload, src)
			require.NoError(t, err)

			_, err = backend.Decode(make([]byte, len(src)+1), payload[:n])
			require.ErrorIs(t, err, errs.ErrCorruptPayload)

			_, err = backend.Decode(make([]byte, len(src)), payload[:n/2])
			require.ErrorIs(t, err, errs.ErrCorruptPayload)
		})
	}
}

func TestGetBackend_Invalid(t *testing.T) {
	_, err := GetBackend(format.BackendCount)
	require.Error(t, err)
}

func TestNativeBackend(t *testing.T) {
	nb := NewNativeBackend()

	t.Run("overlapping match", func(t *testing.T) {
		src := append([]byte("xy"), bytes.Repeat([]byte("xy"), 200)...)
		payload := make([]byte, 64)
		n, err := nb.Encode(payload, src)
		require.NoError(t, err)
		require.Less(t, n, 10)

		out := make([]byte, len(src))
		consumed, err := nb.Decode(out, payload[:n])
		require.NoError(t, err)
		require.Equal(t, n, consumed)
		require.Equal(t, src, out)
	})

	t.Run("corrupt payloads", func(t *testing.T) {
		tests := []struct {
			name    string
			payload []byte
			size    int
		}{
			{"match at start", []byte{0x80, 0x00}, 4},
			{"truncated literal", []byte{0x30}, 2},
			{"empty", nil, 1},
			// literal 'A', then a match of length 4 at position 1 into a 2-byte block
			{"match overruns block", []byte{0x20, 0xD0}, 2},
			{"gamma too long", []byte{0x20, 0xC0, 0x00, 0x00}, 8},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := nb.Decode(make([]byte, tt.size), tt.payload)
				require.ErrorIs(t, err, errs.ErrCorruptPayload)
			})
		}
	})
}

func TestGetCoder(t *testing.T) {
	for _, mode := range format.Modes {
		c, err := GetCoder(mode)
		require.NoError(t, err)
		require.Equal(t, mode, c.Mode())
	}

	_, err := GetCoder(format.Mode(0))
	require.ErrorIs(t, err, errs.ErrCorruptHeader)

	_, err = CreateCoder(format.Mode(7))
	require.Error(t, err)
}

func BenchmarkCoders(b *testing.B) {
	inputs := testInputs()
	for _, name := range []string{"alice", "low_entropy", "random"} {
		src := inputs[name]
		for _, mode := range format.Modes {
			coder, _ := GetCoder(mode)
			b.Run(name+"/"+mode.String(), func(b *testing.B) {
				dst := make([]byte, len(src))
				b.SetBytes(int64(len(src)))
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					coder.TryEncode(dst[:len(src)-1], src)
				}
			})
		}
	}
}

func BenchmarkBackends_Encode(b *testing.B) {
	src := []byte(aliceText)
	for _, bk := range format.Backends {
		backend, _ := GetBackend(bk)
		b.Run(bk.String(), func(b *testing.B) {
			dst := make([]byte, 1024)
			b.SetBytes(int64(len(src)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = backend.Encode(dst, src)
			}
		})
	}
}
