// SPDX-License-Identifier: EPL-2.0

package output

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/polysynth/internal/audiotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeFloats(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out
}

func TestReader_EncodesLittleEndianFloat32(t *testing.T) {
	t.Parallel()

	src := audiotest.NewRampSource(48000, 2, 3, 0.25)
	got, err := io.ReadAll(NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []float32{0, 1, 0.25, 1.25, 0.5, 1.5}, decodeFloats(got))
}

func TestReader_OddReadSizes(t *testing.T) {
	t.Parallel()

	want, err := io.ReadAll(NewReader(audiotest.NewSineSource(8000, 2, 3000, 440)))
	require.NoError(t, err)

	for _, size := range []int{1, 3, 7, 4096, 10001} {
		r := NewReader(audiotest.NewSineSource(8000, 2, 3000, 440))
		buf := make([]byte, size)

		var got []byte
		for {
			n, err := r.Read(buf)
			got = append(got, buf[:n]...)
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
		}

		assert.Equal(t, want, got, "read size %d", size)
	}
	assert.Len(t, want, 3000*2*4)
}

func TestReader_PropagatesErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("device gone")
	src := audiotest.NewConstantSource(8000, 1, 2, 1)
	src.Err = boom

	r := NewReader(src)
	buf := make([]byte, 64)

	n, err := r.Read(buf)
	assert.Equal(t, 8, n)
	assert.NoError(t, err)

	n, err = r.Read(buf)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, boom)
}

func TestReader_ZeroAllocs(t *testing.T) {
	r := NewReader(audiotest.NewConstantSource(48000, 2, math.MaxInt32, 0.1))
	buf := make([]byte, 2048)

	allocs := testing.AllocsPerRun(100, func() {
		_, _ = r.Read(buf)
	})
	assert.Zero(t, allocs)
}
