// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/polysynth/internal/audiotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain reads src to EOF in chunks of size samples.
func drain(t *testing.T, src Source, size int) []float32 {
	t.Helper()

	buf := make([]float32, size)
	var out []float32
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
	}
}

func TestResampler_Metadata(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(44100, 2, 1000)
	r := NewResampler(src, 8000)

	assert.Equal(t, 8000, r.SampleRate())
	assert.Equal(t, 2, r.Channels())
	assert.Equal(t, src.BufSize(), r.BufSize())
}

func TestResampler_SameRatePassesThrough(t *testing.T) {
	t.Parallel()

	src := audiotest.NewRampSource(8000, 2, 300, 0.001)
	got := drain(t, NewResampler(src, 8000), 64)

	want := make([]float32, 600)
	src.Reset()
	n, _ := src.ReadSamples(want)
	require.Equal(t, 600, n)

	assert.Equal(t, want, got)
}

func TestResampler_OutputLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to int
		frames   int
		want     int
	}{
		{"downsample", 44100, 8000, 44100, 8000},
		{"upsample", 8000, 16000, 1000, 2000},
		{"extreme down", 96000, 8000, 9600, 800},
		{"extreme up", 8000, 96000, 100, 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewSineSource(tt.from, 1, tt.frames, 440)
			got := drain(t, NewResampler(src, tt.to), 1000)
			assert.InDelta(t, tt.want, len(got), 1)
		})
	}
}

func TestResampler_PreservesLevel(t *testing.T) {
	t.Parallel()

	for _, rate := range []int{8000, 22050, 96000} {
		src := audiotest.NewConstantSource(44100, 1, 4410, 0.5)
		for i, v := range drain(t, NewResampler(src, rate), 256) {
			require.InDelta(t, 0.5, v, 1e-5, "rate %d sample %d", rate, i)
		}
	}
}

func TestResampler_SinePeakSurvives(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSineSource(8000, 1, 8000, 440)
	out := drain(t, NewResampler(src, 44100), 1024)

	var peak float64
	for _, v := range out {
		peak = max(peak, math.Abs(float64(v)))
	}
	assert.InDelta(t, 1, peak, 0.05)
}

func TestResampler_StereoChannelsStaySeparate(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSource(44100, 2, 2000, func(_, c int) float32 {
		if c == 0 {
			return 0.25
		}
		return -0.5
	})
	out := drain(t, NewResampler(src, 16000), 512)
	require.Zero(t, len(out)%2)

	for f := 0; f < len(out); f += 2 {
		require.InDelta(t, 0.25, out[f], 1e-5)
		require.InDelta(t, -0.5, out[f+1], 1e-5)
	}
}

func TestResampler_InvalidDstSize(t *testing.T) {
	t.Parallel()

	r := NewResampler(audiotest.NewSilentSource(44100, 2, 100), 8000)
	n, err := r.ReadSamples(make([]float32, 3))

	assert.Zero(t, n)
	assert.ErrorIs(t, err, ErrInvalidDstSize)
}

func TestResampler_EmptySource(t *testing.T) {
	t.Parallel()

	r := NewResampler(audiotest.NewSilentSource(44100, 1, 0), 8000)
	n, err := r.ReadSamples(make([]float32, 16))

	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestResampler_SourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("read failed")
	src := audiotest.NewConstantSource(8000, 1, 10, 0.1)
	src.Err = boom

	_, err := NewResampler(src, 16000).ReadSamples(make([]float32, 64))
	assert.ErrorIs(t, err, boom)
}

func TestResampler_ChunkSizeDoesNotMatter(t *testing.T) {
	t.Parallel()

	a := drain(t, NewResampler(audiotest.NewSineSource(44100, 2, 5000, 300), 22050), 2)
	b := drain(t, NewResampler(audiotest.NewSineSource(44100, 2, 5000, 300), 22050), 4096)
	assert.Equal(t, a, b)
}

func TestResampler_Close(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(8000, 1, 10)
	require.NoError(t, NewResampler(src, 16000).Close())
	assert.True(t, src.Closed)
}

func TestResampler_ZeroAllocs(t *testing.T) {
	r := NewResampler(audiotest.NewConstantSource(44100, 2, 1<<22, 0.1), 8000)
	buf := make([]float32, 1024)
	_, err := r.ReadSamples(buf)
	require.NoError(t, err)

	allocs := testing.AllocsPerRun(100, func() {
		_, _ = r.ReadSamples(buf)
	})
	assert.Zero(t, allocs)
}

func BenchmarkResampler_Downsample(b *testing.B) {
	src := audiotest.NewSineSource(44100, 2, math.MaxInt32, 440)
	r := NewResampler(src, 16000)
	buf := make([]float32, 4096)
	b.ReportAllocs()

	for b.Loop() {
		_, _ = r.ReadSamples(buf)
	}
}

func BenchmarkResampler_Upsample(b *testing.B) {
	src := audiotest.NewSineSource(22050, 2, math.MaxInt32, 440)
	r := NewResampler(src, 48000)
	buf := make([]float32, 4096)
	b.ReportAllocs()

	for b.Loop() {
		_, _ = r.ReadSamples(buf)
	}
}
