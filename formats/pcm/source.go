// SPDX-License-Identifier: EPL-2.0

// Package pcm adapts go-audio integer PCM decoders to audio.Source. The
// wav and aiff packages share it.
package pcm

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
)

var ErrUnsupportedBitDepth = errors.New("unsupported PCM bit depth")

// Reader is the subset of go-audio's wav and aiff decoders used here.
type Reader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source converts integer frames from a Reader to float32 in [-1, 1].
type Source struct {
	r        Reader
	rate     int
	channels int
	scale    float32
	buf      *goaudio.IntBuffer
	eof      bool
}

// NewSource wraps r. bitDepth must be 16, 24 or 32.
func NewSource(r Reader, bitDepth int) (*Source, error) {
	var full float32
	switch bitDepth {
	case 16:
		full = 1 << 15
	case 24:
		full = 1 << 23
	case 32:
		full = 1 << 31
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	format := r.Format()
	if format == nil || format.NumChannels <= 0 {
		return nil, errors.New("pcm: missing format information")
	}

	return &Source{
		r:        r,
		rate:     format.SampleRate,
		channels: format.NumChannels,
		scale:    1 / full,
		buf: &goaudio.IntBuffer{
			Format:         format,
			Data:           make([]int, 4096-4096%format.NumChannels),
			SourceBitDepth: bitDepth,
		},
	}, nil
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return cap(s.buf.Data) }
func (s *Source) Close() error    { return nil }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.eof {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, nil
	}

	if cap(s.buf.Data) < len(dst) {
		s.buf.Data = make([]int, len(dst))
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.r.PCMBuffer(s.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("decoding pcm: %w", err)
	}

	for i, v := range s.buf.Data[:n] {
		dst[i] = float32(v) * s.scale
	}

	if n < len(dst) || errors.Is(err, io.EOF) {
		s.eof = true
		return n, io.EOF
	}
	return n, nil
}
