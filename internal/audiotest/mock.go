// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides deterministic audio sources for tests. Sources
// satisfy audio.Source structurally so packages below audio can use them
// too.
package audiotest

import (
	"io"
	"math"
)

// Source generates frames from a waveform function.
type Source struct {
	rate     int
	channels int
	frames   int
	pos      int
	wave     func(frame, channel int) float32

	// Err, when set, is returned instead of io.EOF once the source runs dry.
	Err error
	// Closed reports whether Close has been called.
	Closed bool
}

// NewSource returns a source of frames frames produced by wave.
func NewSource(rate, channels, frames int, wave func(frame, channel int) float32) *Source {
	return &Source{
		rate:     rate,
		channels: channels,
		frames:   frames,
		wave:     wave,
	}
}

func NewSilentSource(rate, channels, frames int) *Source {
	return NewConstantSource(rate, channels, frames, 0)
}

func NewConstantSource(rate, channels, frames int, value float32) *Source {
	return NewSource(rate, channels, frames, func(int, int) float32 { return value })
}

func NewSineSource(rate, channels, frames int, hz float64) *Source {
	return NewSource(rate, channels, frames, func(frame, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * hz * float64(frame) / float64(rate)))
	})
}

// NewRampSource counts up by step every frame; channel c is offset by c.
func NewRampSource(rate, channels, frames int, step float32) *Source {
	return NewSource(rate, channels, frames, func(frame, channel int) float32 {
		return float32(frame)*step + float32(channel)
	})
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return 4096 }

func (s *Source) Close() error {
	s.Closed = true
	return nil
}

// Reset rewinds to the first frame.
func (s *Source) Reset() { s.pos = 0 }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	n := min(len(dst)/s.channels, s.frames-s.pos)
	for f := range n {
		for c := range s.channels {
			dst[f*s.channels+c] = s.wave(s.pos+f, c)
		}
	}
	s.pos += n

	if s.pos < s.frames {
		return n * s.channels, nil
	}
	if s.Err != nil {
		return n * s.channels, s.Err
	}
	return n * s.channels, io.EOF
}
