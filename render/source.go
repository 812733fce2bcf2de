// SPDX-License-Identifier: EPL-2.0

// Package render drives a synth.Engine from a pre-sequenced event list and
// exposes the result as an audio.Source, so a song can flow through the
// same resampling, mixing and output stages as decoded audio.
package render

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/ik5/polysynth/audio"
	"github.com/ik5/polysynth/synth"
)

const (
	DefaultBlockSize = 512
	DefaultChannels  = 2
	DefaultTail      = 2.0 // seconds
)

// Source renders an engine block by block. Each block gets the slice of
// events that falls inside it, shifted to block-relative timestamps.
//
// The stream ends once every event has been dispatched and no voice is
// still sounding, or when the tail after the last event runs out,
// whichever comes first.
type Source struct {
	engine    *synth.Engine
	events    []synth.Event
	channels  int
	blockSize int
	tail      float64
	limit     int

	block   *audio.Buffer
	pending *synth.EventBuffer
	pos     int // frames rendered so far
	next    int // first event not yet handed to the engine
	out     int // frames of block already copied out
	ready   int // frames of block available
	done    bool
	closed  bool
}

type Option func(*Source)

// WithBlockSize sets how many frames are rendered per engine call.
func WithBlockSize(frames int) Option {
	return func(s *Source) { s.blockSize = frames }
}

func WithChannels(channels int) Option {
	return func(s *Source) { s.channels = channels }
}

// WithTail sets how long rendering may continue after the last event, in
// seconds, while voices are still releasing.
func WithTail(seconds float64) Option {
	return func(s *Source) { s.tail = seconds }
}

// NewSource prepares engine to render events. events need not be sorted;
// a sorted copy is kept. The engine's sample rate must already be set.
func NewSource(engine *synth.Engine, events []synth.Event, opts ...Option) (*Source, error) {
	s := &Source{
		engine:    engine,
		channels:  DefaultChannels,
		blockSize: DefaultBlockSize,
		tail:      DefaultTail,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.blockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, s.blockSize)
	}
	if s.channels <= 0 {
		return nil, fmt.Errorf("%w: %d", audio.ErrInvalidChannelCount, s.channels)
	}

	rate := engine.SampleRate()
	if rate <= 0 || math.IsNaN(rate) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, rate)
	}

	s.events = make([]synth.Event, len(events))
	copy(s.events, events)
	sort.SliceStable(s.events, func(i, j int) bool { return s.events[i].Sample < s.events[j].Sample })

	last := 0
	if n := len(s.events); n > 0 {
		last = max(s.events[n-1].Sample+1, 0)
	}
	s.limit = last + int(math.Ceil(max(s.tail, 0)*rate))

	s.block = audio.NewBuffer(s.channels, s.blockSize)
	s.pending = synth.NewEventBuffer(64)

	return s, nil
}

func (s *Source) SampleRate() int { return int(math.Round(s.engine.SampleRate())) }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return s.blockSize * s.channels }

// Position is the number of frames rendered so far.
func (s *Source) Position() int { return s.pos }

// Close silences every voice and ends the stream.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.engine.AllNotesOff(0, false)
	return nil
}

// ReadSamples fills dst with interleaved frames. len(dst) must be a
// multiple of Channels().
func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if len(dst)%s.channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}

	written := 0
	for written < len(dst) {
		if s.out == s.ready {
			if !s.renderBlock() {
				return written, io.EOF
			}
		}

		n := s.block.Interleave(dst[written:], s.out, s.ready-s.out)
		s.out += n / s.channels
		written += n
	}

	return written, nil
}

func (s *Source) renderBlock() bool {
	if s.done || s.finished() {
		s.done = true
		return false
	}

	n := min(s.blockSize, s.limit-s.pos)
	end := s.pos + n

	first := s.next
	for s.next < len(s.events) && s.events[s.next].Sample < end {
		s.next++
	}

	s.pending.Clear()
	s.pending.AddRange(s.events[first:s.next], s.pos, end, -s.pos)

	s.block.SetSize(s.channels, n)
	s.engine.RenderNextBlock(s.block, s.pending, 0, n)

	s.pos = end
	s.out = 0
	s.ready = n
	return true
}

func (s *Source) finished() bool {
	if s.pos >= s.limit {
		return true
	}
	return s.next == len(s.events) && s.engine.NumActiveVoices() == 0
}
