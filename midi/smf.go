// SPDX-License-Identifier: EPL-2.0

package midi

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/ik5/polysynth/synth"
)

// Sequence is a time-ordered event list with timestamps in samples from the
// start of the song.
type Sequence struct {
	Events     []synth.Event
	SampleRate float64
}

// Length is the sample position one past the last event.
func (s *Sequence) Length() int {
	if len(s.Events) == 0 {
		return 0
	}
	return s.Events[len(s.Events)-1].Sample + 1
}

// Channels returns the distinct channels used, in ascending order.
func (s *Sequence) Channels() []int {
	var mask synth.ChannelMask
	for _, ev := range s.Events {
		mask |= synth.Channels(ev.Channel)
	}

	var out []int
	for ch := 1; ch <= synth.NumMidiChannels; ch++ {
		if mask.Contains(ch) {
			out = append(out, ch)
		}
	}
	return out
}

// ReadSMF reads every track of a Standard MIDI File and merges the events
// the engine understands into one Sequence. Tempo changes are honoured.
func ReadSMF(r io.Reader, sampleRate float64) (*Sequence, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	seq := &Sequence{SampleRate: sampleRate}

	err := smf.ReadTracksFrom(r).Do(func(te smf.TrackEvent) {
		sample := int(math.Round(float64(te.AbsMicroSeconds) * sampleRate / 1e6))
		if ev, ok := Decode(gomidi.Message(te.Message), sample); ok {
			seq.Events = append(seq.Events, ev)
		}
	}).Error()
	if err != nil {
		return nil, fmt.Errorf("reading midi file: %w", err)
	}

	if len(seq.Events) == 0 {
		return nil, ErrNoEvents
	}

	// stable so same-instant events keep file order within a track
	slices.SortStableFunc(seq.Events, func(a, b synth.Event) int {
		return cmp.Compare(a.Sample, b.Sample)
	})

	return seq, nil
}

// ReadSMFFile opens path and calls ReadSMF.
func ReadSMFFile(path string, sampleRate float64) (*Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	defer f.Close()

	return ReadSMF(f, sampleRate)
}
