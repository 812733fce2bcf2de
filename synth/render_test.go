// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"testing"

	"github.com/ik5/polysynth/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRampEngine(numVoices int) (*Engine, []*rampVoice) {
	e := NewEngine(WithSampleRate(44100))
	voices := make([]*rampVoice, numVoices)
	for i := range voices {
		voices[i] = &rampVoice{}
		e.AddVoice(voices[i])
	}
	e.AddSound(allNotesSound())
	return e, voices
}

func TestRender_EventTakesEffectAtItsSample(t *testing.T) {
	t.Parallel()

	whole, _ := newRampEngine(1)
	events := NewEventBuffer(4)
	events.Add(NoteOnEvent(50, 1, 60, 1))

	one := audio.NewBuffer(1, 100)
	whole.RenderNextBlock(one, events, 0, 100)

	split, _ := newRampEngine(1)
	two := audio.NewBuffer(1, 100)
	split.RenderNextBlock(two, nil, 0, 50)
	split.RenderNextBlock(two, events, 50, 50)

	require.Equal(t, two.Channel(0), one.Channel(0))

	for i, v := range one.Channel(0)[:50] {
		require.Zerof(t, v, "sample %d before the note-on must be silent", i)
	}
	for i, v := range one.Channel(0)[50:] {
		require.NotZerof(t, v, "sample %d after the note-on must sound", 50+i)
	}
}

func TestRender_SliceBoundariesDoNotChangeOutput(t *testing.T) {
	t.Parallel()

	events := NewEventBuffer(8)
	events.Add(NoteOnEvent(3, 1, 60, 1))
	events.Add(NoteOnEvent(17, 1, 64, 1))
	events.Add(NoteOffEvent(40, 1, 60))
	events.Add(NoteOnEvent(41, 1, 67, 1))

	ref, _ := newRampEngine(2)
	want := audio.NewBuffer(1, 64)
	ref.RenderNextBlock(want, events, 0, 64)

	e, _ := newRampEngine(2)
	got := audio.NewBuffer(1, 64)
	for start := 0; start < 64; start++ {
		e.RenderNextBlock(got, events, start, 1)
	}

	assert.Equal(t, want.Channel(0), got.Channel(0))
}

func TestRender_OutputIsSumOfVoices(t *testing.T) {
	t.Parallel()

	both, _ := newRampEngine(2)
	both.NoteOn(1, 60, 1)
	both.NoteOn(1, 64, 1)
	mixed := audio.NewBuffer(1, 128)
	both.RenderNextBlock(mixed, nil, 0, 128)

	sum := audio.NewBuffer(1, 128)
	for _, note := range []int{60, 64} {
		e, _ := newRampEngine(1)
		e.NoteOn(1, note, 1)
		e.RenderNextBlock(sum, nil, 0, 128)
	}

	assert.Equal(t, sum.Channel(0), mixed.Channel(0))
}

func TestRender_AddsToExistingContent(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t, 1, false)
	e.NoteOn(1, 60, 0.5)

	buf := audio.NewBuffer(2, 4)
	for c := range 2 {
		for i := range 4 {
			buf.Channel(c)[i] = 0.25
		}
	}

	e.RenderNextBlock(buf, nil, 1, 2)

	want := []float32{0.25, 0.75, 0.75, 0.25}
	assert.Equal(t, want, buf.Channel(0))
	assert.Equal(t, want, buf.Channel(1))
}

func TestRender_EventDecoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		events []Event
		tail   int
		active bool
		tailed bool
	}{
		{
			name:   "note-on starts a voice",
			events: []Event{NoteOnEvent(0, 1, 60, 1)},
			active: true,
		},
		{
			name:   "zero velocity note-on releases",
			events: []Event{NoteOnEvent(0, 1, 60, 1), NoteOnEvent(1, 1, 60, 0)},
		},
		{
			name:   "note-off releases with tail",
			events: []Event{NoteOnEvent(0, 1, 60, 1), NoteOffEvent(1, 1, 60)},
			tail:   1000,
			active: true,
			tailed: true,
		},
		{
			name:   "all notes off tails",
			events: []Event{NoteOnEvent(0, 1, 60, 1), ControllerEvent(1, 1, ControllerAllNotesOff, 0)},
			tail:   1000,
			active: true,
			tailed: true,
		},
		{
			name:   "all sound off cuts",
			events: []Event{NoteOnEvent(0, 1, 60, 1), ControllerEvent(1, 1, ControllerAllSoundOff, 0)},
			tail:   1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, voices := newTestEngine(t, 1, false)
			voices[0].tail = tt.tail

			events := NewEventBuffer(len(tt.events))
			for _, ev := range tt.events {
				events.Add(ev)
			}
			e.RenderNextBlock(audio.NewBuffer(1, 8), events, 0, 8)

			assert.Equal(t, tt.active, voices[0].IsActive())
			assert.Equal(t, tt.tailed, voices[0].tailing)
		})
	}
}

func TestRender_ControllerAndWheelEvents(t *testing.T) {
	t.Parallel()

	e, voices := newTestEngine(t, 1, false)
	events := NewEventBuffer(4)
	events.Add(PitchWheelEvent(0, 5, 4000))
	events.Add(NoteOnEvent(1, 5, 60, 1))
	events.Add(ControllerEvent(2, 5, 1, 64))

	e.RenderNextBlock(audio.NewBuffer(1, 4), events, 0, 4)

	assert.Equal(t, 4000, e.LastPitchWheel(5))
	assert.Equal(t, 4000, voices[0].startWheel)
	assert.Equal(t, 1, voices[0].controller)
	assert.Equal(t, 64, voices[0].controllerValue)
}

func TestRender_EventsOutsideWindowIgnored(t *testing.T) {
	t.Parallel()

	e, voices := newTestEngine(t, 2, false)
	events := NewEventBuffer(4)
	events.Add(NoteOnEvent(5, 1, 60, 1))
	events.Add(NoteOnEvent(20, 1, 64, 1))

	e.RenderNextBlock(audio.NewBuffer(1, 32), events, 10, 10)
	assert.False(t, voices[0].IsActive())
	assert.False(t, voices[1].IsActive())

	e.RenderNextBlock(audio.NewBuffer(1, 32), events, 20, 10)
	assert.Equal(t, 64, voices[0].CurrentlyPlayingNote())
}

func TestRender_SimultaneousEventsKeepOrder(t *testing.T) {
	t.Parallel()

	e, voices := newTestEngine(t, 1, false)
	events := NewEventBuffer(4)
	events.Add(NoteOnEvent(4, 1, 60, 1))
	events.Add(NoteOffEvent(4, 1, 60))

	buf := audio.NewBuffer(1, 8)
	e.RenderNextBlock(buf, events, 0, 8)

	assert.False(t, voices[0].IsActive())
	assert.Equal(t, make([]float32, 8), buf.Channel(0))
}

func TestRender_RangeClippedToBuffer(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t, 1, false)
	e.NoteOn(1, 60, 1)

	buf := audio.NewBuffer(1, 4)
	assert.NotPanics(t, func() {
		e.RenderNextBlock(buf, nil, 2, 100)
		e.RenderNextBlock(buf, nil, -3, 4)
		e.RenderNextBlock(buf, nil, 10, 4)
	})
	assert.Equal(t, []float32{1, 0, 1, 1}, buf.Channel(0))
}

func TestRender_ZeroAllocs(t *testing.T) {
	e, _ := newTestEngine(t, 8, true)
	events := NewEventBuffer(16)
	buf := audio.NewBuffer(2, 256)

	allocs := testing.AllocsPerRun(100, func() {
		events.Clear()
		events.Add(NoteOnEvent(10, 1, 60, 0.8))
		events.Add(PitchWheelEvent(64, 1, 9000))
		events.Add(NoteOffEvent(200, 1, 60))
		buf.Clear()
		e.RenderNextBlock(buf, events, 0, 256)
	})

	if allocs > 0 {
		t.Errorf("RenderNextBlock allocated %v times, want 0", allocs)
	}
}

func BenchmarkRenderNextBlock(b *testing.B) {
	e := NewEngine(WithSampleRate(48000))
	for range 16 {
		e.AddVoice(&rampVoice{})
	}
	e.AddSound(allNotesSound())

	events := NewEventBuffer(64)
	for i := range 16 {
		events.Add(NoteOnEvent(i*16, 1, 48+i, 1))
	}
	buf := audio.NewBuffer(2, 512)

	b.ReportAllocs()

	for range b.N {
		buf.Clear()
		e.RenderNextBlock(buf, events, 0, 512)
	}
}
