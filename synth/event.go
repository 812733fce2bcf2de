// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"fmt"
	"slices"
	"sort"
)

// EventType identifies the kind of control event.
type EventType uint8

const (
	EventNoteOn EventType = iota + 1
	EventNoteOff
	EventController
	EventPitchWheel
)

func (t EventType) String() string {
	switch t {
	case EventNoteOn:
		return "note-on"
	case EventNoteOff:
		return "note-off"
	case EventController:
		return "controller"
	case EventPitchWheel:
		return "pitch-wheel"
	default:
		return fmt.Sprintf("EventType(%d)", uint8(t))
	}
}

// Controller numbers the engine interprets itself instead of forwarding.
const (
	ControllerAllSoundOff = 120
	ControllerAllNotesOff = 123
)

// Pitch-wheel positions are 14-bit.
const (
	PitchWheelMin    = 0
	PitchWheelCentre = 0x2000
	PitchWheelMax    = 0x3FFF
)

// Event is a decoded control event with a sample-offset timestamp.
// Sample is compared against the sample indices of the buffer passed to
// Engine.RenderNextBlock.
type Event struct {
	Sample  int
	Type    EventType
	Channel int // 1..16

	// Number is the note number for note events and the controller number
	// for controller events.
	Number int
	// Value is the controller value (0..127) or the pitch-wheel position
	// (0..0x3FFF).
	Value int
	// Velocity of a note event in [0, 1]. A note-on with zero velocity is
	// treated as a note-off.
	Velocity float32
}

func NoteOnEvent(sample, channel, note int, velocity float32) Event {
	return Event{Sample: sample, Type: EventNoteOn, Channel: channel, Number: note, Velocity: velocity}
}

func NoteOffEvent(sample, channel, note int) Event {
	return Event{Sample: sample, Type: EventNoteOff, Channel: channel, Number: note}
}

func ControllerEvent(sample, channel, controller, value int) Event {
	return Event{Sample: sample, Type: EventController, Channel: channel, Number: controller, Value: value}
}

func PitchWheelEvent(sample, channel, value int) Event {
	return Event{Sample: sample, Type: EventPitchWheel, Channel: channel, Value: value}
}

func (e Event) String() string {
	switch e.Type {
	case EventNoteOn, EventNoteOff:
		return fmt.Sprintf("%s@%d ch=%d note=%d vel=%.3f", e.Type, e.Sample, e.Channel, e.Number, e.Velocity)
	case EventController:
		return fmt.Sprintf("%s@%d ch=%d cc=%d val=%d", e.Type, e.Sample, e.Channel, e.Number, e.Value)
	default:
		return fmt.Sprintf("%s@%d ch=%d val=%d", e.Type, e.Sample, e.Channel, e.Value)
	}
}

// EventBuffer keeps events in ascending timestamp order. Events with equal
// timestamps keep the order they were added in.
//
// Adding within the capacity given to NewEventBuffer does not allocate, so a
// buffer can be refilled on the audio thread.
type EventBuffer struct {
	events []Event
}

func NewEventBuffer(capacity int) *EventBuffer {
	return &EventBuffer{events: make([]Event, 0, capacity)}
}

// Add inserts ev after every event with a timestamp <= ev.Sample.
// Appending in timestamp order is O(1). An out-of-order event shifts the
// later events up, which is O(n), and like any Add past the capacity it
// reallocates once the buffer is full.
func (b *EventBuffer) Add(ev Event) {
	n := len(b.events)
	if n == 0 || b.events[n-1].Sample <= ev.Sample {
		b.events = append(b.events, ev)
		return
	}

	i := sort.Search(n, func(i int) bool { return b.events[i].Sample > ev.Sample })
	b.events = slices.Insert(b.events, i, ev)
}

// AddRange copies the events of src with timestamps in [from, to) and
// shifts each timestamp by delta.
func (b *EventBuffer) AddRange(src []Event, from, to, delta int) {
	for _, ev := range src {
		if ev.Sample < from || ev.Sample >= to {
			continue
		}
		ev.Sample += delta
		b.Add(ev)
	}
}

func (b *EventBuffer) Clear()          { b.events = b.events[:0] }
func (b *EventBuffer) Len() int        { return len(b.events) }
func (b *EventBuffer) Events() []Event { return b.events }
