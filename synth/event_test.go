// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"testing"
)

func TestEventBuffer_KeepsTimestampOrder(t *testing.T) {
	t.Parallel()

	b := NewEventBuffer(8)
	b.Add(NoteOnEvent(30, 1, 60, 1))
	b.Add(NoteOnEvent(10, 1, 61, 1))
	b.Add(NoteOnEvent(20, 1, 62, 1))
	b.Add(NoteOffEvent(10, 1, 61))
	b.Add(NoteOnEvent(0, 1, 63, 1))

	want := []struct {
		sample int
		typ    EventType
		note   int
	}{
		{0, EventNoteOn, 63},
		{10, EventNoteOn, 61},
		{10, EventNoteOff, 61},
		{20, EventNoteOn, 62},
		{30, EventNoteOn, 60},
	}

	if b.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", b.Len(), len(want))
	}
	for i, ev := range b.Events() {
		if ev.Sample != want[i].sample || ev.Type != want[i].typ || ev.Number != want[i].note {
			t.Errorf("event %d = %v, want sample=%d type=%v note=%d", i, ev, want[i].sample, want[i].typ, want[i].note)
		}
	}

	b.Clear()
	if b.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", b.Len())
	}
}

func TestEventBuffer_AddRange(t *testing.T) {
	t.Parallel()

	src := []Event{
		NoteOnEvent(90, 1, 60, 1),
		NoteOnEvent(100, 1, 61, 1),
		ControllerEvent(150, 1, 7, 90),
		NoteOffEvent(200, 1, 61),
	}

	b := NewEventBuffer(4)
	b.AddRange(src, 100, 200, -100)

	got := b.Events()
	if len(got) != 2 {
		t.Fatalf("AddRange kept %d events, want 2", len(got))
	}
	if got[0].Sample != 0 || got[0].Number != 61 {
		t.Errorf("first event = %v, want note 61 at 0", got[0])
	}
	if got[1].Sample != 50 || got[1].Type != EventController {
		t.Errorf("second event = %v, want controller at 50", got[1])
	}
}

func TestEventBuffer_AddWithinCapacityDoesNotAllocate(t *testing.T) {
	b := NewEventBuffer(8)

	allocs := testing.AllocsPerRun(100, func() {
		b.Clear()
		b.Add(NoteOnEvent(5, 1, 60, 1))
		b.Add(NoteOnEvent(1, 1, 61, 1))
		b.Add(NoteOffEvent(3, 1, 61))
	})

	if allocs > 0 {
		t.Errorf("Add allocated %v times, want 0", allocs)
	}
}

func TestEventBuffer_OutOfOrderAddGrowsPastCapacity(t *testing.T) {
	t.Parallel()

	b := NewEventBuffer(2)
	for _, sample := range []int{40, 10, 30, 20, 0} {
		b.Add(NoteOnEvent(sample, 1, 60+sample, 1))
	}

	got := b.Events()
	if len(got) != 5 {
		t.Fatalf("Len() = %d, want 5", len(got))
	}
	for i, ev := range got {
		if ev.Sample != i*10 {
			t.Errorf("events[%d].Sample = %d, want %d", i, ev.Sample, i*10)
		}
	}
}

func TestEventType_String(t *testing.T) {
	t.Parallel()

	tests := map[EventType]string{
		EventNoteOn:     "note-on",
		EventNoteOff:    "note-off",
		EventController: "controller",
		EventPitchWheel: "pitch-wheel",
		EventType(42):   "EventType(42)",
	}

	for typ, want := range tests {
		if got := typ.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", uint8(typ), got, want)
		}
	}
}
