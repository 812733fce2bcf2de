// SPDX-License-Identifier: EPL-2.0

// Package midi turns raw MIDI messages and Standard MIDI Files into
// synth.Events. Channels are converted from the wire's 0..15 to the
// engine's 1..16 and velocities are scaled into [0, 1].
package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/ik5/polysynth/synth"
)

// Decode converts one complete MIDI message into an event stamped with
// sample. Messages the engine has no use for, such as system messages or
// aftertouch, report false.
//
// A note-on with zero velocity is kept as a note-on; the engine treats it
// as a note-off when the event is dispatched.
func Decode(msg []byte, sample int) (synth.Event, bool) {
	m := gomidi.Message(msg)

	var ch, key, vel, ctrl, val uint8
	var rel int16
	var abs uint16

	switch {
	case m.GetNoteOn(&ch, &key, &vel):
		return synth.NoteOnEvent(sample, int(ch)+1, int(key), velocity(vel)), true
	case m.GetNoteOff(&ch, &key, &vel):
		ev := synth.NoteOffEvent(sample, int(ch)+1, int(key))
		ev.Velocity = velocity(vel)
		return ev, true
	case m.GetControlChange(&ch, &ctrl, &val):
		return synth.ControllerEvent(sample, int(ch)+1, int(ctrl), int(val)), true
	case m.GetPitchBend(&ch, &rel, &abs):
		return synth.PitchWheelEvent(sample, int(ch)+1, int(abs)), true
	}

	return synth.Event{}, false
}

// Encode is the inverse of Decode. Events with a channel outside 1..16 or
// an unknown type yield nil.
func Encode(ev synth.Event) []byte {
	if ev.Channel < 1 || ev.Channel > synth.NumMidiChannels {
		return nil
	}
	ch := uint8(ev.Channel - 1)

	switch ev.Type {
	case synth.EventNoteOn:
		return gomidi.NoteOn(ch, data7(ev.Number), velocity7(ev.Velocity))
	case synth.EventNoteOff:
		return gomidi.NoteOffVelocity(ch, data7(ev.Number), velocity7(ev.Velocity))
	case synth.EventController:
		return gomidi.ControlChange(ch, data7(ev.Number), data7(ev.Value))
	case synth.EventPitchWheel:
		v := min(max(ev.Value, synth.PitchWheelMin), synth.PitchWheelMax)
		return gomidi.Pitchbend(ch, int16(v-synth.PitchWheelCentre))
	}

	return nil
}

func velocity(v uint8) float32 { return float32(v) / 127 }

func velocity7(v float32) uint8 {
	return uint8(min(max(v, 0), 1)*127 + 0.5)
}

func data7(v int) uint8 { return uint8(min(max(v, 0), 127)) }
