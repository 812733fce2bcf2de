// SPDX-License-Identifier: EPL-2.0

package synth

import "math/bits"

// Sound describes something the engine can play and which notes and channels
// trigger it. Rendering is done by a Voice; a Sound only answers the two
// predicates.
//
// A Sound must not change once it has been added to an Engine. It is read
// from the render path and the control path without further locking, and
// voices keep a reference to it for as long as they play it, even after it
// has been removed from the engine.
type Sound interface {
	AppliesToNote(note int) bool
	AppliesToChannel(channel int) bool
}

// NumMidiNotes is the size of the MIDI note space, notes 0..127.
const NumMidiNotes = 128

// NoteSet is a fixed-size set of MIDI notes. The zero value is empty.
type NoteSet [2]uint64

// NoteRange returns the set of notes from lo to hi inclusive, clipped to
// 0..127.
func NoteRange(lo, hi int) NoteSet {
	var s NoteSet
	for n := max(lo, 0); n <= min(hi, NumMidiNotes-1); n++ {
		s = s.With(n)
	}
	return s
}

// Notes returns a set holding the given notes. Out of range values are
// dropped.
func Notes(notes ...int) NoteSet {
	var s NoteSet
	for _, n := range notes {
		s = s.With(n)
	}
	return s
}

// With returns a copy of s with note added.
func (s NoteSet) With(note int) NoteSet {
	if note >= 0 && note < NumMidiNotes {
		s[note>>6] |= 1 << uint(note&63)
	}
	return s
}

func (s NoteSet) Contains(note int) bool {
	if note < 0 || note >= NumMidiNotes {
		return false
	}
	return s[note>>6]&(1<<uint(note&63)) != 0
}

func (s NoteSet) Len() int {
	return bits.OnesCount64(s[0]) + bits.OnesCount64(s[1])
}

// ChannelMask is a set of MIDI channels 1..16, bit (channel-1).
type ChannelMask uint16

// AllChannels matches every MIDI channel.
const AllChannels ChannelMask = 0xFFFF

// Channels builds a mask from channel numbers in 1..16; anything else is
// ignored.
func Channels(channels ...int) ChannelMask {
	var m ChannelMask
	for _, ch := range channels {
		if validChannel(ch) {
			m |= 1 << uint(ch-1)
		}
	}
	return m
}

func (m ChannelMask) Contains(channel int) bool {
	return validChannel(channel) && m&(1<<uint(channel-1)) != 0
}

// BasicSound is a Sound defined by a note set and a channel mask. It is
// enough for most instruments; embed it to attach instrument data.
type BasicSound struct {
	Notes    NoteSet
	Channels ChannelMask
}

func (s *BasicSound) AppliesToNote(note int) bool       { return s.Notes.Contains(note) }
func (s *BasicSound) AppliesToChannel(channel int) bool { return s.Channels.Contains(channel) }
