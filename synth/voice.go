// SPDX-License-Identifier: EPL-2.0

package synth

import "github.com/ik5/polysynth/audio"

// Voice renders one note of one Sound at a time. Concrete voices embed
// VoiceBase, which carries the state the Engine manages and satisfies the
// unexported part of this interface.
//
// Every method is called with the engine lock held, from either the control
// goroutine or the render goroutine, never both at once. Implementations
// must not block, allocate, or take other locks.
//
// A voice that tails off owes the engine a ClearCurrentNote call from
// RenderNextBlock once the tail is done. Until then the slot stays busy; the
// engine does not time out tails.
type Voice interface {
	// CanPlaySound reports whether this voice knows how to render sound.
	// It must not change state.
	CanPlaySound(sound Sound) bool

	// StartNote begins a new note. The note and sound are already recorded
	// in VoiceBase when it is called. pitchWheel is the channel's current
	// wheel position.
	StartNote(note int, velocity float32, sound Sound, pitchWheel int)

	// StopNote ends the current note. With allowTailOff false, or when the
	// voice has no release stage, it must go silent and call
	// ClearCurrentNote before returning. Otherwise it may keep rendering a
	// tail and clear itself from RenderNextBlock later. It can be called
	// again while a tail is already running.
	StopNote(allowTailOff bool)

	PitchWheelMoved(value int)
	ControllerMoved(controller, value int)

	// RenderNextBlock adds this voice's output to out over
	// [startSample, startSample+numSamples). It does nothing when idle and
	// must accept any block length, down to a single sample. If the sound
	// ends inside the block it calls ClearCurrentNote before returning.
	RenderNextBlock(out *audio.Buffer, startSample, numSamples int)

	voiceBase() *VoiceBase
}

// VoiceBase holds the per-voice state owned by the Engine. The zero value is
// an idle voice with an unknown sample rate.
type VoiceBase struct {
	sampleRate float64
	note       int
	sound      Sound
	noteOnTime uint64
}

func (v *VoiceBase) voiceBase() *VoiceBase { return v }

// SampleRate is the engine's playback rate in Hz, or 0 before the engine
// has one.
func (v *VoiceBase) SampleRate() float64 { return v.sampleRate }

// CurrentlyPlayingNote returns the note being played, or -1 when idle.
func (v *VoiceBase) CurrentlyPlayingNote() int {
	if v.sound == nil {
		return -1
	}
	return v.note
}

// CurrentlyPlayingSound returns the sound being played, or nil when idle.
func (v *VoiceBase) CurrentlyPlayingSound() Sound { return v.sound }

// IsActive reports whether the voice holds a note, including while it is
// tailing off.
func (v *VoiceBase) IsActive() bool { return v.sound != nil }

// IsPlayingChannel reports whether the current sound responds to channel.
// An idle voice plays no channel.
func (v *VoiceBase) IsPlayingChannel(channel int) bool {
	return v.sound != nil && v.sound.AppliesToChannel(channel)
}

// ClearCurrentNote returns the voice to idle and drops its sound reference.
// Concrete voices call it from StopNote or RenderNextBlock when their
// output has finished.
func (v *VoiceBase) ClearCurrentNote() {
	v.note = -1
	v.sound = nil
}

func (v *VoiceBase) setSampleRate(rate float64) { v.sampleRate = rate }

func (v *VoiceBase) assign(note int, sound Sound, noteOnTime uint64) {
	v.note = note
	v.sound = sound
	v.noteOnTime = noteOnTime
}
