// SPDX-License-Identifier: EPL-2.0

// Package synth implements a polyphonic, sample-accurate synthesiser engine.
//
// An Engine owns a pool of Voices and a set of Sounds. A Sound says which
// MIDI notes and channels trigger it; a Voice renders one note of one Sound
// at a time. Note-on events are matched against the sounds and each match
// is given a free voice, or, when note stealing is enabled and every
// eligible voice is busy, the voice whose note started earliest.
//
// # Writing a voice
//
// Concrete voices embed VoiceBase and implement the rest of Voice:
//
//	type beepVoice struct {
//	    synth.VoiceBase
//	    phase, step float64
//	}
//
//	func (v *beepVoice) CanPlaySound(s synth.Sound) bool { return true }
//
//	func (v *beepVoice) StartNote(note int, vel float32, s synth.Sound, wheel int) {
//	    v.phase = 0
//	    v.step = utils.NoteToHertz(float64(note), 440) / v.SampleRate()
//	}
//
//	func (v *beepVoice) StopNote(allowTailOff bool) { v.ClearCurrentNote() }
//
// RenderNextBlock must add into the buffer, never overwrite it, and must
// call ClearCurrentNote once the voice has nothing left to play.
//
// # Rendering
//
// RenderNextBlock takes an output buffer and an EventBuffer. Events inside
// the requested window split it into sub-blocks; voices render up to each
// event, the event is applied, and rendering continues. A note-on stamped
// at sample 50 of a 100-sample block therefore sounds from sample 50 on,
// exactly as if the block had been rendered in two halves.
//
// # Concurrency
//
// Every Engine method takes the same mutex, including the render call, so
// control goroutines and the audio goroutine never interleave inside a
// block. Nothing under the lock allocates or blocks once voices and sounds
// are registered and the event buffer has capacity.
//
// # Policy outcomes
//
// The engine reports no errors. A note that finds no voice is dropped. Out
// of range indices to RemoveVoice and RemoveSound are ignored and logged.
// A voice that never calls ClearCurrentNote after a tail keeps its slot.
package synth
