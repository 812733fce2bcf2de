// SPDX-License-Identifier: EPL-2.0

package synth

import "github.com/ik5/polysynth/audio"

// testVoice adds a constant level*velocity to every channel while active.
// With tail > 0 a tail-off keeps it sounding for that many samples.
type testVoice struct {
	VoiceBase

	level float32
	tail  int
	only  Sound // when set, the only sound this voice can play

	velocity   float32
	startWheel int
	tailing    bool
	tailLeft   int

	starts, hardStops, softStops int
	wheel                        int
	controller, controllerValue  int
	controllerCalls              int
}

func newTestVoice(level float32) *testVoice {
	return &testVoice{level: level}
}

func (v *testVoice) CanPlaySound(s Sound) bool {
	return v.only == nil || v.only == s
}

func (v *testVoice) StartNote(note int, velocity float32, s Sound, pitchWheel int) {
	v.starts++
	v.velocity = velocity
	v.startWheel = pitchWheel
	v.tailing = false
}

func (v *testVoice) StopNote(allowTailOff bool) {
	if allowTailOff && v.tail > 0 {
		v.softStops++
		if !v.tailing {
			v.tailing = true
			v.tailLeft = v.tail
		}
		return
	}

	v.hardStops++
	v.tailing = false
	v.ClearCurrentNote()
}

func (v *testVoice) PitchWheelMoved(value int) { v.wheel = value }

func (v *testVoice) ControllerMoved(controller, value int) {
	v.controllerCalls++
	v.controller = controller
	v.controllerValue = value
}

func (v *testVoice) RenderNextBlock(out *audio.Buffer, startSample, numSamples int) {
	if !v.IsActive() {
		return
	}

	x := v.level * v.velocity
	for i := startSample; i < startSample+numSamples; i++ {
		for c := range out.NumChannels() {
			out.Channel(c)[i] += x
		}

		if v.tailing {
			v.tailLeft--
			if v.tailLeft <= 0 {
				v.tailing = false
				v.ClearCurrentNote()
				return
			}
		}
	}
}

// rampVoice outputs a rising ramp that restarts on every note, so its output
// depends on how many samples it has already rendered.
type rampVoice struct {
	VoiceBase
	pos int
}

func (v *rampVoice) CanPlaySound(Sound) bool { return true }

func (v *rampVoice) StartNote(note int, velocity float32, s Sound, pitchWheel int) {
	v.pos = note
}

func (v *rampVoice) StopNote(bool)            { v.ClearCurrentNote() }
func (v *rampVoice) PitchWheelMoved(int)      {}
func (v *rampVoice) ControllerMoved(int, int) {}

func (v *rampVoice) RenderNextBlock(out *audio.Buffer, startSample, numSamples int) {
	if !v.IsActive() {
		return
	}
	for i := startSample; i < startSample+numSamples; i++ {
		out.Channel(0)[i] += float32(v.pos%97+1) / 98
		v.pos++
	}
}

func allNotesSound() *BasicSound {
	return &BasicSound{Notes: NoteRange(0, 127), Channels: AllChannels}
}
