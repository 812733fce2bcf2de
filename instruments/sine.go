// SPDX-License-Identifier: EPL-2.0

package instruments

import (
	"math"

	"github.com/ik5/polysynth/audio"
	"github.com/ik5/polysynth/synth"
	"github.com/ik5/polysynth/utils"
)

// MIDI controllers the sine voice reacts to.
const (
	ControllerVolume = 7
)

const (
	sineLevel     = 0.15
	tailDecay     = 0.99
	tailThreshold = 0.005
)

// SineSound triggers SineVoices on every note of the given channels.
type SineSound struct {
	synth.BasicSound
}

func NewSineSound(channels synth.ChannelMask) *SineSound {
	return &SineSound{synth.BasicSound{Notes: synth.NoteRange(0, 127), Channels: channels}}
}

// SineVoice plays a sine wave at the note's pitch. Releasing with tail-off
// decays the level exponentially until it is inaudible.
type SineVoice struct {
	synth.VoiceBase

	// BendRange is the pitch-wheel range in semitones.
	BendRange float64
	// Tuning is the frequency of A4 in Hz.
	Tuning float64
	// HardStop silences the voice on every note-off, tail-off or not.
	HardStop bool

	note      int
	bend      float64
	phase     float64
	delta     float64
	deltaRate float64 // sample rate delta was computed for
	level     float64
	volume    float64
	tailOff   float64
}

func NewSineVoice() *SineVoice {
	return &SineVoice{
		BendRange: DefaultBendRange,
		Tuning:    440,
		volume:    1,
	}
}

func (v *SineVoice) CanPlaySound(s synth.Sound) bool {
	_, ok := s.(*SineSound)
	return ok
}

func (v *SineVoice) StartNote(note int, velocity float32, _ synth.Sound, pitchWheel int) {
	v.note = note
	v.phase = 0
	v.level = float64(velocity) * sineLevel
	v.tailOff = 0
	v.bend = wheelToSemitones(pitchWheel, v.BendRange)
	v.updateDelta()
}

func (v *SineVoice) StopNote(allowTailOff bool) {
	// without a sample rate the tail would never render down
	if allowTailOff && !v.HardStop && v.SampleRate() > 0 {
		if v.tailOff == 0 {
			v.tailOff = 1
		}
		return
	}

	v.ClearCurrentNote()
	v.delta = 0
	v.tailOff = 0
}

func (v *SineVoice) PitchWheelMoved(value int) {
	v.bend = wheelToSemitones(value, v.BendRange)
	v.updateDelta()
}

func (v *SineVoice) ControllerMoved(controller, value int) {
	if controller == ControllerVolume {
		v.volume = float64(min(max(value, 0), 127)) / 127
	}
}

func (v *SineVoice) RenderNextBlock(out *audio.Buffer, startSample, numSamples int) {
	if !v.IsActive() {
		return
	}
	if v.deltaRate != v.SampleRate() {
		v.updateDelta()
	}
	if v.delta == 0 {
		return
	}

	chans := out.NumChannels()
	for i := startSample; i < startSample+numSamples; i++ {
		gain := v.level * v.volume
		if v.tailOff > 0 {
			gain *= v.tailOff
		}

		x := float32(math.Sin(v.phase) * gain)
		for c := range chans {
			out.Channel(c)[i] += x
		}

		v.phase += v.delta
		if v.phase >= 2*math.Pi {
			v.phase -= 2 * math.Pi
		}

		if v.tailOff > 0 {
			v.tailOff *= tailDecay
			if v.tailOff <= tailThreshold {
				v.ClearCurrentNote()
				v.delta = 0
				v.tailOff = 0
				return
			}
		}
	}
}

func (v *SineVoice) updateDelta() {
	rate := v.SampleRate()
	v.deltaRate = rate
	if rate <= 0 {
		v.delta = 0
		return
	}

	hz := utils.NoteToHertz(float64(v.note)+v.bend, v.Tuning)
	v.delta = 2 * math.Pi * hz / rate
}
