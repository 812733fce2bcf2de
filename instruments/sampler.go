// SPDX-License-Identifier: EPL-2.0

package instruments

import (
	"fmt"
	"math"

	"github.com/ik5/polysynth/audio"
	"github.com/ik5/polysynth/synth"
	"github.com/ik5/polysynth/utils"
)

// SamplerConfig describes how a recording is mapped onto the keyboard.
type SamplerConfig struct {
	Name string
	// Notes the sound responds to. Must not be empty.
	Notes synth.NoteSet
	// Channels the sound responds to. Zero means all channels.
	Channels synth.ChannelMask
	// RootNote plays the recording at its original pitch.
	RootNote int
	// Attack and Release are linear envelope lengths in seconds.
	Attack  float64
	Release float64
	// MaxLength caps how much of the source is loaded, in seconds. Zero
	// loads everything.
	MaxLength float64
}

// SamplerSound holds a recording in memory. At most two channels are kept.
type SamplerSound struct {
	synth.BasicSound

	name       string
	data       *audio.Buffer
	sourceRate float64
	rootNote   int
	attack     float64
	release    float64
}

// NewSamplerSound loads src into memory. The source is not closed.
func NewSamplerSound(src audio.Source, cfg SamplerConfig) (*SamplerSound, error) {
	if cfg.Notes.Len() == 0 {
		return nil, ErrInvalidNoteRange
	}
	if cfg.RootNote < 0 || cfg.RootNote >= synth.NumMidiNotes {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRootNote, cfg.RootNote)
	}

	rate := src.SampleRate()
	if rate <= 0 {
		return nil, fmt.Errorf("%w: %d", audio.ErrInvalidSampleRate, rate)
	}

	maxFrames := 0
	if cfg.MaxLength > 0 {
		maxFrames = int(math.Ceil(cfg.MaxLength * float64(rate)))
	}

	samples, err := audio.ReadAll(src, maxFrames)
	if err != nil {
		return nil, fmt.Errorf("loading sample %q: %w", cfg.Name, err)
	}

	srcChannels := src.Channels()
	frames := len(samples) / srcChannels
	if frames == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptySample, cfg.Name)
	}

	keep := min(srcChannels, 2)
	data := audio.NewBuffer(keep, frames)
	for c := range keep {
		ch := data.Channel(c)
		for f := range frames {
			ch[f] = samples[f*srcChannels+c]
		}
	}

	channels := cfg.Channels
	if channels == 0 {
		channels = synth.AllChannels
	}

	return &SamplerSound{
		BasicSound: synth.BasicSound{Notes: cfg.Notes, Channels: channels},
		name:       cfg.Name,
		data:       data,
		sourceRate: float64(rate),
		rootNote:   cfg.RootNote,
		attack:     max(cfg.Attack, 0),
		release:    max(cfg.Release, 0),
	}, nil
}

func (s *SamplerSound) Name() string        { return s.name }
func (s *SamplerSound) RootNote() int       { return s.rootNote }
func (s *SamplerSound) SourceRate() float64 { return s.sourceRate }
func (s *SamplerSound) Data() *audio.Buffer { return s.data }
func (s *SamplerSound) Length() int         { return s.data.NumSamples() }

type envelopeStage int

const (
	stageAttack envelopeStage = iota
	stageSustain
	stageRelease
)

// SamplerVoice plays a SamplerSound transposed relative to its root note.
type SamplerVoice struct {
	synth.VoiceBase

	// BendRange is the pitch-wheel range in semitones.
	BendRange float64

	sound     *SamplerSound
	note      int
	bend      float64
	ratio     float64
	ratioRate float64 // sample rate ratio was computed for
	pos       float64
	gain      float32
	stage     envelopeStage
	env       float64
	envDelta  float64
}

func NewSamplerVoice() *SamplerVoice {
	return &SamplerVoice{BendRange: DefaultBendRange}
}

func (v *SamplerVoice) CanPlaySound(s synth.Sound) bool {
	_, ok := s.(*SamplerSound)
	return ok
}

func (v *SamplerVoice) StartNote(note int, velocity float32, s synth.Sound, pitchWheel int) {
	sound, ok := s.(*SamplerSound)
	if !ok {
		v.ClearCurrentNote()
		return
	}

	v.sound = sound
	v.note = note
	v.pos = 0
	v.gain = velocity
	v.bend = wheelToSemitones(pitchWheel, v.BendRange)
	v.updateRatio()

	if n := v.envSamples(sound.attack); n > 0 {
		v.stage = stageAttack
		v.env = 0
		v.envDelta = 1 / n
		return
	}

	v.stage = stageSustain
	v.env = 1
}

func (v *SamplerVoice) StopNote(allowTailOff bool) {
	if allowTailOff && v.sound != nil {
		if n := v.envSamples(v.sound.release); n > 0 {
			v.stage = stageRelease
			v.envDelta = -v.env / n
			return
		}
	}

	v.ClearCurrentNote()
	v.sound = nil
}

func (v *SamplerVoice) PitchWheelMoved(value int) {
	v.bend = wheelToSemitones(value, v.BendRange)
	v.updateRatio()
}

func (v *SamplerVoice) ControllerMoved(int, int) {}

func (v *SamplerVoice) RenderNextBlock(out *audio.Buffer, startSample, numSamples int) {
	s := v.sound
	if s == nil || !v.IsActive() {
		return
	}
	if v.ratioRate != v.SampleRate() {
		v.updateRatio()
	}
	if v.ratio == 0 {
		return
	}

	left := s.data.Channel(0)
	right := left
	if s.data.NumChannels() > 1 {
		right = s.data.Channel(1)
	}
	length := len(left)

	outL := out.Channel(0)
	var outR []float32
	if out.NumChannels() > 1 {
		outR = out.Channel(1)
	}

	for i := startSample; i < startSample+numSamples; i++ {
		idx := int(v.pos)
		frac := float32(v.pos - float64(idx))

		l := interpolate(left, idx, frac)
		r := l
		if s.data.NumChannels() > 1 {
			r = interpolate(right, idx, frac)
		}

		g := v.gain * float32(v.env)
		if outR != nil {
			outL[i] += l * g
			outR[i] += r * g
		} else {
			outL[i] += (l + r) * 0.5 * g
		}

		switch v.stage {
		case stageAttack:
			v.env += v.envDelta
			if v.env >= 1 {
				v.env = 1
				v.stage = stageSustain
			}
		case stageRelease:
			v.env += v.envDelta
			if v.env <= 0 {
				v.StopNote(false)
				return
			}
		}

		v.pos += v.ratio
		if v.pos >= float64(length) {
			v.StopNote(false)
			return
		}
	}
}

func (v *SamplerVoice) envSamples(seconds float64) float64 {
	return math.Floor(seconds * v.SampleRate())
}

func (v *SamplerVoice) updateRatio() {
	v.ratioRate = v.SampleRate()
	if v.sound == nil || v.ratioRate <= 0 {
		v.ratio = 0
		return
	}

	semis := float64(v.note-v.sound.rootNote) + v.bend
	v.ratio = math.Pow(2, semis/12) * v.sound.sourceRate / v.SampleRate()
}

// interpolate reads data at idx+frac, holding the edge samples beyond the
// ends.
func interpolate(data []float32, idx int, frac float32) float32 {
	last := len(data) - 1
	at := func(i int) float32 { return data[min(max(i, 0), last)] }

	return utils.CubicInterpolate(at(idx-1), at(idx), at(idx+1), at(idx+2), frac)
}
