// SPDX-License-Identifier: EPL-2.0

// Package instruments provides ready-made sounds and voices for the synth
// engine.
//
// SineSound and SineVoice give a simple test tone with an exponential
// release. SamplerSound holds a recording loaded from any audio.Source and
// SamplerVoice replays it transposed by the distance between the played
// note and the sound's root note, with linear attack and release ramps.
//
//	e := synth.NewEngine(synth.WithSampleRate(48000))
//	for range 8 {
//		e.AddVoice(instruments.NewSamplerVoice())
//	}
//	piano, err := instruments.NewSamplerSound(src, instruments.SamplerConfig{
//		Name:     "piano",
//		Notes:    synth.NoteRange(21, 108),
//		RootNote: 60,
//		Release:  0.2,
//	})
//	if err != nil {
//		return err
//	}
//	e.AddSound(piano)
package instruments
