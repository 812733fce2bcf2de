// SPDX-License-Identifier: EPL-2.0

// Package polysynth is a polyphonic software synthesiser: a pool of voices
// shared between a set of sounds, driven by timestamped MIDI-style events
// and rendered sample-accurately into multi-channel float32 buffers.
//
// The engine itself lives in the synth subpackage. Concrete instruments
// (a sine oscillator and a sampler) are in instruments, MIDI and Standard
// MIDI File decoding in midi, and render turns an engine plus an event list
// into an audio.Source that feeds the rest of the pipeline:
//
//	seq, _ := midi.ReadSMFFile("song.mid", 48000)
//	engine, _ := polysynth.NewEngine(config.Defaults(), nil)
//	pcm, _ := polysynth.RenderToMono16(engine, seq.Events, 16000)
//	// pcm is mono 16-bit PCM at 16 kHz
//
// # Building an engine by hand
//
//	engine := synth.NewEngine(synth.WithSampleRate(48000))
//	for range 8 {
//		engine.AddVoice(instruments.NewSineVoice())
//	}
//	engine.AddSound(instruments.NewSineSound(synth.AllChannels))
//
//	out := audio.NewBuffer(2, 512)
//	events := synth.NewEventBuffer(16)
//	events.Add(synth.NoteOnEvent(0, 1, 60, 0.8))
//	engine.RenderNextBlock(out, events, 0, 512)
//
// # Sample files
//
// The sampler loads its sample through the formats subpackage, which
// decodes WAV, AIFF, MP3 and Ogg Vorbis:
//
//	src, _ := formats.Open(formats.NewRegistry(), "piano-c4.wav")
//	defer src.Close()
//	sound, _ := instruments.NewSamplerSound(src, instruments.SamplerConfig{
//		Notes:    synth.NoteRange(0, 127),
//		RootNote: 60,
//		Release:  0.2,
//	})
//
// # Output
//
// Rendered audio can be written with formats/wav, played through the sound
// card with output.Player, or collected as 16-bit PCM with RenderToMono16.
// The polysynth command under cmd/polysynth does all three from a config
// file.
package polysynth
