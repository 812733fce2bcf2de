// SPDX-License-Identifier: EPL-2.0

package polysynth

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ik5/polysynth/config"
	"github.com/ik5/polysynth/formats"
	"github.com/ik5/polysynth/instruments"
	"github.com/ik5/polysynth/synth"
)

// NewEngine builds an engine from cfg: cfg.Voices voices of the configured
// instrument sharing one sound that covers its note range and channel.
// The sampler's sample file is decoded here. logger may be nil.
func NewEngine(cfg config.Config, logger *slog.Logger) (*synth.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := synth.NewEngine(
		synth.WithLogger(logger),
		synth.WithNoteStealing(cfg.NoteStealing),
		synth.WithSampleRate(float64(cfg.SampleRate)),
	)

	in := cfg.Instrument
	channels := synth.AllChannels
	if in.Channel > 0 {
		channels = synth.Channels(in.Channel)
	}
	notes := synth.NoteRange(in.NoteLow, in.NoteHigh)

	switch in.Type {
	case config.InstrumentSampler:
		sound, err := loadSampler(in, notes, channels)
		if err != nil {
			return nil, err
		}
		e.AddSound(sound)
		for range cfg.Voices {
			e.AddVoice(instruments.NewSamplerVoice())
		}

	default:
		sound := instruments.NewSineSound(channels)
		sound.Notes = notes
		e.AddSound(sound)
		for range cfg.Voices {
			v := instruments.NewSineVoice()
			v.HardStop = !in.TailOff
			e.AddVoice(v)
		}
	}

	return e, nil
}

func loadSampler(in config.Instrument, notes synth.NoteSet, channels synth.ChannelMask) (*instruments.SamplerSound, error) {
	src, err := formats.Open(formats.NewRegistry(), in.Sample)
	if err != nil {
		return nil, fmt.Errorf("opening sample: %w", err)
	}
	defer src.Close()

	return instruments.NewSamplerSound(src, instruments.SamplerConfig{
		Name:      filepath.Base(in.Sample),
		Notes:     notes,
		Channels:  channels,
		RootNote:  in.RootNote,
		Attack:    in.Attack,
		Release:   in.Release,
		MaxLength: in.MaxLength,
	})
}
