// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"log/slog"

	"github.com/ik5/polysynth"
	"github.com/ik5/polysynth/config"
	"github.com/ik5/polysynth/midi"
	"github.com/ik5/polysynth/render"
	"github.com/ik5/polysynth/synth"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "polysynth",
	Short: "Render and play MIDI files with a polyphonic software synth",
	Long: `polysynth plays Standard MIDI Files through a pool of synth voices,
either a sine oscillator or a sampler loaded from a WAV, AIFF, MP3 or Ogg
Vorbis file. Settings come from a YAML config file and POLYSYNTH_*
environment variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (defaults and environment only when empty)")
}

// session is everything a command needs to render one MIDI file.
type session struct {
	cfg    config.Config
	logger *slog.Logger
	seq    *midi.Sequence
	engine *synth.Engine
}

// loadConfig reads --config and builds a stderr logger at its log level.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, nil, err
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}

	h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	return cfg, slog.New(h), nil
}

func newSession(cmd *cobra.Command, midiPath string) (*session, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	seq, err := midi.ReadSMFFile(midiPath, float64(cfg.SampleRate))
	if err != nil {
		return nil, err
	}

	engine, err := polysynth.NewEngine(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("building engine: %w", err)
	}

	logger.Debug("session ready",
		"midi", midiPath,
		"events", len(seq.Events),
		"instrument", cfg.Instrument.Type,
		"voices", engine.NumVoices(),
		"sample_rate", cfg.SampleRate,
	)

	return &session{cfg: cfg, logger: logger, seq: seq, engine: engine}, nil
}

func (s *session) renderOptions() []render.Option {
	return []render.Option{
		render.WithBlockSize(s.cfg.BlockSize),
		render.WithChannels(s.cfg.Channels),
		render.WithTail(s.cfg.TailSeconds),
	}
}

func (s *session) source() (*render.Source, error) {
	return render.NewSource(s.engine, s.seq.Events, s.renderOptions()...)
}
