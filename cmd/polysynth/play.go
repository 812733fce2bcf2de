// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ik5/polysynth/audio"
	"github.com/ik5/polysynth/output"
	"github.com/spf13/cobra"
)

var playBuffer time.Duration

var playCmd = &cobra.Command{
	Use:   "play <file.mid>",
	Short: "Play a MIDI file through the sound card",
	Long:  `Renders a Standard MIDI File in real time and plays it on the default audio device. Ctrl-C stops playback.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().DurationVar(&playBuffer, "buffer", 0, "device buffer length (0 lets the driver choose)")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args[0])
	if err != nil {
		return err
	}

	rendered, err := s.source()
	if err != nil {
		return err
	}

	var src audio.Source = rendered
	if s.cfg.OutputRate > 0 && s.cfg.OutputRate != s.cfg.SampleRate {
		src = audio.NewResampler(rendered, s.cfg.OutputRate)
	}

	p, err := output.NewPlayer(src, output.WithBufferSize(playBuffer))
	if err != nil {
		rendered.Close()
		return err
	}
	defer p.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.logger.Info("playing", "midi", args[0], "rate", src.SampleRate(), "channels", src.Channels())

	err = p.Play(ctx)
	if errors.Is(err, context.Canceled) {
		s.logger.Info("stopped", "position", rendered.Position())
		return nil
	}
	return err
}
