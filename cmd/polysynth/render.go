// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/polysynth"
	"github.com/ik5/polysynth/formats/wav"
	"github.com/spf13/cobra"
)

var renderOutput string

var renderCmd = &cobra.Command{
	Use:   "render <file.mid>",
	Short: "Render a MIDI file to WAV",
	Long: `Renders a Standard MIDI File to a 16-bit WAV file at the configured
sample rate and channel count. When output_rate is set, or the output is
"-" for stdout, the result is resampled to that rate and mixed to mono.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", `output file, "-" for stdout (default: input name with .wav)`)
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args[0])
	if err != nil {
		return err
	}

	out := renderOutput
	if out == "" {
		out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".wav"
	}

	if s.cfg.OutputRate > 0 || out == "-" {
		return s.renderMono(cmd, out)
	}

	src, err := s.source()
	if err != nil {
		return err
	}
	defer src.Close()

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	frames, err := wav.Encode(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	s.logger.Info("rendered",
		"output", out,
		"frames", frames,
		"seconds", float64(frames)/float64(s.cfg.SampleRate),
		"channels", s.cfg.Channels,
	)
	return nil
}

// renderMono writes mono 16-bit PCM at output_rate, or at the engine rate
// when output_rate is zero.
func (s *session) renderMono(cmd *cobra.Command, out string) error {
	rate := s.cfg.OutputRate
	if rate == 0 {
		rate = s.cfg.SampleRate
	}

	pcm, err := polysynth.RenderToMono16(s.engine, s.seq.Events, rate, s.renderOptions()...)
	if err != nil {
		return err
	}

	if out == "-" {
		err = wav.WriteWAV16(cmd.OutOrStdout(), rate, 1, pcm)
	} else {
		err = writeFile(out, func(w io.Writer) error {
			return wav.WriteWAV16(w, rate, 1, pcm)
		})
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	s.logger.Info("rendered",
		"output", out,
		"frames", len(pcm),
		"seconds", float64(len(pcm))/float64(rate),
		"channels", 1,
	)
	return nil
}

// createFile opens output files for the mono path. Tests replace it.
var createFile = func(path string) (io.WriteCloser, error) { return os.Create(path) }

// writeFile creates path, hands it to write and reports the first error,
// including the one from closing the file.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := createFile(path)
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	err = write(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
