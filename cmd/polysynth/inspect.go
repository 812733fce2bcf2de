// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/ik5/polysynth/midi"
	"github.com/ik5/polysynth/synth"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Summarise the events in a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	seq, err := midi.ReadSMFFile(args[0], float64(cfg.SampleRate))
	if err != nil {
		return err
	}

	counts := make(map[synth.EventType]int)
	for _, ev := range seq.Events {
		counts[ev.Type]++
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "events: %d\n", len(seq.Events))
	fmt.Fprintf(w, "length: %.3fs\n", float64(seq.Length())/seq.SampleRate)
	fmt.Fprintf(w, "channels: %v\n", seq.Channels())
	for _, t := range []synth.EventType{synth.EventNoteOn, synth.EventNoteOff, synth.EventController, synth.EventPitchWheel} {
		fmt.Fprintf(w, "%s: %d\n", t, counts[t])
	}
	return nil
}
