// SPDX-License-Identifier: EPL-2.0

// Command polysynth renders and plays Standard MIDI Files with the
// polysynth engine.
//
//	polysynth init                      # write polysynth.yaml
//	polysynth render song.mid -o out.wav
//	polysynth play song.mid
//	polysynth inspect song.mid
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
