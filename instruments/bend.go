// SPDX-License-Identifier: EPL-2.0

package instruments

import "github.com/ik5/polysynth/synth"

// DefaultBendRange is the pitch-wheel range in semitones either way.
const DefaultBendRange = 2.0

// wheelToSemitones maps a 14-bit wheel position to a bend in semitones.
func wheelToSemitones(value int, rangeSemitones float64) float64 {
	value = min(max(value, synth.PitchWheelMin), synth.PitchWheelMax)
	return float64(value-synth.PitchWheelCentre) / float64(synth.PitchWheelCentre) * rangeSemitones
}
