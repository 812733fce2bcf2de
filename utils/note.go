// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// NoteToHertz returns the frequency of a MIDI note number with A4 (note 69)
// tuned to a4 Hz. Fractional notes are allowed so pitch bend can be folded
// in before conversion.
func NoteToHertz(note float64, a4 float64) float64 {
	return a4 * math.Pow(2, (note-69)/12)
}
