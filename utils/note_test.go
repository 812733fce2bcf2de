// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestNoteToHertz(t *testing.T) {
	t.Parallel()

	tests := []struct {
		note float64
		want float64
	}{
		{note: 69, want: 440},
		{note: 81, want: 880},
		{note: 57, want: 220},
		{note: 60, want: 261.6256},
		{note: 69.5, want: 452.8930},
	}

	for _, tt := range tests {
		if got := NoteToHertz(tt.note, 440); math.Abs(got-tt.want) > 1e-3 {
			t.Errorf("NoteToHertz(%v) = %v, want %v", tt.note, got, tt.want)
		}
	}
}
