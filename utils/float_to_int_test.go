// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input float32
		want  int16
	}{
		{name: "zero", input: 0, want: 0},
		{name: "full scale", input: 1, want: math.MaxInt16},
		{name: "negative full scale", input: -1, want: math.MinInt16},
		{name: "half", input: 0.5, want: 16383},
		{name: "negative half", input: -0.5, want: -16383},
		{name: "clip high", input: 3.5, want: math.MaxInt16},
		{name: "clip low", input: -3.5, want: math.MinInt16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Float32ToInt16(tt.input); got != tt.want {
				t.Errorf("Float32ToInt16(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFloat32ToInt16_Monotonic(t *testing.T) {
	t.Parallel()

	prev := Float32ToInt16(-1)
	for f := -0.99; f <= 1.0; f += 0.01 {
		curr := Float32ToInt16(float32(f))
		if curr < prev {
			t.Fatalf("not monotonic at %v: %v < %v", f, curr, prev)
		}
		prev = curr
	}
}

func TestInt16ToFloat32(t *testing.T) {
	t.Parallel()

	if got := Int16ToFloat32(math.MinInt16); got != -1 {
		t.Errorf("Int16ToFloat32(MinInt16) = %v, want -1", got)
	}
	if got := Int16ToFloat32(0); got != 0 {
		t.Errorf("Int16ToFloat32(0) = %v, want 0", got)
	}
	if got := Int16ToFloat32(16384); got != 0.5 {
		t.Errorf("Int16ToFloat32(16384) = %v, want 0.5", got)
	}
}
