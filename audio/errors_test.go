// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Distinct(t *testing.T) {
	t.Parallel()

	errs := []error{ErrInvalidDstSize, ErrInvalidChannelCount, ErrInvalidSampleRate}
	for i, a := range errs {
		for j, b := range errs {
			assert.Equal(t, i == j, errors.Is(a, b), "%v vs %v", a, b)
		}
	}
}

func TestErrors_Wrapping(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("opening device: %w", ErrInvalidSampleRate)
	assert.ErrorIs(t, err, ErrInvalidSampleRate)
	assert.NotErrorIs(t, err, ErrInvalidChannelCount)
	assert.Equal(t, "dst size must be multiple of channels", ErrInvalidDstSize.Error())
}
