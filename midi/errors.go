// SPDX-License-Identifier: EPL-2.0

package midi

import "errors"

var (
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrNoEvents          = errors.New("midi file contains no playable events")
)
