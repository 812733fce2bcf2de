// SPDX-License-Identifier: EPL-2.0

package instruments

import "errors"

var (
	ErrEmptySample      = errors.New("sample has no audio data")
	ErrInvalidNoteRange = errors.New("sound must apply to at least one note")
	ErrInvalidRootNote  = errors.New("root note must be within 0..127")
)
