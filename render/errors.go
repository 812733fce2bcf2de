// SPDX-License-Identifier: EPL-2.0

package render

import "errors"

var (
	ErrInvalidBlockSize  = errors.New("block size must be positive")
	ErrInvalidSampleRate = errors.New("engine sample rate must be positive")
	ErrClosed            = errors.New("render source is closed")
)
