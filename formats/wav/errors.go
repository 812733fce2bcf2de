// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile          = errors.New("not a WAV file")
	ErrOnlyPCMSupported    = errors.New("only integer PCM WAV is supported")
	ErrInvalidChannelCount = errors.New("channel count must be positive")
	ErrSampleCountMismatch = errors.New("sample count is not a multiple of the channel count")
)
