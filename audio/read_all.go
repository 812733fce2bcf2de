// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// ReadAll drains src into a single interleaved slice. At most maxFrames
// frames are kept; a value <= 0 means no limit. The source is not closed.
//
// This allocates as it grows and is meant for loading sample data ahead of
// playback, never for the render path.
func ReadAll(src Source, maxFrames int) ([]float32, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, ErrInvalidChannelCount
	}

	limit := -1
	if maxFrames > 0 {
		limit = maxFrames * channels
	}

	bufSize := src.BufSize()
	if bufSize <= 0 {
		bufSize = 4096
	}
	bufSize -= bufSize % channels
	if bufSize == 0 {
		bufSize = channels
	}

	out := make([]float32, 0, bufSize)
	buf := make([]float32, bufSize)

	for limit < 0 || len(out) < limit {
		chunk := buf
		if limit >= 0 && limit-len(out) < len(chunk) {
			chunk = chunk[:limit-len(out)]
		}

		n, err := src.ReadSamples(chunk)
		if n > 0 {
			out = append(out, chunk[:n]...)
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading source: %w", err)
		}
		if n == 0 {
			break
		}
	}

	return out, nil
}
