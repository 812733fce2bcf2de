// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"

	goaiff "github.com/go-audio/aiff"

	"github.com/ik5/polysynth/audio"
	"github.com/ik5/polysynth/formats/pcm"
)

type Decoder struct{}

// Decode parses the AIFF header and streams its sound data. Readers that
// cannot seek are buffered in memory first, as go-audio needs to seek.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := goaiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	if f := dec.Format(); f == nil || f.NumChannels <= 0 || f.SampleRate <= 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	src, err := pcm.NewSource(dec, int(dec.BitDepth))
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return src, nil
}
