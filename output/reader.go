// SPDX-License-Identifier: EPL-2.0

// Package output plays an audio.Source on the system sound device through
// github.com/ebitengine/oto/v3.
package output

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/ik5/polysynth/audio"
)

const bytesPerSample = 4

// Reader turns a Source into the little-endian float32 byte stream oto
// pulls from. Reads of any length are served; bytes of a block that did not
// fit are kept for the next read.
type Reader struct {
	src     audio.Source
	samples []float32
	buf     []byte
	off     int
	err     error
}

func NewReader(src audio.Source) *Reader {
	channels := max(src.Channels(), 1)
	size := max(src.BufSize(), channels)
	size -= size % channels

	return &Reader{
		src:     src,
		samples: make([]float32, size),
		buf:     make([]byte, 0, size*bytesPerSample),
	}
}

func (r *Reader) Read(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		if r.off == len(r.buf) && (r.err != nil || !r.fill()) {
			break
		}

		c := copy(p[written:], r.buf[r.off:])
		r.off += c
		written += c
	}

	if written > 0 || r.err == nil {
		return written, nil
	}
	if errors.Is(r.err, io.EOF) {
		return 0, io.EOF
	}
	return 0, r.err
}

func (r *Reader) fill() bool {
	n, err := r.src.ReadSamples(r.samples)
	if err != nil {
		r.err = err
	}

	r.buf = r.buf[:n*bytesPerSample]
	r.off = 0
	for i, v := range r.samples[:n] {
		binary.LittleEndian.PutUint32(r.buf[i*bytesPerSample:], math.Float32bits(v))
	}

	return n > 0
}
