// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/polysynth/audio"
	"github.com/ik5/polysynth/utils"
)

// go-mp3 always produces interleaved 16-bit little-endian stereo.
const (
	channels      = 2
	bytesPerFrame = 2 * channels
)

// pcmReader is the part of gomp3.Decoder the source depends on.
type pcmReader interface {
	io.Reader
	SampleRate() int
}

type source struct {
	dec  pcmReader
	rate int
	buf  []byte
	// bytes of an incomplete frame carried to the next read
	carry int
	eof   bool
}

func newSource(dec pcmReader) *source {
	return &source{
		dec:  dec,
		rate: dec.SampleRate(),
		buf:  make([]byte, 4096*2),
	}
}

func (s *source) SampleRate() int { return s.rate }
func (s *source) Channels() int   { return channels }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst)%channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if s.eof {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, nil
	}

	want := len(dst) * 2
	if cap(s.buf) < want {
		grown := make([]byte, want)
		copy(grown, s.buf[:s.carry])
		s.buf = grown
	}
	s.buf = s.buf[:want]

	n, err := io.ReadAtLeast(s.dec, s.buf[s.carry:], min(bytesPerFrame, want-s.carry))
	n += s.carry

	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		s.eof = true
	case err != nil:
		return 0, fmt.Errorf("decoding mp3: %w", err)
	}

	whole := n - n%bytesPerFrame
	for i := 0; i < whole; i += 2 {
		dst[i/2] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(s.buf[i:])))
	}

	s.carry = copy(s.buf, s.buf[whole:n])

	if s.eof {
		return whole / 2, io.EOF
	}
	return whole / 2, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("opening mp3 stream: %w", err)
	}

	return newSource(dec), nil
}
