// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/polysynth/utils"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation. Works on interleaved samples and preserves channel count.
// When downsampling, a one-pole low-pass is applied to incoming frames.
//
// A Resampler whose source and target rates match passes samples through
// untouched.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames per output frame
	channels int

	// Source frames around the read position: hist[0]=t-1, hist[1]=t0,
	// hist[2]=t+1, hist[3]=t+2.
	hist   [4][]float32
	primed bool
	base   int     // source index of hist[1]
	pulled int     // real source frames consumed so far
	frac   float64 // position between hist[1] and hist[2]

	in     []float32
	inPos  int
	inLen  int
	srcEOF bool

	lowPass bool
	alpha   float32
	lpState []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := max(src.Channels(), 1)
	step := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     step,
		channels: channels,
		in:       make([]float32, channels*1024),
		lowPass:  step > 1.0,
		alpha:    0.5,
		lpState:  make([]float32, channels),
	}

	for i := range r.hist {
		r.hist[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// pull copies the next source frame into frame. Once the source is drained
// it repeats the last frame and reports false.
func (r *Resampler) pull(frame []float32) (bool, error) {
	for r.inPos >= r.inLen && !r.srcEOF {
		n, err := r.src.ReadSamples(r.in)
		r.inPos = 0
		r.inLen = n - n%r.channels

		if err == io.EOF {
			r.srcEOF = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		}
	}

	if r.inPos >= r.inLen {
		copy(frame, r.hist[2])
		return false, nil
	}

	copy(frame, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels
	r.pulled++

	if r.lowPass {
		if r.pulled == 1 {
			copy(r.lpState, frame)
		}
		for c := range frame {
			frame[c] = r.alpha*frame[c] + (1-r.alpha)*r.lpState[c]
			r.lpState[c] = frame[c]
		}
	}

	return true, nil
}

func (r *Resampler) prime() (bool, error) {
	ok, err := r.pull(r.hist[1])
	if err != nil || !ok {
		return false, err
	}
	copy(r.hist[0], r.hist[1])
	copy(r.hist[2], r.hist[1])

	if _, err := r.pull(r.hist[2]); err != nil {
		return false, err
	}
	if _, err := r.pull(r.hist[3]); err != nil {
		return false, err
	}

	r.primed = true
	return true, nil
}

func (r *Resampler) advance() error {
	first := r.hist[0]
	r.hist[0], r.hist[1], r.hist[2] = r.hist[1], r.hist[2], r.hist[3]
	r.hist[3] = first
	r.base++

	// pull pads from hist[2], which now holds the newest frame
	_, err := r.pull(r.hist[3])
	return err
}

// ReadSamples produces samples at the target rate. len(dst) must be a
// multiple of Channels().
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		ok, err := r.prime()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, io.EOF
		}
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames {
		for r.frac >= 1.0 {
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
			r.frac -= 1.0
		}

		if r.base >= r.pulled {
			break
		}

		x := float32(r.frac)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = utils.CubicInterpolate(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], x)
		}

		written++
		r.frac += r.step
	}

	if r.base >= r.pulled {
		return written * r.channels, io.EOF
	}

	return written * r.channels, nil
}
