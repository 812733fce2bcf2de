// SPDX-License-Identifier: EPL-2.0

package polysynth

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/polysynth/audio"
	"github.com/ik5/polysynth/render"
	"github.com/ik5/polysynth/synth"
	"github.com/ik5/polysynth/utils"
)

// ToMono16 resamples src to targetRate, mixes it down to mono and collects
// everything up to io.EOF as 16-bit PCM. src is not closed.
//
// bufferSize is the number of samples read per call; zero or less uses
// src.BufSize().
func ToMono16(src audio.Source, targetRate, bufferSize int) ([]int16, error) {
	if targetRate <= 0 {
		return nil, fmt.Errorf("%w: %d", audio.ErrInvalidSampleRate, targetRate)
	}
	if bufferSize <= 0 {
		bufferSize = max(src.BufSize(), 1)
	}

	mono := audio.NewMonoMixer(audio.NewResampler(src, targetRate))

	pcm16 := make([]int16, 0, targetRate)
	buf := make([]float32, bufferSize)

	for {
		n, err := mono.ReadSamples(buf)
		for _, x := range buf[:n] {
			pcm16 = append(pcm16, utils.Float32ToInt16(x))
		}

		if errors.Is(err, io.EOF) {
			return pcm16, nil
		}
		if err != nil {
			return pcm16, fmt.Errorf("%w", err)
		}
	}
}

// RenderToMono16 plays events through engine and returns the result as mono
// 16-bit PCM at targetRate. A targetRate of zero keeps the engine's rate.
// Rendering stops once every voice has gone quiet after the last event, or
// when the render tail runs out.
func RenderToMono16(engine *synth.Engine, events []synth.Event, targetRate int, opts ...render.Option) ([]int16, error) {
	src, err := render.NewSource(engine, events, opts...)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if targetRate == 0 {
		targetRate = src.SampleRate()
	}

	return ToMono16(src, targetRate, src.BufSize())
}
