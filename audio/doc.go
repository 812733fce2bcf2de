// SPDX-License-Identifier: EPL-2.0

// Package audio holds the sample containers and stream plumbing shared by
// the synthesiser, the decoders and the output stage.
//
// Samples are float32 in [-1, 1]. Two shapes are used:
//
//   - Buffer is a non-interleaved block, one slice per channel. Voices and
//     the engine render into it.
//   - Source is an interleaved pull stream. Decoders produce one, the
//     render package exposes the engine as one, and Resampler and
//     MonoMixer wrap one to change its rate or channel count.
//
// A Source signals the end of the stream with io.EOF, possibly together
// with the final samples:
//
//	for {
//		n, err := src.ReadSamples(buf)
//		consume(buf[:n])
//		if err == io.EOF {
//			break
//		}
//		if err != nil {
//			return err
//		}
//	}
//
// Registry maps file extensions to decoders. The formats package builds one
// with every bundled decoder registered.
//
// Nothing on the streaming path allocates after the first read; ReadAll is
// the exception and is meant for loading sample data up front.
package audio
