// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF WAVE files.
//
// Decoder streams 16, 24 or 32-bit integer PCM through
// github.com/go-audio/wav and returns float32 samples in [-1, 1]. It is
// what the sampler uses to load its recordings.
//
// Two writers cover rendered output:
//
//   - Encode drains an audio.Source into an io.WriteSeeker through the
//     go-audio encoder, which patches the header sizes at the end.
//   - WriteWAV16 writes an in-memory int16 slice with a fixed 44-byte
//     header and works on any io.Writer, including stdout.
//
//	f, err := os.Create("song.wav")
//	if err != nil {
//		return err
//	}
//	defer f.Close()
//
//	frames, err := wav.Encode(f, renderSource)
package wav
