// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/polysynth/audio"
	"github.com/ik5/polysynth/utils"
)

// WriteWAV16 writes interleaved 16-bit PCM with a canonical 44-byte header.
// It needs no seeking, so w may be a pipe.
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if channels <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChannelCount, channels)
	}
	if len(samples)%channels != 0 {
		return fmt.Errorf("%w: %d samples, %d channels", ErrSampleCountMismatch, len(samples), channels)
	}

	blockAlign := uint16(channels * 2)
	dataSize := uint32(len(samples) * 2)

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate)*uint32(blockAlign))
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("writing wav header: %w", err)
	}

	const chunk = 8192
	buf := make([]byte, 2*min(len(samples), chunk))
	for i := 0; i < len(samples); i += chunk {
		part := samples[i:min(i+chunk, len(samples))]
		out := buf[:2*len(part)]
		for j, s := range part {
			binary.LittleEndian.PutUint16(out[2*j:], uint16(s))
		}
		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("writing wav data: %w", err)
		}
	}

	return nil
}

// Encode drains src into w as 16-bit PCM and returns the number of frames
// written. The header sizes are patched on completion, which is why w must
// seek. src is not closed.
func Encode(w io.WriteSeeker, src audio.Source) (int, error) {
	channels := src.Channels()
	if channels <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidChannelCount, channels)
	}

	enc := gowav.NewEncoder(w, src.SampleRate(), 16, channels, formatPCM)

	size := max(src.BufSize(), channels)
	size -= size % channels
	in := make([]float32, size)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: src.SampleRate()},
		Data:           make([]int, size),
		SourceBitDepth: 16,
	}

	frames := 0
	for {
		n, err := src.ReadSamples(in)
		if n > 0 {
			buf.Data = buf.Data[:n]
			for i, v := range in[:n] {
				buf.Data[i] = int(utils.Float32ToInt16(v))
			}
			if werr := enc.Write(buf); werr != nil {
				return frames, fmt.Errorf("encoding wav: %w", werr)
			}
			frames += n / channels
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return frames, fmt.Errorf("reading source: %w", err)
		}
		if n == 0 {
			break
		}
	}

	if err := enc.Close(); err != nil {
		return frames, fmt.Errorf("finalising wav: %w", err)
	}
	return frames, nil
}
