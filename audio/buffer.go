// SPDX-License-Identifier: EPL-2.0

package audio

// Buffer is a multi-channel block of float32 samples stored one slice per
// channel. All channels share a single backing array.
//
// Renderers add into a Buffer; nothing in this package clears it implicitly.
type Buffer struct {
	data     []float32
	channels [][]float32
	size     int
}

// NewBuffer allocates a zeroed buffer of numChannels x numSamples.
func NewBuffer(numChannels, numSamples int) *Buffer {
	b := &Buffer{}
	b.SetSize(numChannels, numSamples)
	return b
}

// SetSize changes the buffer dimensions. The backing array is reused when it
// is large enough, so shrinking and growing back does not allocate. Contents
// are cleared.
func (b *Buffer) SetSize(numChannels, numSamples int) {
	numChannels = max(numChannels, 0)
	numSamples = max(numSamples, 0)

	need := numChannels * numSamples
	if cap(b.data) < need {
		b.data = make([]float32, need)
	} else {
		b.data = b.data[:need]
		clear(b.data)
	}

	if cap(b.channels) < numChannels {
		b.channels = make([][]float32, numChannels)
	} else {
		b.channels = b.channels[:numChannels]
	}

	for c := range numChannels {
		b.channels[c] = b.data[c*numSamples : (c+1)*numSamples : (c+1)*numSamples]
	}
	b.size = numSamples
}

func (b *Buffer) NumChannels() int { return len(b.channels) }
func (b *Buffer) NumSamples() int  { return b.size }

// Channel returns the sample slice for ch. It panics if ch is out of range,
// like a slice index would.
func (b *Buffer) Channel(ch int) []float32 { return b.channels[ch] }

// Clear zeroes every sample.
func (b *Buffer) Clear() { clear(b.data) }

// ClearRange zeroes [start, start+n) on every channel. The range is clipped
// to the buffer.
func (b *Buffer) ClearRange(start, n int) {
	start, end := b.clip(start, n)
	for _, ch := range b.channels {
		clear(ch[start:end])
	}
}

// AddFrom adds n samples of src, starting at srcStart, into b at dstStart.
// Channels missing on either side are skipped.
func (b *Buffer) AddFrom(src *Buffer, srcStart, dstStart, n int) {
	chans := min(len(b.channels), len(src.channels))
	for c := range chans {
		d := b.channels[c][dstStart : dstStart+n]
		s := src.channels[c][srcStart : srcStart+n]
		for i := range d {
			d[i] += s[i]
		}
	}
}

// Interleave writes frames [start, start+n) into dst as interleaved samples
// and returns the number of float32 values written. It stops early when dst
// is too short to hold a complete frame.
func (b *Buffer) Interleave(dst []float32, start, n int) int {
	chans := len(b.channels)
	if chans == 0 {
		return 0
	}

	start, end := b.clip(start, n)
	frames := min(end-start, len(dst)/chans)

	for c, ch := range b.channels {
		src := ch[start : start+frames]
		for f, v := range src {
			dst[f*chans+c] = v
		}
	}

	return frames * chans
}

func (b *Buffer) clip(start, n int) (int, int) {
	start = min(max(start, 0), b.size)
	end := min(max(start+n, start), b.size)
	return start, end
}
