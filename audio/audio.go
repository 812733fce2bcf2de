// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"slices"
	"strings"
	"sync"
)

// Source is a pull stream of interleaved float32 samples in [-1, 1]. The
// synth's render output, decoded sample files and every pipeline stage in
// this package implement it.
type Source interface {
	SampleRate() int
	Channels() int
	// ReadSamples fills dst and returns the number of values written, not
	// frames. io.EOF marks the end of the stream and may come with n > 0.
	ReadSamples(dst []float32) (n int, err error)
	// BufSize is a read size, in values, the source serves efficiently.
	BufSize() int
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry maps a format key (usually a file extension such as "wav" or
// "ogg") to the decoder for it. Keys are case-insensitive and a leading dot
// is ignored, so ".WAV" and "wav" name the same entry.
type Registry struct {
	codecs map[string]Decoder

	mtx sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[normalizeFormat(format)] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	d, ok := r.codecs[normalizeFormat(format)]
	return d, ok
}

// Formats returns the registered keys in sorted order.
func (r *Registry) Formats() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	keys := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func normalizeFormat(format string) string {
	return strings.ToLower(strings.TrimPrefix(format, "."))
}
