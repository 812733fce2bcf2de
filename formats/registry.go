// SPDX-License-Identifier: EPL-2.0

// Package formats wires the bundled decoders into an audio.Registry and
// opens sample files by extension.
package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ik5/polysynth/audio"
	"github.com/ik5/polysynth/formats/aiff"
	"github.com/ik5/polysynth/formats/mp3"
	"github.com/ik5/polysynth/formats/vorbis"
	"github.com/ik5/polysynth/formats/wav"
)

var ErrUnknownFormat = errors.New("no decoder registered for file type")

// NewRegistry returns a registry with every bundled decoder registered
// under its usual file extensions.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("wave", wav.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aifc", aiff.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})
	return r
}

// Open decodes the file at path with the decoder registered for its
// extension. Closing the returned Source closes the file.
func Open(r *audio.Registry, path string) (audio.Source, error) {
	ext := filepath.Ext(path)
	dec, ok := r.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return &fileSource{Source: src, file: f}, nil
}

type fileSource struct {
	audio.Source
	file *os.File
}

func (s *fileSource) Close() error {
	return errors.Join(s.Source.Close(), s.file.Close())
}
