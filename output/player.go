// SPDX-License-Identifier: EPL-2.0

package output

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/ik5/polysynth/audio"
)

var ErrFormatMismatch = errors.New("audio device already opened with a different format")

// oto allows a single context per process.
var (
	deviceMu       sync.Mutex
	device         *oto.Context
	deviceRate     int
	deviceChannels int
)

func openDevice(rate, channels int, buffer time.Duration) (*oto.Context, error) {
	deviceMu.Lock()
	defer deviceMu.Unlock()

	if device != nil {
		if rate != deviceRate || channels != deviceChannels {
			return nil, fmt.Errorf("%w: open at %d Hz x%d, want %d Hz x%d",
				ErrFormatMismatch, deviceRate, deviceChannels, rate, channels)
		}
		return device, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   buffer,
	})
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	device, deviceRate, deviceChannels = ctx, rate, channels
	return ctx, nil
}

// Player streams one Source to the sound card.
type Player struct {
	player *oto.Player
	src    audio.Source
	poll   time.Duration
}

type Option func(*options)

type options struct {
	buffer time.Duration
	poll   time.Duration
}

// WithBufferSize sets the device buffer length. Zero lets oto choose.
func WithBufferSize(d time.Duration) Option {
	return func(o *options) { o.buffer = d }
}

// NewPlayer opens the device at the source's rate and channel count.
func NewPlayer(src audio.Source, opts ...Option) (*Player, error) {
	o := options{poll: 20 * time.Millisecond}
	for _, opt := range opts {
		opt(&o)
	}

	if src.Channels() <= 0 {
		return nil, fmt.Errorf("%w: %d", audio.ErrInvalidChannelCount, src.Channels())
	}
	if src.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: %d", audio.ErrInvalidSampleRate, src.SampleRate())
	}

	ctx, err := openDevice(src.SampleRate(), src.Channels(), o.buffer)
	if err != nil {
		return nil, err
	}

	return &Player{
		player: ctx.NewPlayer(NewReader(src)),
		src:    src,
		poll:   o.poll,
	}, nil
}

// Play starts playback and blocks until the source is exhausted and the
// device buffer has drained, or ctx is cancelled.
func (p *Player) Play(ctx context.Context) error {
	p.player.Play()

	ticker := time.NewTicker(p.poll)
	defer ticker.Stop()

	for p.player.IsPlaying() {
		select {
		case <-ctx.Done():
			p.player.Pause()
			return fmt.Errorf("%w", ctx.Err())
		case <-ticker.C:
		}
	}

	if err := p.player.Err(); err != nil {
		return fmt.Errorf("playback: %w", err)
	}
	return nil
}

// Close releases the player and closes the source. The device stays open
// for later players.
func (p *Player) Close() error {
	return errors.Join(p.player.Close(), p.src.Close())
}
