// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/ik5/polysynth/audio"
)

// NumMidiChannels is the number of MIDI channels. Channel arguments are 1-based.
const NumMidiChannels = 16

func validChannel(channel int) bool { return channel >= 1 && channel <= NumMidiChannels }

// Engine is a polyphonic synthesiser: a pool of voices, a set of sounds, and
// the allocation logic between them.
//
// All methods are safe for concurrent use. Note, controller and render calls
// share one lock, so events applied from the control goroutine land between
// render calls, and events passed to RenderNextBlock land on their exact
// sample.
type Engine struct {
	mu sync.Mutex

	voices []Voice
	sounds []Sound

	lastPitchWheel    [NumMidiChannels]int
	sampleRate        float64
	lastNoteOnCounter uint64
	stealNotes        bool

	logger *slog.Logger
}

type Option func(*Engine)

// WithLogger sets the logger used for control-path diagnostics. The render
// path never logs.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithNoteStealing sets the initial note-stealing policy. Stealing is on by
// default.
func WithNoteStealing(enabled bool) Option {
	return func(e *Engine) { e.stealNotes = enabled }
}

// WithSampleRate sets the initial playback rate.
func WithSampleRate(rate float64) Option {
	return func(e *Engine) { e.sampleRate = rate }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		stealNotes: true,
		logger:     slog.New(slog.DiscardHandler),
	}
	for i := range e.lastPitchWheel {
		e.lastPitchWheel[i] = PitchWheelCentre
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddVoice appends v to the pool. Registration order is the order free
// voices are searched in. The voice is told the current sample rate
// straight away. The engine takes ownership; callers should not drive the
// voice directly afterwards.
func (e *Engine) AddVoice(v Voice) {
	if v == nil {
		return
	}

	e.mu.Lock()
	v.voiceBase().setSampleRate(e.sampleRate)
	e.voices = append(e.voices, v)
	n := len(e.voices)
	e.mu.Unlock()

	e.logger.Debug("voice added", "index", n-1, "voices", n)
}

// RemoveVoice drops the voice at index, silencing it without a tail.
// An out-of-range index is ignored.
func (e *Engine) RemoveVoice(index int) {
	e.mu.Lock()
	n := len(e.voices)
	ok := index >= 0 && index < n
	if ok {
		e.voices[index].voiceBase().ClearCurrentNote()
		e.voices = slices.Delete(e.voices, index, index+1)
		n--
	}
	e.mu.Unlock()

	if !ok {
		e.logger.Warn("remove voice: index out of range", "index", index, "voices", n)
		return
	}
	e.logger.Debug("voice removed", "index", index, "voices", n)
}

func (e *Engine) ClearVoices() {
	e.mu.Lock()
	for _, v := range e.voices {
		v.voiceBase().ClearCurrentNote()
	}
	clear(e.voices)
	e.voices = e.voices[:0]
	e.mu.Unlock()

	e.logger.Debug("voices cleared")
}

func (e *Engine) NumVoices() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.voices)
}

// Voice returns the voice at index, or nil if out of range. The result is
// for inspection; its methods must not be called while the engine may be
// rendering.
func (e *Engine) Voice(index int) Voice {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.voices) {
		return nil
	}
	return e.voices[index]
}

// NumActiveVoices counts voices that hold a note, tails included.
func (e *Engine) NumActiveVoices() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for _, v := range e.voices {
		if v.voiceBase().IsActive() {
			n++
		}
	}
	return n
}

// AddSound makes s available to note-ons. s must not change afterwards.
func (e *Engine) AddSound(s Sound) {
	if s == nil {
		return
	}

	e.mu.Lock()
	e.sounds = append(e.sounds, s)
	n := len(e.sounds)
	e.mu.Unlock()

	e.logger.Debug("sound added", "index", n-1, "sounds", n)
}

// RemoveSound removes the sound at index from the set. Voices already
// playing it keep their reference until their note clears. An out-of-range
// index is ignored.
func (e *Engine) RemoveSound(index int) {
	e.mu.Lock()
	n := len(e.sounds)
	ok := index >= 0 && index < n
	if ok {
		e.sounds = slices.Delete(e.sounds, index, index+1)
		n--
	}
	e.mu.Unlock()

	if !ok {
		e.logger.Warn("remove sound: index out of range", "index", index, "sounds", n)
		return
	}
	e.logger.Debug("sound removed", "index", index, "sounds", n)
}

func (e *Engine) ClearSounds() {
	e.mu.Lock()
	clear(e.sounds)
	e.sounds = e.sounds[:0]
	e.mu.Unlock()

	e.logger.Debug("sounds cleared")
}

func (e *Engine) NumSounds() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.sounds)
}

// Sound returns the sound at index, or nil if out of range.
func (e *Engine) Sound(index int) Sound {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.sounds) {
		return nil
	}
	return e.sounds[index]
}

// SetNoteStealingEnabled controls what happens to a note-on when every
// eligible voice is busy: with stealing the voice that started its note
// earliest is cut off and reused, without it the note is dropped.
func (e *Engine) SetNoteStealingEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stealNotes = enabled
}

func (e *Engine) NoteStealingEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.stealNotes
}

// SetCurrentPlaybackSampleRate stores rate and passes it to every voice.
// Voices added later receive it when they are added.
func (e *Engine) SetCurrentPlaybackSampleRate(rate float64) {
	e.mu.Lock()
	changed := rate != e.sampleRate
	if changed {
		e.sampleRate = rate
		for _, v := range e.voices {
			v.voiceBase().setSampleRate(rate)
		}
	}
	e.mu.Unlock()

	if changed {
		e.logger.Debug("sample rate changed", "rate", rate)
	}
}

func (e *Engine) SampleRate() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.sampleRate
}

// LastPitchWheel returns the last wheel position seen on channel, or
// PitchWheelCentre for a channel outside 1..16.
func (e *Engine) LastPitchWheel(channel int) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.pitchWheelFor(channel)
}

// NoteOn starts note on channel for every sound that applies to it, one
// voice per sound. Voices still sounding the same note on that channel are
// released first. A sound that finds no voice is skipped silently.
func (e *Engine) NoteOn(channel, note int, velocity float32) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.noteOn(channel, note, velocity)
}

// NoteOff releases every voice playing note on channel.
func (e *Engine) NoteOff(channel, note int, allowTailOff bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.noteOff(channel, note, allowTailOff)
}

// AllNotesOff releases every active voice playing on channel, or every
// active voice at all when channel <= 0.
func (e *Engine) AllNotesOff(channel int, allowTailOff bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.allNotesOff(channel, allowTailOff)
}

// HandlePitchWheel records the wheel position for channel and forwards it
// to the voices playing on that channel. Positions on a channel outside
// 1..16 are forwarded but not cached.
func (e *Engine) HandlePitchWheel(channel, value int) {
	if !validChannel(channel) {
		e.logger.Warn("pitch wheel: channel out of range", "channel", channel)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.handlePitchWheel(channel, value)
}

// HandleController forwards a controller change to the voices playing on
// channel.
func (e *Engine) HandleController(channel, controller, value int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.handleController(channel, controller, value)
}

// RenderNextBlock adds numSamples of output into out starting at
// startSample, applying each event in events at its own sample offset.
// Events outside [startSample, startSample+numSamples) are ignored; events
// may be nil. The range is clipped to the buffer.
//
// out is added to, not overwritten; clear it first for pure output.
func (e *Engine) RenderNextBlock(out *audio.Buffer, events *EventBuffer, startSample, numSamples int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	end := min(startSample+numSamples, out.NumSamples())
	start := max(startSample, 0)
	pos := start

	if events != nil {
		for i := range events.events {
			ev := &events.events[i]
			if ev.Sample < start {
				continue
			}
			if ev.Sample >= end {
				break
			}

			if ev.Sample > pos {
				e.renderVoices(out, pos, ev.Sample-pos)
				pos = ev.Sample
			}
			e.dispatch(ev)
		}
	}

	if pos < end {
		e.renderVoices(out, pos, end-pos)
	}
}

func (e *Engine) renderVoices(out *audio.Buffer, start, n int) {
	for _, v := range e.voices {
		v.RenderNextBlock(out, start, n)
	}
}

func (e *Engine) dispatch(ev *Event) {
	switch ev.Type {
	case EventNoteOn:
		if ev.Velocity > 0 {
			e.noteOn(ev.Channel, ev.Number, ev.Velocity)
		} else {
			e.noteOff(ev.Channel, ev.Number, true)
		}
	case EventNoteOff:
		e.noteOff(ev.Channel, ev.Number, true)
	case EventController:
		switch ev.Number {
		case ControllerAllNotesOff:
			e.allNotesOff(ev.Channel, true)
		case ControllerAllSoundOff:
			e.allNotesOff(ev.Channel, false)
		default:
			e.handleController(ev.Channel, ev.Number, ev.Value)
		}
	case EventPitchWheel:
		e.handlePitchWheel(ev.Channel, ev.Value)
	}
}

func (e *Engine) noteOn(channel, note int, velocity float32) {
	for _, s := range e.sounds {
		if s.AppliesToNote(note) && s.AppliesToChannel(channel) {
			e.startVoice(e.findFreeVoice(s, e.stealNotes), s, channel, note, velocity)
		}
	}
}

func (e *Engine) startVoice(v Voice, s Sound, channel, note int, velocity float32) {
	if v == nil {
		return
	}

	b := v.voiceBase()
	if b.IsActive() {
		// stolen: cut the old note, no tail
		v.StopNote(false)
	}

	e.lastNoteOnCounter++
	b.assign(note, s, e.lastNoteOnCounter)
	v.StartNote(note, velocity, s, e.pitchWheelFor(channel))
}

// findFreeVoice returns the first idle voice, in registration order, that
// can play s. Failing that and if steal is set, it returns the voice able to
// play s that started its note earliest, whether it is playing or tailing
// off; ties go to the lower index. It returns nil when nothing fits.
func (e *Engine) findFreeVoice(s Sound, steal bool) Voice {
	for _, v := range e.voices {
		if !v.voiceBase().IsActive() && v.CanPlaySound(s) {
			return v
		}
	}

	if !steal {
		return nil
	}

	var oldest Voice
	var oldestTime uint64
	for _, v := range e.voices {
		if !v.CanPlaySound(s) {
			continue
		}
		t := v.voiceBase().noteOnTime
		if oldest == nil || t < oldestTime {
			oldest = v
			oldestTime = t
		}
	}
	return oldest
}

func (e *Engine) noteOff(channel, note int, allowTailOff bool) {
	for _, v := range e.voices {
		b := v.voiceBase()
		if b.CurrentlyPlayingNote() == note && b.IsPlayingChannel(channel) {
			v.StopNote(allowTailOff)
		}
	}
}

func (e *Engine) allNotesOff(channel int, allowTailOff bool) {
	for _, v := range e.voices {
		b := v.voiceBase()
		if !b.IsActive() {
			continue
		}
		if channel <= 0 || b.IsPlayingChannel(channel) {
			v.StopNote(allowTailOff)
		}
	}
}

func (e *Engine) handlePitchWheel(channel, value int) {
	if validChannel(channel) {
		e.lastPitchWheel[channel-1] = value
	}

	for _, v := range e.voices {
		if v.voiceBase().IsPlayingChannel(channel) {
			v.PitchWheelMoved(value)
		}
	}
}

func (e *Engine) handleController(channel, controller, value int) {
	for _, v := range e.voices {
		if v.voiceBase().IsPlayingChannel(channel) {
			v.ControllerMoved(controller, value)
		}
	}
}

func (e *Engine) pitchWheelFor(channel int) int {
	if !validChannel(channel) {
		return PitchWheelCentre
	}
	return e.lastPitchWheel[channel-1]
}
