// Package mock provides an in-memory speech engine for testing.
package mock

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sayit-app/sayit/internal/audio"
	"github.com/sayit-app/sayit/internal/speech"
)

// DefaultVoices mirrors what a desktop synthesizer typically exposes.
var DefaultVoices = []speech.Voice{
	{ID: "voice-alex", Name: "Alex (Male)"},
	{ID: "voice-victoria", Name: "Victoria (Female)"},
}

// Engine implements speech.Engine and records every call it receives.
type Engine struct {
	mu       sync.Mutex
	voices   []speech.Voice
	voice    string
	rate     int
	calls    []string
	failures map[speech.Op]error
	closed   bool

	player audio.Player
	format audio.Format
}

// New creates a mock engine with DefaultVoices. Speak plays silence through
// a mock audio player for d, or for a length derived from the rate when d
// is zero.
func New(d time.Duration) *Engine {
	e := &Engine{
		voices:   append([]speech.Voice(nil), DefaultVoices...),
		voice:    DefaultVoices[0].ID,
		rate:     speech.DefaultRate,
		failures: make(map[speech.Op]error),
		format:   audio.Format{SampleRate: 22050, Channels: 1, BitDepth: 16},
	}
	e.player = audio.NewMockPlayer(d)
	return e
}

// WithVoices replaces the voice list. The first voice becomes current.
func (e *Engine) WithVoices(voices []speech.Voice) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.voices = append([]speech.Voice(nil), voices...)
	e.voice = ""
	if len(voices) > 0 {
		e.voice = voices[0].ID
	}
	return e
}

// WithPlayer routes Speak output to p.
func (e *Engine) WithPlayer(p audio.Player) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.player = p
	return e
}

// SetFailure makes op fail with err. A nil err clears it.
func (e *Engine) SetFailure(op speech.Op, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err == nil {
		delete(e.failures, op)
		return
	}
	e.failures[op] = err
}

func (e *Engine) record(op speech.Op, format string, args ...any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, fmt.Sprintf(format, args...))
	if e.closed && op != speech.OpStop {
		return fmt.Errorf("engine closed")
	}
	return e.failures[op]
}

// Calls returns the calls received so far, in order.
func (e *Engine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// Reset forgets recorded calls.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = nil
}

// Rate returns the configured rate.
func (e *Engine) Rate() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rate
}

// Voices implements speech.Engine.
func (e *Engine) Voices(context.Context) ([]speech.Voice, error) {
	if err := e.record(speech.OpVoices, "Voices()"); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]speech.Voice(nil), e.voices...), nil
}

// SetVoice implements speech.Engine.
func (e *Engine) SetVoice(id string) error {
	if err := e.record(speech.OpSetVoice, "SetVoice(%s)", id); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, v := range e.voices {
		if v.ID == id {
			e.voice = id
			return nil
		}
	}
	return fmt.Errorf("voice not found: %s", id)
}

// CurrentVoice implements speech.Engine.
func (e *Engine) CurrentVoice() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.voice
}

// SetRate implements speech.Engine.
func (e *Engine) SetRate(wpm int) error {
	if err := e.record(speech.OpSetRate, "SetRate(%d)", wpm); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rate = wpm
	return nil
}

// render produces silence roughly as long as text takes to say.
func (e *Engine) render(text string) []byte {
	e.mu.Lock()
	rate := e.rate
	e.mu.Unlock()
	if rate <= 0 {
		rate = speech.DefaultRate
	}
	words := len(text)/5 + 1
	d := time.Duration(words) * time.Minute / time.Duration(rate)
	frames := int(d.Seconds() * float64(e.format.SampleRate))
	return make([]byte, max(frames, 1)*e.format.BytesPerFrame())
}

// Speak implements speech.Engine.
func (e *Engine) Speak(ctx context.Context, text string) error {
	if err := e.record(speech.OpSpeak, "Speak(%s)", text); err != nil {
		return err
	}
	e.mu.Lock()
	p := e.player
	e.mu.Unlock()
	return p.Play(ctx, e.render(text))
}

// SaveToFile implements speech.Engine.
func (e *Engine) SaveToFile(ctx context.Context, text, path string) error {
	if err := e.record(speech.OpSaveFile, "SaveToFile(%s, %s)", text, path); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, audio.EncodeWAV(e.format, e.render(text)), 0o644) //nolint:gosec
}

// Stop implements speech.Engine.
func (e *Engine) Stop() error {
	if err := e.record(speech.OpStop, "Stop()"); err != nil {
		return err
	}
	e.mu.Lock()
	p := e.player
	e.mu.Unlock()
	return p.Stop()
}

// Close implements speech.Engine.
func (e *Engine) Close() error {
	if err := e.record(speech.OpCloseDown, "Close()"); err != nil {
		return err
	}
	e.mu.Lock()
	e.closed = true
	p := e.player
	e.mu.Unlock()
	return p.Close()
}

var _ speech.Engine = (*Engine)(nil)
