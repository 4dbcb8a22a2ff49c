// Package espeak drives the eSpeak NG command line synthesizer.
package espeak

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sayit-app/sayit/internal/audio"
	"github.com/sayit-app/sayit/internal/cache"
	"github.com/sayit-app/sayit/internal/speech"
)

// DefaultTimeout bounds a single espeak invocation.
const DefaultTimeout = 30 * time.Second

// Binaries are looked up on PATH in this order when Config.Binary is empty.
var Binaries = []string{"espeak-ng", "espeak"}

// Config configures the engine.
type Config struct {
	// Binary is the espeak executable name or path.
	Binary string

	// Language is the base voice variants are applied to, e.g. "en" or
	// "en-us".
	Language string

	Timeout time.Duration
	Logger  *log.Logger

	// Cache keeps synthesized audio for repeated utterances. Nil disables
	// caching.
	Cache *cache.Memory

	// CacheTTL drops cached audio older than this before each lookup. Zero
	// keeps entries until they are evicted.
	CacheTTL time.Duration

	// Volume is the playback volume of the default player, from 0 to 1.
	// Zero means full volume.
	Volume float64

	// Runner replaces process execution. Tests use it.
	Runner Runner

	// NewPlayer creates the audio output once the first utterance's format
	// is known. Defaults to an oto player.
	NewPlayer func(audio.Format) (audio.Player, error)
}

// Engine implements speech.Engine on top of the espeak binary.
type Engine struct {
	binary   string
	language string
	run      Runner
	log      *log.Logger
	cache    *cache.Memory
	cacheTTL time.Duration

	newPlayer func(audio.Format) (audio.Player, error)

	mu     sync.Mutex
	voice  string
	rate   int
	player audio.Player
	cancel context.CancelFunc
	closed bool
}

// New locates the binary and returns an engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default().WithPrefix("espeak")
	}

	binary := cfg.Binary
	if cfg.Runner == nil {
		candidates := Binaries
		if binary != "" {
			candidates = []string{binary}
		}
		p, err := lookBinary(candidates...)
		if err != nil {
			return nil, err
		}
		binary = p
		cfg.Runner = execRunner(cfg.Timeout)
	}
	if binary == "" {
		binary = Binaries[0]
	}
	if cfg.NewPlayer == nil {
		cfg.NewPlayer = otoPlayer(cfg.Volume)
	}

	return &Engine{
		binary:    binary,
		language:  cfg.Language,
		run:       cfg.Runner,
		log:       cfg.Logger,
		cache:     cfg.Cache,
		cacheTTL:  cfg.CacheTTL,
		newPlayer: cfg.NewPlayer,
		rate:      speech.DefaultRate,
	}, nil
}

// otoPlayer opens the system audio output at volume.
func otoPlayer(volume float64) func(audio.Format) (audio.Player, error) {
	if volume <= 0 {
		volume = 1
	}
	return func(f audio.Format) (audio.Player, error) {
		p, err := audio.NewPlayer(audio.ConfigFor(f))
		if err != nil {
			return nil, err
		}
		if err := p.SetVolume(volume); err != nil {
			_ = p.Close()
			return nil, err
		}
		return p, nil
	}
}

// Voices implements speech.Engine.
func (e *Engine) Voices(ctx context.Context) ([]speech.Voice, error) {
	out, err := e.run(ctx, "", e.binary, "--voices=variant")
	if err != nil {
		return nil, err
	}
	voices := parseVoices(out)
	if len(voices) == 0 {
		e.log.Debug("no variants listed, using defaults")
		voices = append([]speech.Voice(nil), defaultVoices...)
	}
	e.log.Debug("listed voices", "count", len(voices))
	return voices, nil
}

// SetVoice implements speech.Engine. An empty id selects the language's
// own voice.
func (e *Engine) SetVoice(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return errClosed
	}
	e.voice = id
	return nil
}

// CurrentVoice implements speech.Engine.
func (e *Engine) CurrentVoice() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.voice
}

// SetRate implements speech.Engine. The rate is in words per minute.
func (e *Engine) SetRate(wpm int) error {
	if wpm <= 0 {
		return fmt.Errorf("invalid rate: %d", wpm)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return errClosed
	}
	e.rate = wpm
	return nil
}

var errClosed = errors.New("engine closed")

// args builds the synthesis flags for the current voice and rate.
func (e *Engine) args() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := e.language
	if e.voice != "" {
		v += "+" + e.voice
	}
	return []string{"-v", v, "-s", strconv.Itoa(e.rate)}
}

// beginSpeech registers a cancellable utterance so Stop can interrupt it.
// Saves are not registered; they end only with their own context.
func (e *Engine) beginSpeech(ctx context.Context) (context.Context, func(), error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, nil, errClosed
	}
	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	return ctx, func() {
		cancel()
		e.mu.Lock()
		e.cancel = nil
		e.mu.Unlock()
	}, nil
}

// Speak implements speech.Engine. It renders text to WAV and plays it,
// returning when playback ends, Stop is called or ctx is done.
func (e *Engine) Speak(ctx context.Context, text string) error {
	ctx, end, err := e.beginSpeech(ctx)
	if err != nil {
		return err
	}
	defer end()

	out, err := e.synthesize(ctx, text)
	if err != nil {
		return err
	}

	format, pcm, err := audio.DecodeWAV(out)
	if err != nil {
		return fmt.Errorf("decode espeak output: %w", err)
	}
	player, err := e.playerFor(format)
	if err != nil {
		return err
	}
	if len(pcm) == 0 {
		return nil
	}
	return player.Play(ctx, pcm)
}

// synthesize renders text to WAV, consulting the cache first.
func (e *Engine) synthesize(ctx context.Context, text string) ([]byte, error) {
	args := e.args()
	key := cache.Key(text, args[1], e.currentRate())
	if e.cache != nil {
		if e.cacheTTL > 0 {
			if n := e.cache.Prune(e.cacheTTL); n > 0 {
				e.log.Debug("expired cached audio", "entries", n)
			}
		}
		if out, ok := e.cache.Get(key); ok {
			e.log.Debug("using cached audio", "key", key)
			return out, nil
		}
	}

	start := time.Now()
	out, err := e.run(ctx, text, e.binary, append(args, "--stdout")...)
	if err != nil {
		return nil, err
	}
	e.log.Debug("synthesized", "bytes", len(out), "took", time.Since(start))

	if e.cache != nil {
		if err := e.cache.Put(key, out); err != nil {
			e.log.Debug("not caching audio", "key", key, "error", err)
		}
	}
	return out, nil
}

func (e *Engine) currentRate() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rate
}

func (e *Engine) playerFor(f audio.Format) (audio.Player, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.player != nil {
		return e.player, nil
	}
	p, err := e.newPlayer(f)
	if err != nil {
		return nil, fmt.Errorf("open audio output: %w", err)
	}
	e.player = p
	return p, nil
}

// SaveToFile implements speech.Engine. Stop does not interrupt it.
func (e *Engine) SaveToFile(ctx context.Context, text, path string) error {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return errClosed
	}

	args := append(e.args(), "-w", path)
	_, err := e.run(ctx, text, e.binary, args...)
	return err
}

// Stop implements speech.Engine. It interrupts the current utterance.
func (e *Engine) Stop() error {
	e.mu.Lock()
	cancel, player := e.cancel, e.player
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if player != nil {
		return player.Stop()
	}
	return nil
}

// Close implements speech.Engine.
func (e *Engine) Close() error {
	_ = e.Stop()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	if e.cache != nil {
		e.cache.Clear()
	}
	if e.player != nil {
		return e.player.Close()
	}
	return nil
}

var _ speech.Engine = (*Engine)(nil)
