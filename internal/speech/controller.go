// Package speech mediates every interaction with the synthesis engine and
// keeps the speaking session state.
package speech

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	// Categories are the logical voice keywords resolved at startup.
	// Defaults to DefaultVoices.
	Categories []string

	// Logger defaults to the package level charmbracelet logger.
	Logger *log.Logger
}

// Controller owns the engine handle and the is-speaking state. A single
// instance is created at startup and shared with the UI.
type Controller struct {
	engine Engine
	voices *VoiceMap
	log    *log.Logger

	// engineMu serializes configuration and synthesis on the engine so that
	// a save can never interleave with a speak task. Stop does not take it.
	engineMu sync.Mutex

	mu        sync.Mutex
	state     State
	task      *Task
	listeners []func(State)
}

// NewController lists the engine voices and resolves the voice categories.
func NewController(ctx context.Context, engine Engine, cfg ControllerConfig) (*Controller, error) {
	if engine == nil {
		return nil, ErrNoEngine
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = DefaultVoices
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default().WithPrefix("speech")
	}

	voices, err := engine.Voices(ctx)
	if err != nil {
		return nil, NewEngineError(OpVoices, err)
	}

	vm := NewVoiceMap(voices, cfg.Categories...)
	for _, c := range cfg.Categories {
		id, ok := vm.Lookup(c)
		logger.Debug("resolved voice category", "category", c, "voice", id, "found", ok)
	}

	return &Controller{
		engine: engine,
		voices: vm,
		log:    logger,
		state:  StateIdle,
	}, nil
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Controls returns the control enablement vector for the current state.
func (c *Controller) Controls() Controls {
	return ControlsFor(c.State())
}

// Voices returns the engine voices captured at startup.
func (c *Controller) Voices() []Voice {
	return c.voices.Voices()
}

// ResolveVoice returns the engine voice id a keyword selects.
func (c *Controller) ResolveVoice(keyword string) (string, bool) {
	return c.voices.Lookup(keyword)
}

// Subscribe registers fn to be called after every state transition. fn runs
// on the goroutine that caused the transition and must not block.
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Controller) notify(s State) {
	c.mu.Lock()
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}

// Speak starts speaking u in the background. It fails with ErrEmptyInput for
// blank text and with ErrAlreadySpeaking while another task is active.
func (c *Controller) Speak(u Utterance) (*Task, error) {
	if strings.TrimSpace(u.Text) == "" {
		return nil, ErrEmptyInput
	}

	c.mu.Lock()
	if c.state == StateSpeaking {
		c.mu.Unlock()
		return nil, ErrAlreadySpeaking
	}
	ctx, cancel := context.WithCancel(context.Background())
	t := newTask(u, cancel)
	c.task = t
	c.state = StateSpeaking
	c.mu.Unlock()

	c.log.Debug("speaking", "id", u.ID, "rate", u.Rate, "voice", u.Voice, "chars", len(u.Text))
	c.notify(StateSpeaking)

	go c.run(ctx, t)
	return t, nil
}

// run is the background speak task. The deferred cleanup returns the
// session to idle whatever the engine does.
func (c *Controller) run(ctx context.Context, t *Task) {
	start := time.Now()
	var err error

	defer func() {
		if r := recover(); r != nil {
			err = NewEngineError(OpSpeak, fmt.Errorf("panic: %v", r))
		}
		t.cancel()
		c.finish(t, err, time.Since(start))
	}()

	c.engineMu.Lock()
	defer c.engineMu.Unlock()

	if ctx.Err() != nil {
		return
	}
	if err = c.configure(t.Utterance); err != nil {
		return
	}
	t.started.Store(true)
	if serr := c.engine.Speak(ctx, t.Utterance.Text); serr != nil {
		err = NewEngineError(OpSpeak, serr)
	}
}

func (c *Controller) finish(t *Task, err error, elapsed time.Duration) {
	c.mu.Lock()
	changed := false
	if c.task == t {
		c.task = nil
		c.state = StateIdle
		changed = true
	}
	c.mu.Unlock()

	if t.Stopped() {
		// the engine reports the interruption; that is not a failure
		err = nil
	}

	switch {
	case err != nil:
		c.log.Error("speech failed", "id", t.Utterance.ID, "err", err)
	case t.Stopped():
		c.log.Debug("speech stopped", "id", t.Utterance.ID, "elapsed", elapsed)
	default:
		c.log.Debug("speech finished", "id", t.Utterance.ID, "elapsed", elapsed)
	}

	t.complete(err)
	if changed {
		c.notify(StateIdle)
	}
}

// Stop halts the active speak task. It returns true if speech was stopped
// and false, doing nothing, when the controller was idle.
func (c *Controller) Stop() bool {
	c.mu.Lock()
	t := c.task
	if c.state != StateSpeaking || t == nil {
		c.mu.Unlock()
		return false
	}
	t.stopped.Store(true)
	c.task = nil
	c.state = StateIdle
	c.mu.Unlock()

	// A task still queued behind a save has not reached the engine; the
	// cancelled context keeps it from starting and the engine is left alone.
	t.cancel()
	if t.started.Load() {
		if err := c.engine.Stop(); err != nil {
			c.log.Warn("engine stop failed", "err", NewEngineError(OpStop, err))
		}
	}

	c.log.Debug("stop requested", "id", t.Utterance.ID, "started", t.started.Load())
	c.notify(StateIdle)
	return true
}

// Save synthesizes u into the WAV file dest and returns once the file is
// written. An empty dest means the user cancelled and is a no-op.
func (c *Controller) Save(ctx context.Context, u Utterance, dest string) error {
	if strings.TrimSpace(u.Text) == "" {
		return ErrEmptyInput
	}
	if dest == "" {
		c.log.Debug("save cancelled", "id", u.ID)
		return nil
	}

	c.engineMu.Lock()
	defer c.engineMu.Unlock()

	if err := c.configure(u); err != nil {
		return err
	}
	if err := c.engine.SaveToFile(ctx, u.Text, dest); err != nil {
		return NewEngineError(OpSaveFile, err)
	}

	c.log.Info("saved audio", "id", u.ID, "path", dest)
	return nil
}

// configure applies rate and voice. A voice keyword that matches nothing
// leaves the engine voice as it is.
func (c *Controller) configure(u Utterance) error {
	if err := c.engine.SetRate(u.Rate); err != nil {
		return NewEngineError(OpSetRate, err)
	}

	id, ok := c.voices.Lookup(u.Voice)
	if !ok {
		c.log.Debug("no voice matches, keeping current", "keyword", u.Voice, "voice", c.engine.CurrentVoice())
		return nil
	}
	if err := c.engine.SetVoice(id); err != nil {
		return NewEngineError(OpSetVoice, err)
	}
	return nil
}

// Close stops any speech and releases the engine.
func (c *Controller) Close() error {
	c.Stop()

	c.engineMu.Lock()
	defer c.engineMu.Unlock()
	if err := c.engine.Close(); err != nil {
		return NewEngineError(OpCloseDown, err)
	}
	return nil
}
