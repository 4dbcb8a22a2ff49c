package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

var (
	// ErrEmptyAudio is returned when Play is given no samples.
	ErrEmptyAudio = errors.New("audio data is empty")

	// ErrPlayerClosed is returned by a player after Close.
	ErrPlayerClosed = errors.New("player is closed")

	// ErrPlaybackStopped is returned by Play when Stop interrupted it.
	ErrPlaybackStopped = errors.New("playback stopped")
)

// pollInterval is how often Play checks whether oto drained the buffer.
const pollInterval = 10 * time.Millisecond

// Player plays raw PCM audio.
type Player interface {
	// Play blocks until the buffer is drained, Stop is called or ctx is done.
	Play(ctx context.Context, pcm []byte) error

	// Stop interrupts the current playback immediately.
	Stop() error

	// IsPlaying reports whether a buffer is being played.
	IsPlaying() bool

	// Close releases the player.
	Close() error
}

// PlayerConfig contains configuration for the audio player.
type PlayerConfig struct {
	SampleRate int // 22050, 44100 or 48000 Hz
	Channels   int // 1 = mono, 2 = stereo
	BitDepth   int // 16 bits per sample
	BufferSize int // bytes buffered by the device
}

// DefaultPlayerConfig matches what espeak-ng writes with --stdout.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		SampleRate: 22050,
		Channels:   1,
		BitDepth:   16,
		BufferSize: 4096,
	}
}

// ConfigFor returns a player configuration for the given WAV format.
func ConfigFor(f Format) PlayerConfig {
	cfg := DefaultPlayerConfig()
	cfg.SampleRate = f.SampleRate
	cfg.Channels = f.Channels
	cfg.BitDepth = f.BitDepth
	return cfg
}

func validateConfig(config PlayerConfig) error {
	switch config.SampleRate {
	case 22050, 44100, 48000:
	default:
		return fmt.Errorf("sample rate must be 22050, 44100 or 48000 Hz, got %d", config.SampleRate)
	}

	if config.Channels != 1 && config.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", config.Channels)
	}

	if config.BitDepth != 16 {
		return fmt.Errorf("bit depth must be 16, got %d", config.BitDepth)
	}

	if config.BufferSize <= 0 {
		return errors.New("buffer size must be positive")
	}

	return nil
}

// oto allows a single context per process.
var (
	otoOnce   sync.Once
	otoCtx    *oto.Context
	otoConfig PlayerConfig
	otoErr    error
)

func sharedContext(config PlayerConfig) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   config.SampleRate,
			ChannelCount: config.Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   time.Duration(config.BufferSize) * time.Second / time.Duration(config.SampleRate*config.Channels*2),
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			otoErr = fmt.Errorf("failed to create oto context: %w", err)
			return
		}
		<-ready
		otoCtx = ctx
		otoConfig = config
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if otoConfig.SampleRate != config.SampleRate || otoConfig.Channels != config.Channels {
		return nil, fmt.Errorf("audio device already opened at %d Hz/%d ch, cannot reopen at %d Hz/%d ch",
			otoConfig.SampleRate, otoConfig.Channels, config.SampleRate, config.Channels)
	}
	return otoCtx, nil
}

// OtoPlayer implements Player for cross-platform playback using oto.
type OtoPlayer struct {
	context *oto.Context

	mu     sync.Mutex
	player *oto.Player
	// Keep the buffer alive while oto reads from it.
	data   []byte
	volume float64
	closed bool
}

// NewPlayer creates an oto backed player with the specified configuration.
func NewPlayer(config PlayerConfig) (*OtoPlayer, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ctx, err := sharedContext(config)
	if err != nil {
		return nil, err
	}

	return &OtoPlayer{
		context: ctx,
		volume:  1.0,
	}, nil
}

// Play implements Player.
func (p *OtoPlayer) Play(ctx context.Context, pcm []byte) error {
	if len(pcm) == 0 {
		return ErrEmptyAudio
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPlayerClosed
	}
	p.stopLocked()

	data := make([]byte, len(pcm))
	copy(data, pcm)

	player := p.context.NewPlayer(bytes.NewReader(data))
	player.SetVolume(p.volume)
	p.player = player
	p.data = data
	player.Play()
	p.mu.Unlock()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.release(player)
			return ctx.Err()
		case <-ticker.C:
			p.mu.Lock()
			if p.player != player {
				p.mu.Unlock()
				return ErrPlaybackStopped
			}
			done := !player.IsPlaying()
			p.mu.Unlock()
			if done {
				p.release(player)
				return nil
			}
		}
	}
}

// release closes player if it is still the active one.
func (p *OtoPlayer) release(player *oto.Player) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == player {
		p.stopLocked()
	}
}

func (p *OtoPlayer) stopLocked() {
	if p.player == nil {
		return
	}
	p.player.Pause()
	_ = p.player.Close()
	p.player = nil
	p.data = nil
}

// Stop implements Player.
func (p *OtoPlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	return nil
}

// IsPlaying implements Player.
func (p *OtoPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player != nil && p.player.IsPlaying()
}

// SetVolume sets the playback volume (0.0 to 1.0).
func (p *OtoPlayer) SetVolume(volume float64) error {
	if volume < 0.0 || volume > 1.0 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", volume)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
	if p.player != nil {
		p.player.SetVolume(volume)
	}
	return nil
}

// Close implements Player. The oto context itself lives for the whole
// process since v3 cannot reopen it.
func (p *OtoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.closed = true
	return nil
}

var _ Player = (*OtoPlayer)(nil)
