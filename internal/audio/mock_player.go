package audio

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// MockPlayer implements Player without touching an audio device. Playback
// takes Duration (or the real length of the buffer when Duration is zero,
// scaled by SpeedFactor) and can be interrupted with Stop.
type MockPlayer struct {
	Format      Format
	Duration    time.Duration
	SpeedFactor float64

	mu      sync.Mutex
	stopCh  chan struct{}
	playing bool
	closed  bool
	last    []byte

	playCount atomic.Int64
	stopCount atomic.Int64
}

// NewMockPlayer returns a mock that plays for the given duration.
func NewMockPlayer(d time.Duration) *MockPlayer {
	return &MockPlayer{
		Format:      Format{SampleRate: 22050, Channels: 1, BitDepth: 16},
		Duration:    d,
		SpeedFactor: 1.0,
	}
}

// Play implements Player.
func (mp *MockPlayer) Play(ctx context.Context, pcm []byte) error {
	if len(pcm) == 0 {
		return ErrEmptyAudio
	}

	mp.mu.Lock()
	if mp.closed {
		mp.mu.Unlock()
		return ErrPlayerClosed
	}
	if mp.stopCh != nil {
		close(mp.stopCh)
	}
	stopCh := make(chan struct{})
	mp.stopCh = stopCh
	mp.playing = true
	mp.last = append(mp.last[:0], pcm...)
	mp.mu.Unlock()
	mp.playCount.Add(1)

	d := mp.Duration
	if d == 0 {
		d = time.Duration(float64(mp.Format.Duration(len(pcm))) * mp.SpeedFactor)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	var err error
	select {
	case <-timer.C:
	case <-stopCh:
		err = ErrPlaybackStopped
	case <-ctx.Done():
		err = ctx.Err()
	}

	mp.mu.Lock()
	if mp.stopCh == stopCh {
		mp.stopCh = nil
		mp.playing = false
	}
	mp.mu.Unlock()
	return err
}

// Stop implements Player.
func (mp *MockPlayer) Stop() error {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	if mp.stopCh != nil {
		close(mp.stopCh)
		mp.stopCh = nil
		mp.playing = false
		mp.stopCount.Add(1)
	}
	return nil
}

// IsPlaying implements Player.
func (mp *MockPlayer) IsPlaying() bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.playing
}

// Close implements Player.
func (mp *MockPlayer) Close() error {
	_ = mp.Stop()
	mp.mu.Lock()
	mp.closed = true
	mp.mu.Unlock()
	return nil
}

// PlayCount returns how many buffers were handed to Play.
func (mp *MockPlayer) PlayCount() int64 { return mp.playCount.Load() }

// StopCount returns how many times Stop interrupted a playback.
func (mp *MockPlayer) StopCount() int64 { return mp.stopCount.Load() }

// LastPlayed returns a copy of the most recent buffer.
func (mp *MockPlayer) LastPlayed() []byte {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return append([]byte(nil), mp.last...)
}

var _ Player = (*MockPlayer)(nil)
