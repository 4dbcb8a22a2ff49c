package speech

import "context"

// Engine is a text-to-speech synthesizer. Implementations are not expected
// to be safe for concurrent configuration; the controller serializes calls,
// except for Stop which may arrive at any time.
type Engine interface {
	// Voices lists the available voices in the engine's native order.
	Voices(ctx context.Context) ([]Voice, error)

	// SetVoice selects the voice used by subsequent synthesis.
	SetVoice(id string) error

	// CurrentVoice returns the id of the configured voice.
	CurrentVoice() string

	// SetRate sets the speaking rate in words per minute.
	SetRate(wpm int) error

	// Speak synthesizes text and plays it, blocking until playback ends,
	// Stop is called or ctx is done.
	Speak(ctx context.Context, text string) error

	// SaveToFile synthesizes text into a WAV file at path.
	SaveToFile(ctx context.Context, text, path string) error

	// Stop halts playback immediately.
	Stop() error

	// Close releases the engine.
	Close() error
}
