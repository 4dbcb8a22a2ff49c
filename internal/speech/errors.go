package speech

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput indicates there was no text to speak or save.
	ErrEmptyInput = errors.New("please enter some text")

	// ErrAlreadySpeaking is returned by Speak while a task is still running.
	ErrAlreadySpeaking = errors.New("speech already in progress")

	// ErrNoEngine indicates the controller was built without an engine.
	ErrNoEngine = errors.New("no speech engine configured")
)

// Op names the engine call that failed.
type Op string

const (
	OpVoices    Op = "list voices"
	OpSetVoice  Op = "set voice"
	OpSetRate   Op = "set rate"
	OpSpeak     Op = "speak"
	OpSaveFile  Op = "save to file"
	OpStop      Op = "stop"
	OpCloseDown Op = "close"
)

// EngineError wraps any failure raised by the synthesis engine.
type EngineError struct {
	Op    Op
	Cause error
}

// NewEngineError creates an EngineError for op.
func NewEngineError(op Op, cause error) *EngineError {
	return &EngineError{Op: op, Cause: cause}
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("engine %s failed", e.Op)
	}
	return fmt.Sprintf("engine %s failed: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying error.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// IsEngineError reports whether err came from the engine.
func IsEngineError(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee)
}
