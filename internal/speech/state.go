package speech

// State is the session state of the controller.
type State int

const (
	// StateIdle means no speech task is running.
	StateIdle State = iota
	// StateSpeaking means a background speech task is active.
	StateSpeaking
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSpeaking:
		return "speaking"
	default:
		return "unknown"
	}
}

// Controls is the enabled/disabled vector for the action buttons.
type Controls struct {
	Speak bool
	Stop  bool
	Save  bool
	Reset bool
}

// ControlsFor derives which controls are usable in state s. While speaking
// only stop is enabled; otherwise everything but stop is.
func ControlsFor(s State) Controls {
	speaking := s == StateSpeaking
	return Controls{
		Speak: !speaking,
		Stop:  speaking,
		Save:  !speaking,
		Reset: !speaking,
	}
}
