package speech

import (
	"context"
	"sync/atomic"
)

// Task is a running speak operation.
type Task struct {
	Utterance Utterance

	done    chan struct{}
	cancel  context.CancelFunc
	err     error
	stopped atomic.Bool

	// started is set once the engine is speaking this task.
	started atomic.Bool
}

func newTask(u Utterance, cancel context.CancelFunc) *Task {
	return &Task{
		Utterance: u,
		done:      make(chan struct{}),
		cancel:    cancel,
	}
}

// Done is closed once the background work has ended and the controller is
// back to idle (unless a newer task has started since).
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task ends and returns its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// Err returns the task error. Only meaningful after Done is closed.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Stopped reports whether the task was ended by Controller.Stop.
func (t *Task) Stopped() bool {
	return t.stopped.Load()
}

func (t *Task) complete(err error) {
	t.err = err
	close(t.done)
}
