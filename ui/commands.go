package ui

import (
	"context"
	"os"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/sayit-app/sayit/internal/speech"
)

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type (
	// stateMsg reports a controller state transition.
	stateMsg speech.State

	// speakDoneMsg is sent once a speak task has ended.
	speakDoneMsg struct {
		task *speech.Task
		err  error
	}

	// savedMsg is the outcome of a save. An empty path means the save was
	// cancelled.
	savedMsg struct {
		path string
		size int64
		err  error
	}

	pastedMsg string
)

// waitForState delivers the next state transition. It is re-armed after
// every stateMsg.
func waitForState(ch <-chan speech.State) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ch)
	}
}

func waitForTask(t *speech.Task) tea.Cmd {
	return func() tea.Msg {
		err := t.Wait()
		return speakDoneMsg{task: t, err: err}
	}
}

func saveCmd(ctrl Controller, u speech.Utterance, dest string) tea.Cmd {
	return func() tea.Msg {
		if err := ctrl.Save(context.Background(), u, dest); err != nil {
			return savedMsg{path: dest, err: err}
		}
		if dest == "" {
			return savedMsg{}
		}

		var size int64
		if info, err := os.Stat(dest); err == nil {
			size = info.Size()
		} else {
			log.Debug("unable to stat saved file", "path", dest, "error", err)
		}
		return savedMsg{path: dest, size: size}
	}
}

func pasteCmd() tea.Msg {
	s, err := clipboard.ReadAll()
	if err != nil {
		return errMsg{err}
	}
	return pastedMsg(s)
}
