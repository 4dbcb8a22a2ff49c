// Package ui provides the terminal interface of sayit.
package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/log"
	te "github.com/muesli/termenv"
	"github.com/sayit-app/sayit/internal/speech"
)

const ellipsis = "…"

// Controller is the speech controller the UI drives.
type Controller interface {
	Speak(u speech.Utterance) (*speech.Task, error)
	Stop() bool
	Save(ctx context.Context, u speech.Utterance, dest string) error
	State() speech.State
	Controls() speech.Controls
	Subscribe(fn func(speech.State))
}

// NewProgram returns a new Tea program.
func NewProgram(cfg Config, ctrl Controller) *tea.Program {
	log.Debug(
		"Starting sayit",
		"rate",
		cfg.Rate,
		"voice",
		cfg.Voice,
		"glamour_style",
		cfg.GlamourStyle,
	)

	var opts []tea.ProgramOption
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	return tea.NewProgram(newModel(cfg, ctrl), opts...)
}

// state is the top-level application state. The welcome screen only ever
// leads to the main screen.
type state int

const (
	stateWelcome state = iota
	stateMain
)

func (s state) String() string {
	return map[state]string{
		stateWelcome: "showing welcome screen",
		stateMain:    "showing main screen",
	}[s]
}

// Common stuff we'll need to access in all models.
type commonModel struct {
	cfg    Config
	ctrl   Controller
	states chan speech.State
	width  int
	height int
}

type model struct {
	common *commonModel
	state  state

	welcome welcomeModel
	main    mainModel
}

func newModel(cfg Config, ctrl Controller) model {
	if cfg.GlamourStyle == "" || cfg.GlamourStyle == styles.AutoStyle {
		if te.HasDarkBackground() {
			cfg.GlamourStyle = styles.DarkStyle
		} else {
			cfg.GlamourStyle = styles.LightStyle
		}
	}
	if len(cfg.Voices) == 0 {
		cfg.Voices = speech.DefaultVoices
	}
	if cfg.Rate == 0 {
		cfg.Rate = speech.DefaultRate
	}

	common := &commonModel{
		cfg:    cfg,
		ctrl:   ctrl,
		states: make(chan speech.State, 16),
		width:  maxWidth,
		height: 24,
	}
	// transitions arrive from the speak goroutine; drop them when the
	// program falls behind
	ctrl.Subscribe(func(s speech.State) {
		select {
		case common.states <- s:
		default:
		}
	})

	m := model{
		common: common,
		state:  stateWelcome,
	}
	if cfg.SkipWelcome {
		m.state = stateMain
		m.main = newMainModel(common)
	} else {
		m.welcome = newWelcomeModel(cfg)
	}
	return m
}

func (m model) Init() tea.Cmd {
	log.Debug("Init() called", "state", m.state)
	cmds := []tea.Cmd{waitForState(m.common.states)}
	if m.state == stateMain {
		cmds = append(cmds, m.main.init())
	}
	return tea.Batch(cmds...)
}

// start tears down the welcome screen and builds the main screen.
func (m model) start() (model, tea.Cmd) {
	m.state = stateMain
	m.welcome = welcomeModel{}
	m.main = newMainModel(m.common)
	log.Debug("entering main screen")
	return m, m.main.init()
}

func (m model) quit() (model, tea.Cmd) {
	if m.common.ctrl.Stop() {
		log.Debug("stopped speech before quitting")
	}
	return m, tea.Quit
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		// Ctrl+C always quits no matter where in the application you are.
		case "ctrl+c", "ctrl+q":
			return m.quit()
		case "ctrl+z":
			return m, tea.Suspend
		}

		if m.state == stateWelcome {
			switch msg.String() {
			case "enter", " ":
				return m.start()
			case "esc", "q":
				return m.quit()
			}
			return m, nil
		}

	// Window size is received when starting up and on every resize
	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height
		if m.state == stateMain {
			m.main.setSize(msg.Width, msg.Height)
		}
		return m, nil

	case stateMsg:
		log.Debug("speech state changed", "state", speech.State(msg))
		return m, waitForState(m.common.states)
	}

	if m.state != stateMain {
		return m, nil
	}
	var cmd tea.Cmd
	m.main, cmd = m.main.update(msg)
	return m, cmd
}

func (m model) View() string {
	switch m.state {
	case stateMain:
		return m.main.view()
	default:
		return m.welcome.view(m.common.width, m.common.height)
	}
}
