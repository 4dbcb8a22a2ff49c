package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
	"github.com/sayit-app/sayit/internal/speech"
	"github.com/sayit-app/sayit/utils"
)

const (
	sliderWidth = 30
	maxWidth    = 80
)

// focus is the widget receiving arrow keys.
type focus int

const (
	focusInput focus = iota
	focusRate
	focusVoice
	focusCount
)

// mainModel is the main screen: the text box, the rate slider, the voice
// selector and the action buttons.
type mainModel struct {
	common *commonModel

	input   textarea.Model
	prompt  textinput.Model
	spinner spinner.Model

	focus focus
	rate  int
	voice int

	// prompting is set while the save destination is being edited;
	// pending holds the utterance to save.
	prompting bool
	pending   speech.Utterance
	saving    bool

	dialog *dialog
}

func newMainModel(common *commonModel) mainModel {
	cfg := common.cfg

	ta := textarea.New()
	ta.Placeholder = "Type or paste your text here..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	ti := textinput.New()
	ti.Prompt = "Save as: "
	ti.Placeholder = "speech" + utils.AudioExt

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle))

	voice := 0
	for i, v := range cfg.Voices {
		if strings.EqualFold(v, cfg.Voice) {
			voice = i
			break
		}
	}

	m := mainModel{
		common:  common,
		input:   ta,
		prompt:  ti,
		spinner: sp,
		rate:    speech.ClampRate(cfg.Rate),
		voice:   voice,
	}
	m.setSize(common.width, common.height)
	return m
}

func (m mainModel) init() tea.Cmd {
	return tea.Batch(m.input.Focus(), textarea.Blink)
}

func (m *mainModel) setSize(width, height int) {
	w := min(max(width, 20), maxWidth)
	m.input.SetWidth(w - 4)
	// logo, box borders, rate, voice, buttons, prompt and help lines
	m.input.SetHeight(max(height-14, 3))
	m.prompt.Width = w - len(m.prompt.Prompt) - 2
}

func (m mainModel) controls() speech.Controls {
	return m.common.ctrl.Controls()
}

func (m mainModel) voiceName() string {
	if len(m.common.cfg.Voices) == 0 {
		return ""
	}
	return m.common.cfg.Voices[m.voice]
}

func (m mainModel) utterance() (speech.Utterance, error) {
	return speech.NewUtterance(m.input.Value(), m.rate, m.voiceName())
}

func (m *mainModel) setFocus(f focus) tea.Cmd {
	m.focus = (f + focusCount) % focusCount
	if m.focus == focusInput {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m *mainModel) showError(err error) {
	switch {
	case errors.Is(err, speech.ErrEmptyInput):
		m.dialog = warningDialog("Please enter some text!")
	case errors.Is(err, speech.ErrAlreadySpeaking):
		m.dialog = warningDialog("Already speaking. Stop first.")
	default:
		m.dialog = errorDialog(err)
	}
	log.Debug("showing dialog", "kind", m.dialog.kind, "error", err)
}

// resetInput clears the text box.
func (m *mainModel) resetInput() {
	m.input.Reset()
}

func (m mainModel) speak() (mainModel, tea.Cmd) {
	if !m.controls().Speak || m.saving {
		return m, nil
	}
	u, err := m.utterance()
	if err != nil {
		m.showError(err)
		return m, nil
	}
	task, err := m.common.ctrl.Speak(u)
	if err != nil {
		m.showError(err)
		return m, nil
	}
	return m, tea.Batch(waitForTask(task), m.spinner.Tick)
}

func (m mainModel) stop() (mainModel, tea.Cmd) {
	if m.common.ctrl.Stop() {
		m.dialog = infoDialog("Speech has been stopped.")
	}
	return m, nil
}

// save validates the text and asks for a destination.
func (m mainModel) save() (mainModel, tea.Cmd) {
	if !m.controls().Save || m.saving {
		return m, nil
	}
	u, err := m.utterance()
	if err != nil {
		m.showError(err)
		return m, nil
	}
	m.pending = u
	m.prompting = true
	m.prompt.SetValue(m.common.cfg.Output)
	m.prompt.CursorEnd()
	m.input.Blur()
	return m, m.prompt.Focus()
}

func (m mainModel) closePrompt() (mainModel, tea.Cmd) {
	m.prompting = false
	m.prompt.Blur()
	return m, m.setFocus(m.focus)
}

func (m mainModel) updatePrompt(msg tea.KeyMsg) (mainModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		log.Debug("save cancelled")
		return m.closePrompt()
	case "enter":
		dest := utils.AudioPath(m.prompt.Value())
		u := m.pending
		m, cmd := m.closePrompt()
		if dest != "" {
			m.saving = true
		}
		return m, tea.Batch(cmd, saveCmd(m.common.ctrl, u, dest))
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m mainModel) adjust(delta int) mainModel {
	switch m.focus {
	case focusRate:
		m.rate = speech.ClampRate(m.rate + delta*speech.RateStep)
	case focusVoice:
		if n := len(m.common.cfg.Voices); n > 0 {
			m.voice = (m.voice + delta + n) % n
		}
	}
	return m
}

func (m mainModel) update(msg tea.Msg) (mainModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.dialog != nil {
			m.dialog = nil
			return m, nil
		}
		if m.prompting {
			return m.updatePrompt(msg)
		}

		switch msg.String() {
		case "ctrl+s":
			return m.speak()
		case "ctrl+x":
			return m.stop()
		case "ctrl+o":
			return m.save()
		case "ctrl+r":
			if m.controls().Reset {
				m.resetInput()
			}
			return m, nil
		case "f1", "ctrl+g":
			m.dialog = helpDialog(m.common.cfg.GlamourStyle, m.common.width)
			return m, nil
		case "ctrl+v":
			return m, pasteCmd
		case "tab":
			return m, m.setFocus(m.focus + 1)
		case "shift+tab":
			return m, m.setFocus(m.focus - 1)
		case "left", "h":
			if m.focus != focusInput {
				return m.adjust(-1), nil
			}
		case "right", "l":
			if m.focus != focusInput {
				return m.adjust(1), nil
			}
		}

	case speakDoneMsg:
		if msg.err != nil {
			m.showError(msg.err)
		}
		return m, nil

	case savedMsg:
		m.saving = false
		switch {
		case msg.err != nil:
			m.showError(msg.err)
		case msg.path != "":
			m.dialog = infoDialog(fmt.Sprintf("Audio file saved successfully!\n\n%s (%s)",
				msg.path, humanize.Bytes(uint64(max(msg.size, 0)))))
		}
		return m, nil

	case pastedMsg:
		m.input.InsertString(string(msg))
		return m, m.setFocus(focusInput)

	case errMsg:
		m.showError(msg.err)
		return m, nil

	case spinner.TickMsg:
		if m.common.ctrl.State() != speech.StateSpeaking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.focus != focusInput {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m mainModel) view() string {
	width, height := m.common.width, m.common.height
	if m.dialog != nil {
		return m.dialog.view(width, height)
	}

	w := min(max(width, 20), maxWidth)
	controls := m.controls()

	var status string
	switch {
	case m.common.ctrl.State() == speech.StateSpeaking:
		status = m.spinner.View() + " Speaking..."
	case m.saving:
		status = "Saving..."
	default:
		status = subtleStyle("Ready")
	}
	header := logoStyle.Render("sayit") + "  " + statusStyle.Render(status)

	sections := []string{
		truncate.StringWithTail(header, uint(w), ellipsis), //nolint:gosec
		inputBoxStyle.Render(m.input.View()),
		m.rateView(),
		m.voiceView(),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top,
			button("Speak", "^S", controls.Speak && !m.saving),
			button("Stop", "^X", controls.Stop),
			button("Save", "^O", controls.Save && !m.saving),
			button("Reset", "^R", controls.Reset),
			button("Help", "F1", true),
		),
	}
	if m.prompting {
		sections = append(sections, "", m.prompt.View(), subtleStyle("enter save • esc cancel"))
	} else {
		sections = append(sections, "", subtleStyle("tab focus • ←/→ adjust • ^V paste • ^C quit"))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m mainModel) label(s string, f focus) string {
	if m.focus == f && !m.prompting {
		return labelStyle.Foreground(fuchsia).Render(s)
	}
	return labelStyle.Render(s)
}

func (m mainModel) rateView() string {
	pos := (m.rate - speech.MinRate) * (sliderWidth - 1) / (speech.MaxRate - speech.MinRate)
	bar := strings.Repeat("━", pos) + "●" + strings.Repeat("─", sliderWidth-1-pos)
	style := blurredStyle
	if m.focus == focusRate {
		style = focusedStyle
	}
	return m.label("Rate", focusRate) + style.Render(bar) + fmt.Sprintf(" %d wpm", m.rate)
}

func (m mainModel) voiceView() string {
	v := "‹ " + m.voiceName() + " ›"
	if m.focus == focusVoice {
		return m.label("Voice", focusVoice) + focusedStyle.Render(v)
	}
	return m.label("Voice", focusVoice) + blurredStyle.Render(v)
}

func button(name, key string, enabled bool) string {
	s := name + " " + key
	if !enabled {
		return disabledButtonStyle.Render(s)
	}
	return buttonStyle.Render(s)
}
