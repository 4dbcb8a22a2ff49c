package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sayit-app/sayit/internal/speech"
	"github.com/sayit-app/sayit/internal/speech/engines/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, d time.Duration) (model, *mock.Engine, *speech.Controller) {
	t.Helper()
	e := mock.New(d)
	ctrl, err := speech.NewController(context.Background(), e, speech.ControllerConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctrl.Close() })

	m := newModel(Config{GlamourStyle: "dark", Banner: filepath.Join(t.TempDir(), "missing.txt")}, ctrl)
	return m, e, ctrl
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	nm, cmd := m.Update(msg)
	out, ok := nm.(model)
	require.True(t, ok)
	return out, cmd
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd, expanding batches, and returns the messages produced
// within timeout. Commands that block longer are abandoned.
func collect(cmd tea.Cmd, timeout time.Duration) []tea.Msg {
	var (
		mu  sync.Mutex
		out []tea.Msg
		wg  sync.WaitGroup
	)
	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, b := range batch {
					run(b)
				}
				return
			}
			if msg != nil {
				mu.Lock()
				out = append(out, msg)
				mu.Unlock()
			}
		}()
	}
	run(cmd)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}

	mu.Lock()
	defer mu.Unlock()
	return append([]tea.Msg(nil), out...)
}

func find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func started(t *testing.T, d time.Duration) (model, *mock.Engine, *speech.Controller) {
	t.Helper()
	m, e, ctrl := newTestModel(t, d)
	m, _ = update(t, m, key(tea.KeyEnter))
	require.Equal(t, stateMain, m.state)
	return m, e, ctrl
}

func TestWelcomeScreen(t *testing.T) {
	m, _, _ := newTestModel(t, time.Millisecond)

	assert.Equal(t, stateWelcome, m.state)
	assert.Contains(t, m.View(), "Let's start")
	assert.Equal(t, defaultBanner, m.welcome.banner, "missing banner falls back")

	// typing on the welcome screen does nothing
	m, cmd := update(t, m, runes("x"))
	assert.Nil(t, cmd)
	assert.Equal(t, stateWelcome, m.state)

	m, _ = update(t, m, key(tea.KeyEnter))
	assert.Equal(t, stateMain, m.state)
	assert.Contains(t, m.View(), "Speak")
	assert.Contains(t, m.View(), "150 wpm")
	assert.Contains(t, m.View(), "Male")
	assert.Empty(t, m.welcome.banner, "welcome screen torn down")
}

func TestWelcomeQuit(t *testing.T) {
	m, _, _ := newTestModel(t, time.Millisecond)

	_, cmd := update(t, m, key(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSpeakEmptyInputWarns(t *testing.T) {
	m, e, ctrl := started(t, time.Millisecond)
	e.Reset()

	m.main.input.SetValue("   ")
	m, _ = update(t, m, key(tea.KeyCtrlS))

	require.NotNil(t, m.main.dialog)
	assert.Equal(t, dialogWarning, m.main.dialog.kind)
	assert.Contains(t, m.View(), "Please enter some text!")
	assert.Equal(t, speech.StateIdle, ctrl.State())
	assert.Empty(t, e.Calls())

	m, _ = update(t, m, runes("a"))
	assert.Nil(t, m.main.dialog, "any key dismisses")
	assert.Equal(t, "   ", m.main.input.Value(), "dismissing key is not typed")
}

func TestSpeakAndStop(t *testing.T) {
	m, e, ctrl := started(t, time.Minute)

	m.main.input.SetValue("Hello world")
	m, cmd := update(t, m, key(tea.KeyCtrlS))
	require.NotNil(t, cmd)
	assert.Equal(t, speech.StateSpeaking, ctrl.State())
	assert.Contains(t, m.View(), "Speaking")

	// speak is disabled while speaking
	m, cmd = update(t, m, key(tea.KeyCtrlS))
	assert.Nil(t, cmd)
	assert.Nil(t, m.main.dialog)

	require.Eventually(t, func() bool {
		return indexOf(e.Calls(), "Speak(Hello world)") != -1
	}, 2*time.Second, time.Millisecond)

	m, _ = update(t, m, key(tea.KeyCtrlX))
	require.NotNil(t, m.main.dialog)
	assert.Equal(t, "Speech has been stopped.", m.main.dialog.body)
	assert.Equal(t, speech.StateIdle, ctrl.State())

	m, _ = update(t, m, runes("a"))
	m, _ = update(t, m, key(tea.KeyCtrlX))
	assert.Nil(t, m.main.dialog, "stop while idle is silent")
}

func TestSpeakFailureShowsError(t *testing.T) {
	m, e, ctrl := started(t, time.Millisecond)
	e.SetFailure(speech.OpSpeak, errors.New("no audio device"))

	m.main.input.SetValue("hi")
	m, cmd := update(t, m, key(tea.KeyCtrlS))

	done, ok := find[speakDoneMsg](collect(cmd, time.Second))
	require.True(t, ok)
	m, _ = update(t, m, done)

	require.NotNil(t, m.main.dialog)
	assert.Equal(t, dialogError, m.main.dialog.kind)
	assert.Contains(t, m.main.dialog.body, "An error occurred")
	assert.Contains(t, m.main.dialog.body, "no audio device")
	assert.Equal(t, speech.StateIdle, ctrl.State())
}

func TestSave(t *testing.T) {
	m, e, _ := started(t, time.Millisecond)
	e.Reset()
	dest := filepath.Join(t.TempDir(), "hello")

	m.main.input.SetValue("Hello world")
	m, _ = update(t, m, key(tea.KeyCtrlO))
	require.True(t, m.main.prompting)
	assert.Contains(t, m.View(), "Save as")

	m.main.prompt.SetValue(dest)
	m, cmd := update(t, m, key(tea.KeyEnter))
	assert.False(t, m.main.prompting)
	assert.True(t, m.main.saving)

	saved, ok := find[savedMsg](collect(cmd, time.Second))
	require.True(t, ok)
	require.NoError(t, saved.err)
	assert.Equal(t, dest+".wav", saved.path)
	assert.Positive(t, saved.size)

	m, _ = update(t, m, saved)
	assert.False(t, m.main.saving)
	require.NotNil(t, m.main.dialog)
	assert.Contains(t, m.main.dialog.body, "Audio file saved successfully!")

	_, err := os.Stat(dest + ".wav")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"SetRate(150)",
		"SetVoice(voice-alex)",
		"SaveToFile(Hello world, " + dest + ".wav)",
	}, e.Calls())
}

func TestSpeakAndStopIgnoredWhileSaving(t *testing.T) {
	m, e, ctrl := started(t, time.Minute)
	e.Reset()
	dest := filepath.Join(t.TempDir(), "hello.wav")

	m.main.input.SetValue("Hello world")
	m, _ = update(t, m, key(tea.KeyCtrlO))
	m.main.prompt.SetValue(dest)
	m, writing := update(t, m, key(tea.KeyEnter))
	require.True(t, m.main.saving)
	assert.Contains(t, m.View(), "Saving...")

	m, cmd := update(t, m, key(tea.KeyCtrlS))
	assert.Nil(t, cmd)
	assert.Equal(t, speech.StateIdle, ctrl.State())

	m, _ = update(t, m, key(tea.KeyCtrlX))
	assert.Nil(t, m.main.dialog)

	saved, ok := find[savedMsg](collect(writing, time.Second))
	require.True(t, ok)
	require.NoError(t, saved.err)
	m, _ = update(t, m, saved)
	assert.False(t, m.main.saving)
	assert.Equal(t, -1, indexOf(e.Calls(), "Speak(Hello world)"))
	assert.Equal(t, -1, indexOf(e.Calls(), "Stop()"))

	// speaking is available again once the file is written
	m, _ = update(t, m, key(tea.KeyEsc))
	_, cmd = update(t, m, key(tea.KeyCtrlS))
	assert.NotNil(t, cmd)
	assert.Equal(t, speech.StateSpeaking, ctrl.State())
}

func TestSaveCancelled(t *testing.T) {
	m, e, _ := started(t, time.Millisecond)
	e.Reset()

	m.main.input.SetValue("Hello world")
	m, _ = update(t, m, key(tea.KeyCtrlO))
	m, _ = update(t, m, key(tea.KeyEsc))
	assert.False(t, m.main.prompting)
	assert.Nil(t, m.main.dialog)

	// an empty destination is a cancel too
	m, _ = update(t, m, key(tea.KeyCtrlO))
	m.main.prompt.SetValue("  ")
	m, cmd := update(t, m, key(tea.KeyEnter))
	saved, ok := find[savedMsg](collect(cmd, time.Second))
	require.True(t, ok)
	m, _ = update(t, m, saved)

	assert.Nil(t, m.main.dialog)
	assert.Empty(t, e.Calls())
}

func TestSaveEmptyInputWarns(t *testing.T) {
	m, _, _ := started(t, time.Millisecond)

	m, _ = update(t, m, key(tea.KeyCtrlO))
	assert.False(t, m.main.prompting)
	require.NotNil(t, m.main.dialog)
	assert.Equal(t, dialogWarning, m.main.dialog.kind)
}

func TestResetClearsInput(t *testing.T) {
	m, _, _ := started(t, time.Millisecond)

	m.main.input.SetValue("some text")
	m, _ = update(t, m, key(tea.KeyCtrlR))
	assert.Empty(t, m.main.input.Value())

	m, _ = update(t, m, key(tea.KeyCtrlR))
	assert.Empty(t, m.main.input.Value())
}

func TestRateAndVoice(t *testing.T) {
	m, e, _ := started(t, time.Millisecond)

	m, _ = update(t, m, key(tea.KeyTab))
	assert.Equal(t, focusRate, m.main.focus)
	for range 20 {
		m, _ = update(t, m, key(tea.KeyRight))
	}
	assert.Equal(t, speech.MaxRate, m.main.rate)
	assert.Contains(t, m.View(), "300 wpm")

	for range 30 {
		m, _ = update(t, m, key(tea.KeyLeft))
	}
	assert.Equal(t, speech.MinRate, m.main.rate)

	m, _ = update(t, m, key(tea.KeyTab))
	assert.Equal(t, focusVoice, m.main.focus)
	m, _ = update(t, m, key(tea.KeyRight))
	assert.Equal(t, "Female", m.main.voiceName())
	m, _ = update(t, m, key(tea.KeyRight))
	assert.Equal(t, "Male", m.main.voiceName())
	m, _ = update(t, m, key(tea.KeyLeft))
	assert.Equal(t, "Female", m.main.voiceName())

	m, _ = update(t, m, key(tea.KeyTab))
	assert.Equal(t, focusInput, m.main.focus)

	m.main.input.SetValue("hi")
	m, cmd := update(t, m, key(tea.KeyCtrlS))
	_, ok := find[speakDoneMsg](collect(cmd, time.Second))
	require.True(t, ok)
	assert.Equal(t, speech.MinRate, e.Rate())
	assert.Equal(t, "voice-victoria", e.CurrentVoice())
}

func TestHelpDialog(t *testing.T) {
	m, _, _ := started(t, time.Millisecond)

	for _, k := range []tea.KeyType{tea.KeyF1, tea.KeyCtrlG} {
		m, _ = update(t, m, key(k))
		require.NotNil(t, m.main.dialog)
		assert.Equal(t, dialogHelp, m.main.dialog.kind)
		assert.Contains(t, m.View(), "Help")

		m, _ = update(t, m, key(tea.KeyEnter))
		assert.Nil(t, m.main.dialog)
	}
}

func TestPaste(t *testing.T) {
	m, _, _ := started(t, time.Millisecond)

	m, _ = update(t, m, key(tea.KeyTab))
	m, _ = update(t, m, pastedMsg("from clipboard"))
	assert.Equal(t, "from clipboard", m.main.input.Value())
	assert.Equal(t, focusInput, m.main.focus)

	m, _ = update(t, m, errMsg{errors.New("no clipboard")})
	require.NotNil(t, m.main.dialog)
	assert.Equal(t, dialogError, m.main.dialog.kind)
}

func TestQuitStopsSpeech(t *testing.T) {
	m, _, ctrl := started(t, time.Minute)

	m.main.input.SetValue("a long text")
	m, _ = update(t, m, key(tea.KeyCtrlS))
	require.Equal(t, speech.StateSpeaking, ctrl.State())

	_, cmd := update(t, m, key(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, speech.StateIdle, ctrl.State())
}

func TestStateMessagesRearm(t *testing.T) {
	m, _, _ := started(t, time.Millisecond)

	m.main.input.SetValue("hi")
	m, _ = update(t, m, key(tea.KeyCtrlS))

	msg, ok := find[stateMsg](collect(waitForState(m.common.states), time.Second))
	require.True(t, ok)
	assert.Equal(t, speech.StateSpeaking, speech.State(msg))

	_, cmd := update(t, m, msg)
	assert.NotNil(t, cmd)
}

func TestWindowResize(t *testing.T) {
	m, _, _ := started(t, time.Millisecond)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 20})
	narrow := m.main.input.Width()

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.common.width)
	assert.Greater(t, m.main.input.Width(), narrow)
}

func TestLoadBanner(t *testing.T) {
	_, err := loadBanner("")
	assert.ErrorIs(t, err, ErrAssetMissing)

	_, err = loadBanner(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, ErrAssetMissing)

	path := filepath.Join(t.TempDir(), "banner.txt")
	require.NoError(t, os.WriteFile(path, []byte("HELLO\n"), 0o600))
	s, err := loadBanner(path)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", s)

	assert.Equal(t, "HELLO", newWelcomeModel(Config{Banner: path}).banner)
}

func TestSkipWelcome(t *testing.T) {
	e := mock.New(time.Millisecond)
	ctrl, err := speech.NewController(context.Background(), e, speech.ControllerConfig{})
	require.NoError(t, err)

	m := newModel(Config{GlamourStyle: "dark", SkipWelcome: true, Rate: 500, Voice: "female"}, ctrl)
	assert.Equal(t, stateMain, m.state)
	assert.Equal(t, speech.MaxRate, m.main.rate)
	assert.Equal(t, "Female", m.main.voiceName())
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
