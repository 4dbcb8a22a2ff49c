package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testVoices = []Voice{
	{ID: "alex", Name: "Alex (Male)"},
	{ID: "victoria", Name: "Victoria (Female)"},
	{ID: "fred", Name: "Fred (Male)"},
}

func TestSelectVoice(t *testing.T) {
	tests := []struct {
		keyword string
		wantID  string
		found   bool
	}{
		{"female", "victoria", true},
		{"FEMALE", "victoria", true},
		{"Female", "victoria", true},
		{"male", "alex", true}, // first match in engine order wins
		{"fred", "fred", true},
		{"robot", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			v, ok := SelectVoice(testVoices, tt.keyword)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.wantID, v.ID)
		})
	}
}

func TestVoiceMapResolvesOnce(t *testing.T) {
	voices := append([]Voice(nil), testVoices...)
	m := NewVoiceMap(voices, DefaultVoices...)

	// mutating the caller's slice must not change resolution
	voices[1].Name = "Somebody else"

	id, ok := m.Lookup("Female")
	assert.True(t, ok)
	assert.Equal(t, "victoria", id)

	id, ok = m.Lookup("robot")
	assert.False(t, ok)
	assert.Empty(t, id)

	id, ok = m.Lookup("ROBOT")
	assert.False(t, ok, "misses are remembered too")
	assert.Empty(t, id)

	assert.Len(t, m.Voices(), 3)
}

func TestVoiceMapCategoriesMatchWholeWords(t *testing.T) {
	femaleFirst := []Voice{
		{ID: "victoria", Name: "Victoria (Female)"},
		{ID: "alex", Name: "Alex (Male)"},
	}
	m := NewVoiceMap(femaleFirst, DefaultVoices...)

	id, ok := m.Lookup(VoiceMale)
	assert.True(t, ok)
	assert.Equal(t, "alex", id)

	id, ok = m.Lookup("female")
	assert.True(t, ok)
	assert.Equal(t, "victoria", id)

	// plain keywords keep substring semantics
	id, ok = m.Lookup("ale")
	assert.True(t, ok)
	assert.Equal(t, "victoria", id)

	v, ok := SelectVoice(femaleFirst, VoiceMale)
	assert.True(t, ok)
	assert.Equal(t, "victoria", v.ID)
}

func TestVoiceMapCategoryFallsBackToSubstring(t *testing.T) {
	m := NewVoiceMap([]Voice{
		{ID: "zira", Name: "Microsoft Zira Desktop - English (United States) Females"},
	}, VoiceFemale)

	id, ok := m.Lookup(VoiceFemale)
	assert.True(t, ok)
	assert.Equal(t, "zira", id)
}

func TestControlsFor(t *testing.T) {
	assert.Equal(t, Controls{Speak: true, Save: true, Reset: true}, ControlsFor(StateIdle))
	assert.Equal(t, Controls{Stop: true}, ControlsFor(StateSpeaking))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "speaking", StateSpeaking.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestNewUtterance(t *testing.T) {
	u, err := NewUtterance("\n  Hello world \t", 300, "Male")
	assert.NoError(t, err)
	assert.Equal(t, "Hello world", u.Text)
	assert.Equal(t, 300, u.Rate)
	assert.NotEmpty(t, u.ID)

	_, err = NewUtterance(" \n", 150, "Male")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestClampRate(t *testing.T) {
	assert.Equal(t, MinRate, ClampRate(0))
	assert.Equal(t, MinRate, ClampRate(MinRate))
	assert.Equal(t, 175, ClampRate(175))
	assert.Equal(t, MaxRate, ClampRate(MaxRate))
	assert.Equal(t, MaxRate, ClampRate(1000))
}

func TestEngineErrorFormatting(t *testing.T) {
	assert.Equal(t, "engine speak failed", NewEngineError(OpSpeak, nil).Error())
	assert.False(t, IsEngineError(ErrEmptyInput))
}
