package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sayit-app/sayit/internal/speech"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testVoices = []speech.Voice{
	{ID: "alex", Name: "Alex (Male)"},
	{ID: "victoria", Name: "Victoria (Female)"},
	{ID: "fred", Name: "Fred (Male)"},
}

func TestRankVoices(t *testing.T) {
	got := rankVoices(testVoices, "vic")
	require.NotEmpty(t, got)
	assert.Equal(t, "victoria", got[0].ID)

	assert.Empty(t, rankVoices(testVoices, "zzz"))
}

func TestPrintVoices(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printVoices(&buf, testVoices, map[string]string{"victoria": "Female"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Alex (Male)")
	assert.Contains(t, lines[1], "← Female")
	assert.NotContains(t, lines[0], "←")
	assert.NotContains(t, buf.String(), "│", "no borders in plain output")

	// names line up in one column
	col := strings.Index(lines[0], "Alex (Male)")
	assert.Equal(t, col, strings.Index(lines[1], "Victoria (Female)"))
	assert.Equal(t, col, strings.Index(lines[2], "Fred (Male)"))

	buf.Reset()
	require.NoError(t, printVoices(&buf, nil, nil))
	assert.Empty(t, buf.String())
}

func TestReadText(t *testing.T) {
	s, err := readText(strings.NewReader("ignored"), []string{"Hello world"})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", s)

	s, err = readText(strings.NewReader("  from stdin\n"), []string{"-"})
	require.NoError(t, err)
	assert.Equal(t, "from stdin", s)

	s, err = readText(strings.NewReader("piped"), nil)
	require.NoError(t, err)
	assert.Equal(t, "piped", s)
}

func withConfig(t *testing.T, kv map[string]any) {
	t.Helper()
	old := map[string]any{}
	for k, v := range kv {
		old[k] = viper.Get(k)
		viper.Set(k, v)
	}
	t.Cleanup(func() {
		for k, v := range old {
			viper.Set(k, v)
		}
	})
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		config  map[string]any
		wantErr string
	}{
		{"defaults", map[string]any{"engine": "mock"}, ""},
		{"bounds", map[string]any{"engine": "mock", "rate": 300}, ""},
		{"engine", map[string]any{"engine": "festival"}, "unknown engine"},
		{"slow", map[string]any{"engine": "mock", "rate": 49}, "rate must be between"},
		{"fast", map[string]any{"engine": "mock", "rate": 301}, "rate must be between"},
		{"voice", map[string]any{"engine": "mock", "voice": " "}, "voice must not be empty"},
		{"cache", map[string]any{"engine": "mock", "espeak.cache_size": "lots"}, "invalid espeak cache size"},
		{"style", map[string]any{"engine": "mock", "style": "/no/such/style.json"}, "style does not exist"},
		{"ttl", map[string]any{"engine": "mock", "espeak.cache_ttl": "-1m"}, "cache ttl must not be negative"},
		{"mute", map[string]any{"engine": "mock", "volume": 0.0}, "volume must be greater than 0"},
		{"loud", map[string]any{"engine": "mock", "volume": 1.5}, "volume must be greater than 0"},
		{"quiet", map[string]any{"engine": "mock", "volume": 0.3}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withConfig(t, tt.config)
			err := validateOptions(rootCmd)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewControllerMock(t *testing.T) {
	withConfig(t, map[string]any{"engine": "mock"})
	require.NoError(t, validateOptions(rootCmd))

	ctrl, err := newController(context.Background())
	require.NoError(t, err)
	defer ctrl.Close() //nolint:errcheck

	id, ok := ctrl.ResolveVoice(speech.VoiceFemale)
	assert.True(t, ok)
	assert.Equal(t, "voice-victoria", id)
}
