package speech

import (
	"slices"
	"strings"
	"sync"
	"unicode"
)

// Voice is an engine voice.
type Voice struct {
	ID   string // identifier handed back to Engine.SetVoice
	Name string // display name, e.g. "Victoria (Female)"
}

// Logical voice categories offered by the selector, in display order.
const (
	VoiceMale   = "Male"
	VoiceFemale = "Female"
)

// DefaultVoices is the selector's enumerated set. The first entry is the
// default selection.
var DefaultVoices = []string{VoiceMale, VoiceFemale}

// SelectVoice returns the first voice, in engine order, whose display name
// contains keyword ignoring case.
func SelectVoice(voices []Voice, keyword string) (Voice, bool) {
	k := strings.ToLower(keyword)
	for _, v := range voices {
		if strings.Contains(strings.ToLower(v.Name), k) {
			return v, true
		}
	}
	return Voice{}, false
}

// selectWord is SelectVoice restricted to names containing keyword as a
// whole word, so "Male" does not pick "Victoria (Female)".
func selectWord(voices []Voice, keyword string) (Voice, bool) {
	k := strings.ToLower(keyword)
	for _, v := range voices {
		words := strings.FieldsFunc(strings.ToLower(v.Name), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if slices.Contains(words, k) {
			return v, true
		}
	}
	return Voice{}, false
}

// VoiceMap resolves logical voice keywords to engine voice ids. Categories
// are resolved once up front, preferring a whole-word match on the display
// name and falling back to SelectVoice. Other keywords are resolved with
// SelectVoice on first use and remembered.
type VoiceMap struct {
	mu       sync.Mutex
	voices   []Voice
	resolved map[string]string // lowercased keyword -> id, "" for no match
}

// NewVoiceMap resolves categories against voices.
func NewVoiceMap(voices []Voice, categories ...string) *VoiceMap {
	m := &VoiceMap{
		voices:   append([]Voice(nil), voices...),
		resolved: make(map[string]string, len(categories)),
	}
	for _, c := range categories {
		v, ok := selectWord(m.voices, c)
		if !ok {
			v, _ = SelectVoice(m.voices, c)
		}
		m.resolved[strings.ToLower(c)] = v.ID
	}
	return m
}

// Lookup returns the engine voice id for keyword.
func (m *VoiceMap) Lookup(keyword string) (string, bool) {
	k := strings.ToLower(keyword)

	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.resolved[k]; ok {
		return id, id != ""
	}
	v, ok := SelectVoice(m.voices, k)
	m.resolved[k] = v.ID
	return v.ID, ok
}

// Voices returns the engine voice list the map was built from.
func (m *VoiceMap) Voices() []Voice {
	return append([]Voice(nil), m.voices...)
}
