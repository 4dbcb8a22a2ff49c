package speech

import (
	"strings"

	"github.com/google/uuid"
)

// Rate bounds, in words per minute. Only the UI slider enforces them; the
// controller hands the value to the engine unmodified.
const (
	MinRate     = 50
	MaxRate     = 300
	DefaultRate = 150
	RateStep    = 10
)

// Utterance is one unit of text submitted for synthesis.
type Utterance struct {
	ID    string
	Text  string
	Rate  int
	Voice string
}

// NewUtterance trims text and builds a request. Text that is empty after
// trimming yields ErrEmptyInput.
func NewUtterance(text string, rate int, voice string) (Utterance, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Utterance{}, ErrEmptyInput
	}
	return Utterance{
		ID:    uuid.NewString(),
		Text:  text,
		Rate:  rate,
		Voice: voice,
	}, nil
}

// ClampRate bounds r to the slider range.
func ClampRate(r int) int {
	return min(max(r, MinRate), MaxRate)
}
