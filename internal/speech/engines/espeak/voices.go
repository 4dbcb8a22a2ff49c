package espeak

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/sayit-app/sayit/internal/speech"
)

// defaultVoices is used when the binary lists no variants. The ids are the
// variant files shipped with every espeak install.
var defaultVoices = []speech.Voice{
	{ID: "m3", Name: "Default (Male)"},
	{ID: "f2", Name: "Default (Female)"},
}

// parseVoices reads the table printed by `espeak-ng --voices=variant`:
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  variant         --/F      Alicia             !v/Alicia
//	 5  variant         --/M      Andrea             !v/Andrea
//
// The voice id is the file name without its directory.
func parseVoices(out []byte) []speech.Voice {
	var voices []speech.Voice
	seen := make(map[string]bool)

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 5 || fields[0] == "Pty" {
			continue
		}

		id := fields[4]
		if i := strings.LastIndexByte(id, '/'); i >= 0 {
			id = id[i+1:]
		}
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		name := strings.ReplaceAll(fields[3], "_", " ")
		if g := gender(fields[2]); g != "" {
			name += " (" + g + ")"
		}
		voices = append(voices, speech.Voice{ID: id, Name: name})
	}
	return voices
}

// gender maps the Age/Gender column ("--/M", "20/F") to a display word.
func gender(col string) string {
	_, g, ok := strings.Cut(col, "/")
	if !ok {
		g = col
	}
	switch strings.ToUpper(g) {
	case "M":
		return speech.VoiceMale
	case "F":
		return speech.VoiceFemale
	default:
		return ""
	}
}
