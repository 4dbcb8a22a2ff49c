// Package utils provides small path helpers shared by the CLI and the UI.
package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// AudioExt is the only container format sayit writes.
const AudioExt = ".wav"

// ExpandPath expands tilde and all environment variables from the given path.
func ExpandPath(path string) string {
	s, err := homedir.Expand(path)
	if err == nil {
		return os.ExpandEnv(s)
	}
	return os.ExpandEnv(path)
}

// AudioPath normalizes a user supplied destination: surrounding whitespace is
// dropped, ~ and env vars are expanded and the .wav extension is enforced.
// An empty input stays empty, which callers treat as a cancelled selection.
func AudioPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	path = ExpandPath(path)
	if !strings.EqualFold(filepath.Ext(path), AudioExt) {
		path += AudioExt
	}
	return path
}
