package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
)

func getLogFilePath() (string, error) {
	dir, err := gap.NewScope(gap.User, "sayit").CacheDir()
	if err != nil {
		return "", err //nolint:wrapcheck
	}
	return filepath.Join(dir, "sayit.log"), nil
}

// setupLog sends log output to the cache dir log file. Nothing is logged to
// the terminal, which belongs to the TUI.
func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)

	logFile, err := getLogFilePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil { //nolint:gosec
		return nil, err //nolint:wrapcheck
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	log.SetOutput(f)
	log.SetReportTimestamp(true)
	log.SetLevel(log.InfoLevel)
	if os.Getenv("SAYIT_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}
	return f.Close, nil
}
