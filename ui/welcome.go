package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/sayit-app/sayit/utils"
)

// ErrAssetMissing is returned when a decorative asset cannot be loaded. It
// never stops the program.
var ErrAssetMissing = errors.New("decorative asset missing")

const defaultBanner = `  ___  __ _ _  _ (_) |_
 (_-< / _' | || || |  _|
 /__/ \__,_|\_, ||_|\__|
            |__/`

// loadBanner reads the banner text file at path.
func loadBanner(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: no banner configured", ErrAssetMissing)
	}
	b, err := os.ReadFile(utils.ExpandPath(path))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAssetMissing, err)
	}
	s := strings.TrimRight(string(b), "\n")
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrAssetMissing, path)
	}
	return s, nil
}

type welcomeModel struct {
	banner string
}

func newWelcomeModel(cfg Config) welcomeModel {
	banner, err := loadBanner(cfg.Banner)
	if err != nil {
		log.Debug("using built-in banner", "error", err)
		banner = defaultBanner
	}
	return welcomeModel{banner: banner}
}

func (m welcomeModel) view(width, height int) string {
	s := lipgloss.JoinVertical(lipgloss.Center,
		bannerStyle.Render(m.banner),
		"",
		logoStyle.Render("Welcome to sayit"),
		"",
		"Turn your text into speech.",
		"",
		buttonStyle.Render("Let's start"),
		"",
		subtleStyle("enter start • esc quit"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s)
}
