package ui

import "github.com/charmbracelet/lipgloss"

var (
	normalFg = lipgloss.AdaptiveColor{Light: "235", Dark: "252"}
	faintFg  = lipgloss.AdaptiveColor{Light: "250", Dark: "240"}
	subtleFg = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}

	fuchsia   = lipgloss.Color("#EE6FF8")
	green     = lipgloss.Color("#04B575")
	yellowRed = lipgloss.AdaptiveColor{Light: "#FF5F00", Dark: "#FFAF00"}
	red       = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}
	cream     = lipgloss.AdaptiveColor{Light: "#FFFDF5", Dark: "#FFFDF5"}

	logoStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(fuchsia).
			Bold(true).
			Padding(0, 1)

	bannerStyle = lipgloss.NewStyle().Foreground(fuchsia)

	subtleStyle = lipgloss.NewStyle().Foreground(subtleFg).Render
	labelStyle  = lipgloss.NewStyle().Foreground(normalFg).Bold(true).Width(8)

	focusedStyle = lipgloss.NewStyle().Foreground(fuchsia).Bold(true)
	blurredStyle = lipgloss.NewStyle().Foreground(normalFg)

	buttonStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(lipgloss.Color("#6124DF")).
			Padding(0, 2).
			MarginRight(1)

	disabledButtonStyle = buttonStyle.
				Foreground(faintFg).
				Background(lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#303030"})

	statusStyle   = lipgloss.NewStyle().Foreground(green)
	spinnerStyle  = lipgloss.NewStyle().Foreground(fuchsia)
	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtleFg).
			Padding(0, 1)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)

	dialogTitleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
)
