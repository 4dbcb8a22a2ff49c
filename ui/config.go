package ui

// Config contains TUI-specific configuration.
type Config struct {
	// Initial slider and selector values.
	Rate  int
	Voice string

	// Voices are the selector entries, in display order.
	Voices []string

	// Banner is a text file shown on the welcome screen.
	Banner string

	// Output is the suggested destination in the save prompt.
	Output string

	GlamourStyle string `env:"GLAMOUR_STYLE" envDefault:"auto"`

	// For debugging the UI
	AltScreen   bool `env:"SAYIT_ALT_SCREEN"   envDefault:"true"`
	SkipWelcome bool `env:"SAYIT_SKIP_WELCOME"`
}
