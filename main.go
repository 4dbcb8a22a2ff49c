// Package main provides the entry point for the sayit CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	gap "github.com/muesli/go-app-paths"
	"github.com/sayit-app/sayit/internal/cache"
	"github.com/sayit-app/sayit/internal/speech"
	"github.com/sayit-app/sayit/internal/speech/engines/espeak"
	"github.com/sayit-app/sayit/internal/speech/engines/mock"
	"github.com/sayit-app/sayit/ui"
	"github.com/sayit-app/sayit/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

const (
	engineEspeak = "espeak"
	engineMock   = "mock"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	engines = []string{engineEspeak, engineMock}

	configFile    string
	engineName    string
	rate          int
	voice         string
	language      string
	banner        string
	output        string
	style         string
	espeakBinary  string
	espeakTimeout time.Duration
	cacheSize     uint64
	cacheTTL      time.Duration
	volume        float64
	debug         bool

	rootCmd = &cobra.Command{
		Use:   "sayit",
		Short: "Turn text into speech, right in your terminal",
		Long: paragraph(
			fmt.Sprintf("\nType some text and %s, or save it to a WAV file.", keyword("hear it spoken")),
		),
		Example:          paragraph("sayit\nsayit --rate 200 --voice female\nsayit speak \"Hello world\""),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context())
		},
	}
)

// validateStyle checks if the style is a default style, if not, checks that
// the custom style exists.
func validateStyle(style string) error {
	if style != styles.AutoStyle && styles.DefaultStyles[style] == nil {
		style = utils.ExpandPath(style)
		if _, err := os.Stat(style); errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("specified style does not exist: %s", style)
		} else if err != nil {
			return fmt.Errorf("unable to stat file: %w", err)
		}
	}
	return nil
}

func validateOptions(*cobra.Command) error {
	// grab config values from Viper
	engineName = strings.ToLower(viper.GetString("engine"))
	rate = viper.GetInt("rate")
	voice = viper.GetString("voice")
	language = viper.GetString("language")
	banner = viper.GetString("banner")
	output = viper.GetString("output")
	style = viper.GetString("style")
	espeakBinary = viper.GetString("espeak.binary")
	espeakTimeout = viper.GetDuration("espeak.timeout")
	if s := viper.GetString("espeak.cache_size"); s != "" {
		n, err := humanize.ParseBytes(s)
		if err != nil {
			return fmt.Errorf("invalid espeak cache size %q: %w", s, err)
		}
		cacheSize = n
	}
	cacheTTL = viper.GetDuration("espeak.cache_ttl")
	volume = viper.GetFloat64("volume")
	debug = viper.GetBool("debug")

	if debug {
		log.SetLevel(log.DebugLevel)
	}

	if !slices.Contains(engines, engineName) {
		return fmt.Errorf("unknown engine %q: use one of %s", engineName, strings.Join(engines, ", "))
	}
	if rate < speech.MinRate || rate > speech.MaxRate {
		return fmt.Errorf("rate must be between %d and %d, got %d", speech.MinRate, speech.MaxRate, rate)
	}
	if strings.TrimSpace(voice) == "" {
		return errors.New("voice must not be empty")
	}
	if espeakTimeout < 0 {
		return fmt.Errorf("espeak timeout must not be negative, got %v", espeakTimeout)
	}
	if cacheTTL < 0 {
		return fmt.Errorf("espeak cache ttl must not be negative, got %v", cacheTTL)
	}
	if volume <= 0 || volume > 1 {
		return fmt.Errorf("volume must be greater than 0 and at most 1, got %v", volume)
	}
	return validateStyle(style)
}

func newEngine() (speech.Engine, error) {
	switch engineName {
	case engineMock:
		return mock.New(0), nil
	default:
		var c *cache.Memory
		if cacheSize > 0 {
			c = cache.NewMemory(int64(min(cacheSize, math.MaxInt64))) //nolint:gosec
		}
		e, err := espeak.New(espeak.Config{
			Binary:   espeakBinary,
			Language: language,
			Timeout:  espeakTimeout,
			Cache:    c,
			CacheTTL: cacheTTL,
			Volume:   volume,
			Logger:   log.WithPrefix("espeak"),
		})
		if err != nil {
			return nil, fmt.Errorf("unable to start speech engine: %w", err)
		}
		return e, nil
	}
}

// newController starts the configured engine. Callers must Close the
// controller.
func newController(ctx context.Context) (*speech.Controller, error) {
	engine, err := newEngine()
	if err != nil {
		return nil, err
	}

	ctrl, err := speech.NewController(ctx, engine, speech.ControllerConfig{
		Categories: speech.DefaultVoices,
		Logger:     log.WithPrefix("speech"),
	})
	if err != nil {
		_ = engine.Close()
		return nil, fmt.Errorf("unable to list voices: %w", err)
	}
	return ctrl, nil
}

func runTUI(ctx context.Context) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("sayit needs a terminal, use `sayit speak` or `sayit save` instead")
	}

	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	// use style set in env, or the configured one if unset or invalid
	if err := validateStyle(cfg.GlamourStyle); err != nil || cfg.GlamourStyle == styles.AutoStyle {
		cfg.GlamourStyle = style
	}

	cfg.Rate = rate
	cfg.Voice = voice
	cfg.Voices = speech.DefaultVoices
	cfg.Banner = banner
	cfg.Output = output

	ctrl, err := newController(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := ctrl.Close(); err != nil {
			log.Warn("unable to close speech engine", "error", err)
		}
	}()

	// Run Bubble Tea program
	if _, err := ui.NewProgram(cfg, ctrl).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringVarP(&engineName, "engine", "e", engineEspeak, "speech engine ("+strings.Join(engines, "/")+")")
	rootCmd.PersistentFlags().IntVarP(&rate, "rate", "r", speech.DefaultRate, fmt.Sprintf("speaking rate in words per minute (%d-%d)", speech.MinRate, speech.MaxRate))
	rootCmd.PersistentFlags().StringVarP(&voice, "voice", "v", speech.VoiceMale, "voice ("+strings.Join(speech.DefaultVoices, "/")+" or part of a voice name)")
	rootCmd.PersistentFlags().StringVarP(&language, "language", "l", "en", "base language for espeak voices")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug messages to the log file")
	rootCmd.Flags().StringVarP(&style, "style", "s", styles.AutoStyle, "help screen style name or JSON path")
	rootCmd.Flags().StringVar(&banner, "banner", "", "text file shown on the welcome screen")

	// Config bindings
	_ = viper.BindPFlag("engine", rootCmd.PersistentFlags().Lookup("engine"))
	_ = viper.BindPFlag("rate", rootCmd.PersistentFlags().Lookup("rate"))
	_ = viper.BindPFlag("voice", rootCmd.PersistentFlags().Lookup("voice"))
	_ = viper.BindPFlag("language", rootCmd.PersistentFlags().Lookup("language"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("style", rootCmd.Flags().Lookup("style"))
	_ = viper.BindPFlag("banner", rootCmd.Flags().Lookup("banner"))

	viper.SetDefault("engine", engineEspeak)
	viper.SetDefault("rate", speech.DefaultRate)
	viper.SetDefault("voice", speech.VoiceMale)
	viper.SetDefault("language", "en")
	viper.SetDefault("style", styles.AutoStyle)
	viper.SetDefault("output", "~/speech"+utils.AudioExt)
	viper.SetDefault("espeak.binary", "")
	viper.SetDefault("espeak.timeout", espeak.DefaultTimeout)
	viper.SetDefault("espeak.cache_size", "32MB")
	viper.SetDefault("espeak.cache_ttl", time.Hour)
	viper.SetDefault("volume", 1.0)

	rootCmd.AddCommand(configCmd, manCmd, voicesCmd, speakCmd, saveCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "sayit")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "sayit")}, dirs...)
	}

	if c := os.Getenv("SAYIT_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("sayit")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("sayit")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "sayit.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
