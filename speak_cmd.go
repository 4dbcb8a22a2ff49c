package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sayit-app/sayit/internal/speech"
	"github.com/spf13/cobra"
)

var speakCmd = &cobra.Command{
	Use:     "speak [TEXT]",
	Short:   "Speak text without the TUI",
	Long:    paragraph(fmt.Sprintf("\n%s the given text, or standard input when no text or - is given. Interrupt to stop.", keyword("Speak"))),
	Example: paragraph("sayit speak \"Hello world\"\necho Hello | sayit speak --voice female"),
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readText(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		u, err := speech.NewUtterance(text, rate, voice)
		if err != nil {
			return err //nolint:wrapcheck
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		ctrl, err := newController(ctx)
		if err != nil {
			return err
		}
		defer ctrl.Close() //nolint:errcheck

		task, err := ctrl.Speak(u)
		if err != nil {
			return err //nolint:wrapcheck
		}

		select {
		case <-task.Done():
		case <-ctx.Done():
			if ctrl.Stop() {
				fmt.Fprintln(cmd.ErrOrStderr(), "Speech has been stopped.")
			}
			<-task.Done()
		}
		if err := task.Err(); err != nil {
			log.Error("speech failed", "error", err)
			return err //nolint:wrapcheck
		}
		return nil
	},
}

// readText returns the text argument, or all of r when there is none or it
// is "-".
func readText(r io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("unable to read from reader: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}
