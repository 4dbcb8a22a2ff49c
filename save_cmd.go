package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/sayit-app/sayit/internal/speech"
	"github.com/sayit-app/sayit/utils"
	"github.com/spf13/cobra"
)

var saveOutput string

var saveCmd = &cobra.Command{
	Use:     "save [TEXT]",
	Short:   "Save speech to a WAV file without the TUI",
	Long:    paragraph(fmt.Sprintf("\n%s the spoken text to a WAV file. Text is read from standard input when no text or - is given.", keyword("Save"))),
	Example: paragraph("sayit save \"Hello world\" -o hello.wav\ncat notes.txt | sayit save -o ~/notes"),
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

		dest := utils.AudioPath(saveOutput)
		if dest == "" {
			dest = utils.AudioPath(output)
		}
		if dest == "" {
			return errors.New("no destination: use --output")
		}

		ctrl, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		defer ctrl.Close() //nolint:errcheck

		if err := ctrl.Save(cmd.Context(), u, dest); err != nil {
			return err //nolint:wrapcheck
		}

		info, err := os.Stat(dest)
		if err != nil {
			return fmt.Errorf("unable to stat file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Audio file saved successfully: %s (%s)\n",
			dest, humanize.Bytes(uint64(info.Size()))) //nolint:gosec
		return nil
	},
}

func init() {
	saveCmd.Flags().StringVarP(&saveOutput, "output", "o", "", "destination file (.wav is added when missing)")
}
