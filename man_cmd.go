package main

import (
	"fmt"

	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
)

var manCmd = &cobra.Command{
	Use:                   "man",
	Short:                 "Generates manpages",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Hidden:                true,
	Args:                  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		manPage, err := mcobra.NewManPage(1, rootCmd)
		if err != nil {
			return err //nolint:wrapcheck
		}

		manPage = manPage.WithSection("Files",
			"Configuration is read from sayit.yml in the user config directory, "+
				"$XDG_CONFIG_HOME/sayit or $SAYIT_CONFIG_HOME.\n"+
				"Logs are written to sayit.log in the user cache directory.")
		manPage = manPage.WithSection("Requirements",
			"Speech is synthesized with espeak-ng (or espeak), which must be on PATH.")
		fmt.Println(manPage.Build(roff.NewDocument()))
		return nil
	},
}
