package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sahilm/fuzzy"
	"github.com/sayit-app/sayit/internal/speech"
	"github.com/spf13/cobra"
)

var voicesCmd = &cobra.Command{
	Use:     "voices [QUERY]",
	Short:   "List the voices of the speech engine",
	Long:    paragraph(fmt.Sprintf("\n%s the voices the speech engine offers, best matches first when a query is given.", keyword("List"))),
	Example: paragraph("sayit voices\nsayit voices fem"),
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		defer ctrl.Close() //nolint:errcheck

		voices := ctrl.Voices()
		if len(args) == 1 {
			voices = rankVoices(voices, args[0])
			if len(voices) == 0 {
				return fmt.Errorf("no voice matches %q", args[0])
			}
		}

		resolved := make(map[string]string)
		for _, c := range speech.DefaultVoices {
			if id, ok := ctrl.ResolveVoice(c); ok {
				resolved[id] = c
			}
		}
		return printVoices(cmd.OutOrStdout(), voices, resolved)
	},
}

// rankVoices orders voices by how well their name or id matches query.
// Voices that don't match at all are left out.
func rankVoices(voices []speech.Voice, query string) []speech.Voice {
	names := make([]string, len(voices))
	for i, v := range voices {
		names[i] = v.Name + " " + v.ID
	}

	matches := fuzzy.Find(query, names)
	out := make([]speech.Voice, 0, len(matches))
	for _, m := range matches {
		out = append(out, voices[m.Index])
	}
	return out
}

// printVoices writes one voice per line, marking the voices the selector
// categories resolve to.
func printVoices(w io.Writer, voices []speech.Voice, resolved map[string]string) error {
	cell := lipgloss.NewStyle().PaddingRight(2)
	t := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(_, _ int) lipgloss.Style { return cell })

	for _, v := range voices {
		mark := ""
		if c, ok := resolved[v.ID]; ok {
			mark = keyword("← " + c)
		}
		t.Row(v.ID, v.Name, mark)
	}
	if len(voices) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return fmt.Errorf("unable to write voices: %w", err)
	}
	return nil
}
