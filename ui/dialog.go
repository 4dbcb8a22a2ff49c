package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/reflow/wordwrap"
	"github.com/sayit-app/sayit/utils"
)

type dialogKind int

const (
	dialogInfo dialogKind = iota
	dialogWarning
	dialogError
	dialogHelp
)

func (k dialogKind) String() string {
	return [...]string{"Info", "Warning", "Error", "Help"}[k]
}

func (k dialogKind) color() lipgloss.TerminalColor {
	switch k {
	case dialogWarning:
		return yellowRed
	case dialogError:
		return red
	case dialogHelp:
		return fuchsia
	default:
		return green
	}
}

// dialog is a modal message box. Any key dismisses it.
type dialog struct {
	kind  dialogKind
	title string
	body  string
}

func infoDialog(body string) *dialog {
	return &dialog{kind: dialogInfo, title: "Info", body: body}
}

func warningDialog(body string) *dialog {
	return &dialog{kind: dialogWarning, title: "Warning", body: body}
}

func errorDialog(err error) *dialog {
	return &dialog{kind: dialogError, title: "Error", body: fmt.Sprintf("An error occurred: %v", err)}
}

func (d *dialog) view(width, height int) string {
	w := min(max(width-8, 20), 64)

	body := d.body
	if d.kind != dialogHelp {
		body = wordwrap.String(body, w)
	}

	box := dialogStyle.
		BorderForeground(d.kind.color()).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			dialogTitleStyle.Foreground(d.kind.color()).Render(d.title),
			body,
			"",
			subtleStyle("press any key to close"),
		))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

const helpMarkdown = `# sayit

Type or paste text, pick a rate and a voice, then have it read aloud or
written to a WAV file.

| Key | Action |
|-----|--------|
| ` + "`ctrl+s`" + ` | speak the text |
| ` + "`ctrl+x`" + ` | stop speaking |
| ` + "`ctrl+o`" + ` | save the speech to a file |
| ` + "`ctrl+r`" + ` | clear the text |
| ` + "`ctrl+v`" + ` | paste from the clipboard |
| ` + "`tab`" + ` | move between text, rate and voice |
| ` + "`←/→`" + ` | change the rate or voice |
| ` + "`f1`" + ` | this help |
| ` + "`ctrl+c`" + ` | quit |

The rate is in words per minute, from 50 to 300. While speaking only
**stop** is available.
`

// glamourStyle accepts a standard style name or a JSON style path.
func glamourStyle(style string) glamour.TermRendererOption {
	if styles.DefaultStyles[style] != nil {
		return glamour.WithStandardStyle(style)
	}
	return glamour.WithStylePath(utils.ExpandPath(style))
}

// helpDialog renders the key reference with glamour. It falls back to the
// plain markdown if rendering fails.
func helpDialog(style string, width int) *dialog {
	body := helpMarkdown
	r, err := glamour.NewTermRenderer(
		glamourStyle(style),
		glamour.WithWordWrap(min(max(width-8, 20), 64)),
	)
	if err == nil {
		var out string
		out, err = r.Render(helpMarkdown)
		if err == nil {
			body = strings.Trim(out, "\n")
		}
	}
	if err != nil {
		log.Error("unable to render help", "error", err)
	}
	return &dialog{kind: dialogHelp, title: "Help", body: body}
}
