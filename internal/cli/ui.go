package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/chronoline/pkg/dataset"
)

// out receives all status output. Commands that write an artifact to stdout
// switch it to stderr.
var out io.Writer = os.Stdout

// Colors adapt to light and dark terminal backgrounds.
var (
	accent  = lipgloss.AdaptiveColor{Light: "30", Dark: "36"}
	good    = lipgloss.AdaptiveColor{Light: "28", Dark: "35"}
	caution = lipgloss.AdaptiveColor{Light: "172", Dark: "220"}
	bad     = lipgloss.AdaptiveColor{Light: "160", Dark: "167"}
	link    = lipgloss.AdaptiveColor{Light: "25", Dark: "75"}
	strong  = lipgloss.AdaptiveColor{Light: "232", Dark: "255"}
	muted   = lipgloss.AdaptiveColor{Light: "243", Dark: "245"}
	faint   = lipgloss.AdaptiveColor{Light: "249", Dark: "240"}
)

func fg(c lipgloss.TerminalColor) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

// Styles shared with the preview and list output.
var (
	StyleLink    = fg(link).Underline(true)
	StyleDim     = fg(faint)
	StyleValue   = fg(strong)
	StyleNumber  = fg(accent)
	StyleWarning = fg(caution)

	styleKey     = fg(muted).Width(12)
	styleCommand = fg(link)
	styleSpinner = fg(accent)
	plain        = lipgloss.NewStyle()
)

// statusKind is the leading icon of a status line and its color.
type statusKind struct {
	icon  string
	style lipgloss.Style
}

var (
	kindSuccess = statusKind{"✓", fg(good)}
	kindError   = statusKind{"✗", fg(bad)}
	kindWarning = statusKind{"!", fg(caution)}
	kindInfo    = statusKind{"›", fg(muted)}
)

// status prints one status line: an icon, then the formatted message.
func status(k statusKind, msgStyle lipgloss.Style, format string, args []any) {
	fmt.Fprintln(out, k.style.Render(k.icon)+" "+msgStyle.Render(fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) { status(kindSuccess, plain, format, args) }
func printError(format string, args ...any)   { status(kindError, plain, format, args) }
func printWarning(format string, args ...any) { status(kindWarning, StyleWarning, format, args) }
func printInfo(format string, args ...any)    { status(kindInfo, plain, format, args) }

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(out, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a file that was written.
func printFile(path string) {
	fmt.Fprintln(out, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(out, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints "N persons · N placed · N rows · cached|fresh".
func printStats(persons, placed, rows int, cached bool) {
	state := fg(muted).Render("fresh")
	if cached {
		state = fg(good).Render("cached")
	}
	sep := StyleDim.Render(" · ")
	fmt.Fprintln(out, "  "+strings.Join([]string{
		StyleDim.Render(fmt.Sprintf("%d persons", persons)),
		StyleDim.Render(fmt.Sprintf("%d placed", placed)),
		StyleDim.Render(fmt.Sprintf("%d rows", rows)),
		state,
	}, sep))
}

// printWarnings prints dataset validation warnings, at most limit of them.
func printWarnings(ws []dataset.Warning, limit int) {
	for i, w := range ws {
		if i == limit {
			printDetail("... and %d more", len(ws)-limit)
			return
		}
		printWarning("%s", w)
	}
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintln(out, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(out)
}
