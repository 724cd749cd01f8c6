package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Adaptive colors for CLI output.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Semantic styles for CLI output.
var (
	stylePath     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleTime     = lipgloss.NewStyle().Foreground(colorDim)
	styleDesc     = lipgloss.NewStyle().Foreground(colorWhite)
	styleSuccess  = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning  = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	stylePlatform = lipgloss.NewStyle().Foreground(colorGreen)
)

// stdoutIsTerminal reports whether stdout is a TTY. Styled output is only
// used interactively; pipes get plain tab-separated lines.
func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
