package style

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// Enable configures global color output according to policy and reports
// whether colors are on. Policy is "auto", "always" or "never"; "auto"
// honors NO_COLOR and disables colors when w is not a terminal.
func Enable(policy string, w io.Writer) bool {
	switch policy {
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
		pterm.EnableColor()
		return true
	case "never":
		disable()
		return false
	default:
		if !detectColor(w) {
			disable()
			return false
		}
		return true
	}
}

func disable() {
	lipgloss.SetColorProfile(termenv.Ascii)
	pterm.DisableColor()
}

// detectColor determines whether colored output is appropriate for w
func detectColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	// Piped or redirected output gets no colors
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}

	return termenv.ColorProfile() != termenv.Ascii
}
