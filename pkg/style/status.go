package style

import (
	"fmt"

	"github.com/pterm/pterm"
)

// Status classifies a manifest rule after resolution
type Status string

const (
	StatusOK      Status = "ok"      // Rule matched at least one file
	StatusDead    Status = "dead"    // Rule (or one of its patterns) matched nothing
	StatusMissing Status = "missing" // Rule names a directory that does not exist
	StatusError   Status = "error"   // Rule could not be evaluated
)

// StatusStyle returns the appropriate pterm style for a status
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusOK:
		return pterm.NewStyle(pterm.FgGreen)
	case StatusDead:
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	case StatusMissing:
		return pterm.NewStyle(pterm.FgYellow)
	case StatusError:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// statusLabels are fixed-width so rule lines align
var statusLabels = map[Status]string{
	StatusOK:      "ok  ",
	StatusDead:    "dead",
	StatusMissing: "miss",
	StatusError:   "err ",
}

// RenderBadge renders the colored, fixed-width label for a status
func RenderBadge(status Status) string {
	label, ok := statusLabels[status]
	if !ok {
		label = fmt.Sprintf("%-4s", string(status))
	}
	return StatusStyle(status).Sprint(label)
}

// RenderRuleLine renders one manifest rule with its badge and a summary,
// for example:
//
//	ok    3: recursive-include docs *.rst  (14 files)
func RenderRuleLine(status Status, line int, directive, summary string) string {
	out := fmt.Sprintf("%s %4d: %s", RenderBadge(status), line, directive)
	if summary != "" {
		out += "  " + MutedStyle.Render("("+summary+")")
	}
	return out
}
