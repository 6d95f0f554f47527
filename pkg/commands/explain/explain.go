// Package explain implements the explain command: trace how the rule
// set treats specific paths, rule by rule.
package explain

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/packlist/packlist/pkg/commands/resolve"
	"github.com/packlist/packlist/pkg/config"
	"github.com/packlist/packlist/pkg/errors"
	"github.com/packlist/packlist/pkg/logging"
	"github.com/packlist/packlist/pkg/resolver"
	"github.com/packlist/packlist/pkg/style"
	"github.com/packlist/packlist/pkg/types"
)

// Options defines the options for the Explain command.
type Options struct {
	// Root is the project root directory.
	Root string
	// ManifestPath overrides the manifest location.
	ManifestPath string
	// Config overrides the loaded configuration.
	Config *config.Config
	// FS overrides the filesystem.
	FS types.FS
	// Paths are the relative paths to explain. At least one is required.
	Paths []string
}

// Entry is the explanation for one path.
type Entry struct {
	Path string `json:"path" yaml:"path"`
	// Decisions holds one verdict per rule, in manifest order.
	Decisions []resolver.Decision `json:"decisions" yaml:"decisions"`
	// Included is the rule set's verdict for the path.
	Included bool `json:"included" yaml:"included"`
	// Exists reports whether the path is a regular file under the root.
	Exists bool `json:"exists" yaml:"exists"`
}

// Report is the output of the Explain command.
type Report struct {
	Root     string  `json:"root" yaml:"root"`
	Manifest string  `json:"manifest" yaml:"manifest"`
	Entries  []Entry `json:"entries" yaml:"entries"`
}

// Explain traces every requested path through the rule set. Paths do
// not have to exist; the report says whether each one does.
func Explain(opts Options) (*Report, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Explain").
		Int("paths", len(opts.Paths)).
		Msg("Executing command")

	if len(opts.Paths) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no paths to explain")
	}

	root, cfg, fsys, rules, err := resolve.Load(resolve.Options{
		Root:         opts.Root,
		ManifestPath: opts.ManifestPath,
		Config:       opts.Config,
		FS:           opts.FS,
	})
	if err != nil {
		return nil, err
	}
	matchOpts, err := cfg.MatchOptions()
	if err != nil {
		return nil, err
	}

	report := &Report{Root: root, Manifest: rules.Source}
	for _, p := range opts.Paths {
		trace, err := resolver.TracePath(p, rules, resolver.Options{Match: matchOpts})
		if err != nil {
			return nil, err
		}

		report.Entries = append(report.Entries, Entry{
			Path:      trace.Path,
			Decisions: trace.Decisions,
			Included:  trace.Included,
			Exists:    isFile(fsys, filepath.Join(root, filepath.FromSlash(trace.Path))),
		})
	}

	log.Info().Str("command", "Explain").
		Int("entries", len(report.Entries)).
		Msg("Command finished")
	return report, nil
}

func isFile(fsys types.FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && !info.IsDir()
}

// RenderText writes one block per path: every rule's verdict, then the
// final outcome.
func (r *Report) RenderText(w io.Writer) error {
	for i, entry := range r.Entries {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := renderEntry(w, entry); err != nil {
			return err
		}
	}
	return nil
}

func renderEntry(w io.Writer, entry Entry) error {
	if _, err := fmt.Fprintf(w, "%s\n", style.TitleStyle.Render(entry.Path)); err != nil {
		return err
	}

	for _, d := range entry.Decisions {
		marker := style.MutedStyle.Render("-")
		if d.Matched {
			if d.Inclusion {
				marker = style.IncludeStyle.Render("+")
			} else {
				marker = style.ExcludeStyle.Render("x")
			}
		}
		if _, err := fmt.Fprintf(w, "  %s %4d: %s\n", marker, d.Line, d.Rule); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "  => %s\n", verdictLine(entry))
	return err
}

func verdictLine(entry Entry) string {
	switch {
	case entry.Included && entry.Exists:
		return style.SuccessStyle.Render("included")
	case entry.Included:
		return style.WarningStyle.Render("would be included, but no such file exists")
	default:
		if line := lastExclusion(entry.Decisions); line > 0 {
			return style.ErrorStyle.Render(fmt.Sprintf("excluded by line %d", line))
		}
		return style.MutedStyle.Render("not matched by any inclusion rule")
	}
}

// lastExclusion returns the line of the last exclusion rule that
// matched, or 0 if none did.
func lastExclusion(decisions []resolver.Decision) int {
	line := 0
	for _, d := range decisions {
		if d.Matched && !d.Inclusion {
			line = d.Line
		}
	}
	return line
}
