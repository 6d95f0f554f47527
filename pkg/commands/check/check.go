// Package check implements the check command: lint a manifest against
// the tree it describes. It flags directives that match nothing, subtree
// directives naming missing directories, and root config files packlist
// does not understand.
package check

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/packlist/packlist/pkg/commands/resolve"
	"github.com/packlist/packlist/pkg/config"
	"github.com/packlist/packlist/pkg/filesystem"
	"github.com/packlist/packlist/pkg/logging"
	"github.com/packlist/packlist/pkg/output"
	"github.com/packlist/packlist/pkg/paths"
	"github.com/packlist/packlist/pkg/resolver"
	"github.com/packlist/packlist/pkg/style"
	"github.com/packlist/packlist/pkg/types"
)

// Options defines the options for the Check command.
type Options struct {
	// Root is the project root directory.
	Root string
	// ManifestPath overrides the manifest location.
	ManifestPath string
	// Config overrides the loaded configuration.
	Config *config.Config
	// FS overrides the filesystem.
	FS types.FS
}

// Item is the lint verdict for one manifest rule.
type Item struct {
	Status    style.Status `json:"status" yaml:"status"`
	Line      int          `json:"line" yaml:"line"`
	Directive string       `json:"directive" yaml:"directive"`
	// Detail explains non-ok statuses.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
	// Files is the number of snapshot files the rule matched.
	Files int `json:"files" yaml:"files"`
}

// Report is the output of the Check command.
type Report struct {
	Root         string   `json:"root" yaml:"root"`
	Manifest     string   `json:"manifest" yaml:"manifest"`
	Items        []Item   `json:"rules" yaml:"rules"`
	ConfigIssues []string `json:"config_issues,omitempty" yaml:"config_issues,omitempty"`
	Matched      int      `json:"matched" yaml:"matched"`
	TotalFiles   int      `json:"total_files" yaml:"total_files"`
	Problems     int      `json:"problems" yaml:"problems"`
}

// OK reports whether the manifest passed every lint.
func (r *Report) OK() bool { return r.Problems == 0 }

// Check lints the manifest for the project rooted at opts.Root.
//
// A rule is "dead" when it, or any one of its pattern arguments, matches
// no file in the tree. A subtree rule naming a directory that does not
// exist is "missing". Either counts as a problem; parse and pattern
// errors remain fatal and are returned as errors.
func Check(opts Options) (*Report, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Check").Str("root", opts.Root).Msg("Executing command")

	res, err := resolve.Resolve(resolve.Options{
		Root:         opts.Root,
		ManifestPath: opts.ManifestPath,
		Config:       opts.Config,
		FS:           opts.FS,
	})
	if err != nil {
		return nil, err
	}

	report := &Report{
		Root:       res.Root,
		Manifest:   res.Manifest,
		Matched:    res.Matched,
		TotalFiles: res.TotalFiles,
	}

	missingByLine := make(map[int]string)
	for _, w := range res.Warnings {
		if w.Code == resolver.WarnMissingDir {
			missingByLine[w.Line] = w.Message
		}
	}

	for _, stat := range res.Stats {
		item := Item{
			Line:      stat.Rule.Line,
			Directive: stat.Rule.String(),
			Files:     stat.Matched,
		}

		switch {
		case missingByLine[stat.Rule.Line] != "":
			item.Status = style.StatusMissing
			item.Detail = missingByLine[stat.Rule.Line]
			report.Problems++
		case stat.Matched == 0:
			item.Status = style.StatusDead
			item.Detail = "matches no files"
			report.Problems++
		case deadPattern(stat) != "":
			item.Status = style.StatusDead
			item.Detail = fmt.Sprintf("pattern %q matches no files", deadPattern(stat))
			report.Problems++
		default:
			item.Status = style.StatusOK
		}

		report.Items = append(report.Items, item)
	}

	report.ConfigIssues = checkRootConfig(opts, res.Root)
	report.Problems += len(report.ConfigIssues)

	log.Info().Str("command", "Check").
		Int("rules", len(report.Items)).
		Int("problems", report.Problems).
		Msg("Command finished")
	return report, nil
}

// deadPattern returns the first pattern argument that matched nothing,
// or "" when every argument earned its keep.
func deadPattern(stat resolver.RuleStat) string {
	for i, n := range stat.PatternMatched {
		if n == 0 {
			return stat.Rule.Patterns[i]
		}
	}
	return ""
}

// checkRootConfig strictly validates the root config file, if one exists.
// The regular loader ignores unknown keys, so a misspelled section would
// otherwise fail silently.
func checkRootConfig(opts Options, root string) []string {
	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	var issues []string
	for _, name := range []string{paths.RootConfigFile, paths.AltRootConfigFile} {
		path := filepath.Join(root, name)
		if _, err := fsys.Stat(path); err != nil {
			continue
		}
		data, err := fsys.ReadFile(path)
		if err != nil {
			continue
		}

		if err := config.ValidateStrict(data); err != nil {
			issues = append(issues, fmt.Sprintf("%s: %v", name, err))
		}
		break
	}
	return issues
}

// RenderText writes the rule-by-rule report with status badges.
func (r *Report) RenderText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s\n", style.TitleStyle.Render("Manifest check: "+r.Manifest)); err != nil {
		return err
	}

	for _, item := range r.Items {
		summary := item.Detail
		if item.Status == style.StatusOK {
			summary = countFiles(item.Files)
		}
		line := style.RenderRuleLine(item.Status, item.Line, item.Directive, summary)
		if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
			return err
		}
	}

	for _, issue := range r.ConfigIssues {
		if _, err := fmt.Fprintf(w, "  %s config: %s\n",
			style.RenderBadge(style.StatusError), issue); err != nil {
			return err
		}
	}

	verdict := style.SuccessStyle.Render("ok")
	if !r.OK() {
		verdict = style.ErrorStyle.Render(countProblems(r.Problems))
	}
	_, err := fmt.Fprintf(w, "\n%d rules checked, %s; %d of %d files selected\n",
		len(r.Items), verdict, r.Matched, r.TotalFiles)
	return err
}

func countFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}

func countProblems(n int) string {
	if n == 1 {
		return "1 problem"
	}
	return fmt.Sprintf("%d problems", n)
}

// JUnitSuite projects the report as a JUnit test suite: one case per
// rule plus one per config issue.
func (r *Report) JUnitSuite() output.TestSuite {
	suite := output.TestSuite{Name: r.Manifest}

	for _, item := range r.Items {
		c := output.TestCase{
			Name:      fmt.Sprintf("line %d: %s", item.Line, item.Directive),
			ClassName: "manifest",
		}
		if item.Status != style.StatusOK {
			c.Failure = item.Detail
		}
		suite.Cases = append(suite.Cases, c)
	}

	for _, issue := range r.ConfigIssues {
		suite.Cases = append(suite.Cases, output.TestCase{
			Name:      "root config",
			ClassName: "config",
			Failure:   issue,
		})
	}

	return suite
}
