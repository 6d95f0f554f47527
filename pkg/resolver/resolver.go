// Package resolver computes the file manifest for a source tree. It
// applies a parsed rule set to a tree snapshot in two passes: every
// inclusion rule first builds the working set, then every exclusion
// rule filters it. An excluded path stays out no matter how many rules
// included it; that guarantee is structural, not a property of rule
// order.
package resolver

import (
	"path/filepath"
	"sort"

	"github.com/packlist/packlist/pkg/errors"
	"github.com/packlist/packlist/pkg/glob"
	"github.com/packlist/packlist/pkg/logging"
	"github.com/packlist/packlist/pkg/manifest"
	"github.com/packlist/packlist/pkg/snapshot"
	"github.com/packlist/packlist/pkg/types"
)

// WarnMissingDir marks a subtree directive naming a directory that does
// not exist.
const WarnMissingDir = "MISSING_DIR"

// Options configure one resolution.
type Options struct {
	// Match governs glob semantics for every pattern in the rule set.
	Match glob.Options
}

// Warning is a non-fatal finding recorded during resolution.
type Warning struct {
	// Code is a stable identifier for the warning class.
	Code string `json:"code" yaml:"code"`

	// Message is the human-readable description.
	Message string `json:"message" yaml:"message"`

	// Rule is the directive the warning is about, in manifest syntax.
	Rule string `json:"rule" yaml:"rule"`

	// Line is the directive's line number in the manifest.
	Line int `json:"line" yaml:"line"`
}

// RuleStat reports how many snapshot files one rule matched.
type RuleStat struct {
	// Rule is the directive in manifest syntax.
	Rule manifest.Rule

	// Matched counts snapshot files the rule matched, regardless of
	// whether another rule had already included or excluded them.
	Matched int

	// PatternMatched counts matches per pattern argument, aligned with
	// Rule.Patterns. Subtree directives have none.
	PatternMatched []int
}

// Result is the outcome of resolving a rule set against a tree.
type Result struct {
	// Files is the manifest: deduplicated root-relative slash paths in
	// lexicographic order.
	Files []string

	// Warnings in the order they were recorded.
	Warnings []Warning

	// Stats holds per-rule match counts in manifest order.
	Stats []RuleStat

	// TotalFiles is the number of regular files in the snapshot.
	TotalFiles int
}

// Resolve takes a fresh snapshot of root and applies the rule set to
// it. The tree is never modified; resolving twice against an unchanged
// tree yields identical results. A missing or invalid root is fatal,
// a subtree directive naming a missing directory only records a
// warning.
func Resolve(fsys types.FS, root string, rs *manifest.RuleSet, opts Options) (*Result, error) {
	logger := logging.GetLogger("resolver")

	files, err := snapshot.Take(fsys, root)
	if err != nil {
		return nil, err
	}

	compiled, err := compileRules(rs, opts.Match)
	if err != nil {
		return nil, err
	}

	result := &Result{TotalFiles: len(files)}
	checkDirectories(fsys, root, compiled, result)

	included := make(map[string]struct{})

	// Pass 1: inclusions build the working set.
	for _, cr := range compiled {
		if !cr.rule.Inclusion() {
			continue
		}
		stat := cr.apply(files, func(f string) {
			included[f] = struct{}{}
		})
		result.Stats = append(result.Stats, stat)
	}

	// Pass 2: exclusions filter it. Order within the pass is
	// irrelevant: removal is unconditional.
	for _, cr := range compiled {
		if cr.rule.Inclusion() {
			continue
		}
		stat := cr.apply(files, func(f string) {
			delete(included, f)
		})
		result.Stats = append(result.Stats, stat)
	}

	result.Files = make([]string, 0, len(included))
	for f := range included {
		result.Files = append(result.Files, f)
	}
	sort.Strings(result.Files)

	logger.Info().
		Str("root", root).
		Int("total", result.TotalFiles).
		Int("selected", len(result.Files)).
		Int("warnings", len(result.Warnings)).
		Msg("Resolution complete")

	return result, nil
}

// checkDirectories records a warning for every subtree directive whose
// literal directory is absent. Wildcard directory patterns cannot be
// checked this way and never warn.
func checkDirectories(fsys types.FS, root string, compiled []compiledRule, result *Result) {
	for _, cr := range compiled {
		if cr.dir == nil {
			continue
		}
		lit, ok := cr.dir.Literal()
		if !ok {
			continue
		}

		info, err := fsys.Stat(filepath.Join(root, filepath.FromSlash(lit)))
		if err == nil && info.IsDir() {
			continue
		}

		msg := "directory does not exist"
		if err == nil {
			msg = "path exists but is not a directory"
		}
		result.Warnings = append(result.Warnings, Warning{
			Code:    WarnMissingDir,
			Message: msg,
			Rule:    cr.rule.String(),
			Line:    cr.rule.Line,
		})
	}
}

// compiledRule pairs a parsed rule with its compiled patterns.
type compiledRule struct {
	rule     manifest.Rule
	dir      *glob.DirPattern
	patterns []*glob.Pattern
}

// compileRules compiles every pattern in the rule set up front, so a
// bad pattern fails the whole resolution before any matching happens.
func compileRules(rs *manifest.RuleSet, opts glob.Options) ([]compiledRule, error) {
	compiled := make([]compiledRule, 0, len(rs.Rules))
	for _, rule := range rs.Rules {
		cr := compiledRule{rule: rule}

		if rule.Dir != "" {
			dir, err := glob.CompileDir(rule.Dir, opts)
			if err != nil {
				return nil, wrapCompileError(err, rule)
			}
			cr.dir = dir
		}

		for _, pat := range rule.Patterns {
			p, err := glob.Compile(pat, opts)
			if err != nil {
				return nil, wrapCompileError(err, rule)
			}
			cr.patterns = append(cr.patterns, p)
		}

		compiled = append(compiled, cr)
	}
	return compiled, nil
}

func wrapCompileError(err error, rule manifest.Rule) error {
	return errors.Wrapf(err, errors.ErrPatternInvalid,
		"line %d: %s", rule.Line, rule.Raw).
		WithDetail("line", rule.Line)
}

// apply runs the rule over the snapshot, invoking act for each matched
// file, and returns the rule's match statistics.
func (cr compiledRule) apply(files []string, act func(string)) RuleStat {
	stat := RuleStat{Rule: cr.rule}
	if len(cr.patterns) > 0 {
		stat.PatternMatched = make([]int, len(cr.patterns))
	}

	for _, f := range files {
		any := false

		if len(cr.patterns) == 0 {
			any = cr.matches(f)
		} else {
			// Every pattern is checked so zero-match lint can blame
			// the exact argument.
			for i := range cr.patterns {
				if cr.matchPattern(i, f) {
					stat.PatternMatched[i]++
					any = true
				}
			}
		}

		if any {
			stat.Matched++
			act(f)
		}
	}

	return stat
}

// matches applies the rule's scope to one normalized relative path.
func (cr compiledRule) matches(path string) bool {
	if len(cr.patterns) == 0 {
		// Subtree directives match on directory containment alone.
		switch cr.rule.Kind {
		case manifest.KindGraft, manifest.KindPrune:
			return cr.dir.Contains(path)
		}
		return false
	}

	for i := range cr.patterns {
		if cr.matchPattern(i, path) {
			return true
		}
	}
	return false
}

// matchPattern applies one pattern argument in the rule's scope.
func (cr compiledRule) matchPattern(i int, path string) bool {
	p := cr.patterns[i]

	switch cr.rule.Kind {
	case manifest.KindInclude, manifest.KindExclude:
		return p.MatchPath(path)

	case manifest.KindGlobalInclude, manifest.KindGlobalExclude:
		return p.MatchFloating(path)

	case manifest.KindRecursiveInclude, manifest.KindRecursiveExclude:
		rest, ok := cr.dir.Rest(path)
		if !ok {
			return false
		}
		return p.MatchTail(rest)
	}

	return false
}
