package resolver

import (
	"github.com/packlist/packlist/pkg/glob"
	"github.com/packlist/packlist/pkg/manifest"
)

// Decision records one rule's effect on one path.
type Decision struct {
	// Rule is the directive in manifest syntax.
	Rule string `json:"rule" yaml:"rule"`

	// Line is the directive's line number.
	Line int `json:"line" yaml:"line"`

	// Inclusion reports whether the rule adds or removes files.
	Inclusion bool `json:"inclusion" yaml:"inclusion"`

	// Matched reports whether the rule matched the path.
	Matched bool `json:"matched" yaml:"matched"`
}

// Trace explains how a rule set treats a single path: which inclusion
// rules would add it, which exclusion rules would remove it, and the
// final verdict. The verdict follows the two-pass model, so a single
// matching exclusion outweighs any number of matching inclusions.
type Trace struct {
	// Path is the normalized relative path that was traced.
	Path string `json:"path" yaml:"path"`

	// Decisions holds one entry per rule, in manifest order.
	Decisions []Decision `json:"decisions" yaml:"decisions"`

	// Included is the final verdict.
	Included bool `json:"included" yaml:"included"`
}

// TracePath evaluates every rule against one path. It is a pure
// pattern-level operation: the path does not have to exist in any tree.
func TracePath(path string, rs *manifest.RuleSet, opts Options) (*Trace, error) {
	normalized := glob.NormalizePath(path)

	compiled, err := compileRules(rs, opts.Match)
	if err != nil {
		return nil, err
	}

	trace := &Trace{Path: normalized}

	includedBy := 0
	excludedBy := 0
	for _, cr := range compiled {
		matched := cr.matches(normalized)
		trace.Decisions = append(trace.Decisions, Decision{
			Rule:      cr.rule.String(),
			Line:      cr.rule.Line,
			Inclusion: cr.rule.Inclusion(),
			Matched:   matched,
		})

		if !matched {
			continue
		}
		if cr.rule.Inclusion() {
			includedBy++
		} else {
			excludedBy++
		}
	}

	trace.Included = includedBy > 0 && excludedBy == 0
	return trace, nil
}
