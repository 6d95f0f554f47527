package manifest

import "strings"

// Kind identifies a manifest directive.
type Kind string

// The full directive family. Include, Graft and GlobalExclude carry the
// core semantics; the rest complete the language.
const (
	KindInclude          Kind = "include"
	KindExclude          Kind = "exclude"
	KindGlobalInclude    Kind = "global-include"
	KindGlobalExclude    Kind = "global-exclude"
	KindRecursiveInclude Kind = "recursive-include"
	KindRecursiveExclude Kind = "recursive-exclude"
	KindGraft            Kind = "graft"
	KindPrune            Kind = "prune"
)

// Rule is one parsed manifest directive.
type Rule struct {
	// Kind is the directive keyword.
	Kind Kind

	// Dir is the directory argument of recursive and subtree directives.
	Dir string

	// Patterns holds the glob arguments. Subtree directives have none.
	Patterns []string

	// Line is the 1-based line number the directive started on.
	Line int

	// Raw is the directive text as written.
	Raw string
}

// Inclusion reports whether the rule adds files to the working set.
// Every rule is either an inclusion or an exclusion; inclusions are
// applied before any exclusion regardless of manifest order.
func (r Rule) Inclusion() bool {
	switch r.Kind {
	case KindInclude, KindGlobalInclude, KindRecursiveInclude, KindGraft:
		return true
	}
	return false
}

// String renders the rule in manifest syntax.
func (r Rule) String() string {
	parts := []string{string(r.Kind)}
	if r.Dir != "" {
		parts = append(parts, r.Dir)
	}
	parts = append(parts, r.Patterns...)
	return strings.Join(parts, " ")
}

// RuleSet is an ordered collection of parsed rules.
type RuleSet struct {
	// Rules in manifest order.
	Rules []Rule

	// Source names where the rules came from, for diagnostics.
	Source string
}

// Inclusions returns the rules that add files, in manifest order.
func (rs *RuleSet) Inclusions() []Rule {
	var out []Rule
	for _, r := range rs.Rules {
		if r.Inclusion() {
			out = append(out, r)
		}
	}
	return out
}

// Exclusions returns the rules that remove files, in manifest order.
func (rs *RuleSet) Exclusions() []Rule {
	var out []Rule
	for _, r := range rs.Rules {
		if !r.Inclusion() {
			out = append(out, r)
		}
	}
	return out
}
