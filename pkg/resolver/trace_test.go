// pkg/resolver/trace_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Memory filesystem
// PURPOSE: Test per-path tracing and its agreement with full resolution

package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packlist/packlist/pkg/resolver"
)

func TestTracePath_Verdicts(t *testing.T) {
	rules := parseRules(t, `include README.*
graft docs
global-exclude *.png
`)

	tests := []struct {
		name     string
		path     string
		included bool
	}{
		{"included_by_include", "README.md", true},
		{"included_by_graft", "docs/guide.md", true},
		{"excluded_wins", "docs/figure.png", false},
		{"never_included", "src/main.py", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trace, err := resolver.TracePath(tt.path, rules, resolver.Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.included, trace.Included)
			assert.Len(t, trace.Decisions, 3, "one decision per rule")
		})
	}
}

func TestTracePath_DecisionDetail(t *testing.T) {
	rules := parseRules(t, `include README.*
graft docs
global-exclude *.png
`)

	trace, err := resolver.TracePath("docs/figure.png", rules, resolver.Options{})
	require.NoError(t, err)

	require.Len(t, trace.Decisions, 3)

	assert.Equal(t, "include README.*", trace.Decisions[0].Rule)
	assert.True(t, trace.Decisions[0].Inclusion)
	assert.False(t, trace.Decisions[0].Matched)

	assert.Equal(t, "graft docs", trace.Decisions[1].Rule)
	assert.True(t, trace.Decisions[1].Inclusion)
	assert.True(t, trace.Decisions[1].Matched)

	assert.Equal(t, "global-exclude *.png", trace.Decisions[2].Rule)
	assert.False(t, trace.Decisions[2].Inclusion)
	assert.True(t, trace.Decisions[2].Matched)

	assert.False(t, trace.Included)
}

func TestTracePath_NormalizesInput(t *testing.T) {
	rules := parseRules(t, "include README.md\n")

	trace, err := resolver.TracePath("./README.md", rules, resolver.Options{})
	require.NoError(t, err)

	assert.Equal(t, "README.md", trace.Path)
	assert.True(t, trace.Included)
}

func TestTracePath_AgreesWithResolve(t *testing.T) {
	fs := setupTree(t,
		"README.md", "README.bak",
		"docs/guide.md", "docs/figure.png", "docs/build/out.html",
		"src/mod.py", "src/mod.pyc", "src/__pycache__/cached.bin")

	text := `include README.*
graft docs
graft src
prune docs/build
exclude README.bak
global-exclude *.pyc
`
	rules := parseRules(t, text)

	result := resolve(t, fs, text, resolver.Options{})
	selected := make(map[string]bool)
	for _, f := range result.Files {
		selected[f] = true
	}

	all := []string{
		"README.md", "README.bak",
		"docs/guide.md", "docs/figure.png", "docs/build/out.html",
		"src/mod.py", "src/mod.pyc", "src/__pycache__/cached.bin",
	}
	for _, path := range all {
		trace, err := resolver.TracePath(path, rules, resolver.Options{})
		require.NoError(t, err)
		assert.Equal(t, selected[path], trace.Included,
			"trace and resolve disagree on %s", path)
	}
}
