// pkg/resolver/resolver_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Memory filesystem
// PURPOSE: Test two-pass resolution semantics, warnings, and determinism

package resolver_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packlist/packlist/pkg/errors"
	"github.com/packlist/packlist/pkg/filesystem"
	"github.com/packlist/packlist/pkg/glob"
	"github.com/packlist/packlist/pkg/manifest"
	"github.com/packlist/packlist/pkg/resolver"
	"github.com/packlist/packlist/pkg/types"
)

const testRoot = "/project"

func setupTree(t *testing.T, files ...string) types.FS {
	t.Helper()
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll(testRoot, 0755))
	for _, rel := range files {
		full := filepath.Join(testRoot, filepath.FromSlash(rel))
		require.NoError(t, fs.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, fs.WriteFile(full, []byte(rel), 0644))
	}
	return fs
}

func parseRules(t *testing.T, text string) *manifest.RuleSet {
	t.Helper()
	rs, err := manifest.Parse(strings.NewReader(text), "MANIFEST.in")
	require.NoError(t, err)
	return rs
}

func resolve(t *testing.T, fs types.FS, text string, opts resolver.Options) *resolver.Result {
	t.Helper()
	result, err := resolver.Resolve(fs, testRoot, parseRules(t, text), opts)
	require.NoError(t, err)
	return result
}

func TestResolve_CoreScenario(t *testing.T) {
	// The canonical three-directive interplay.
	fs := setupTree(t, "README.md", "docs/guide.md", "docs/figure.png")

	result := resolve(t, fs, `include README.*
graft docs
global-exclude *.png
`, resolver.Options{})

	assert.Equal(t, []string{"README.md", "docs/guide.md"}, result.Files)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 3, result.TotalFiles)
}

func TestResolve_ExclusionAlwaysWins(t *testing.T) {
	fs := setupTree(t, "README.md", "docs/guide.md", "docs/figure.png")

	t.Run("exclusion_before_inclusions_in_manifest", func(t *testing.T) {
		// Rule order must not matter across phases: the exclusion is
		// written first, yet still removes what later rules include.
		result := resolve(t, fs, `global-exclude *.png
include README.*
graft docs
`, resolver.Options{})

		assert.Equal(t, []string{"README.md", "docs/guide.md"}, result.Files)
	})

	t.Run("many_inclusions_cannot_rescue_a_path", func(t *testing.T) {
		result := resolve(t, fs, `include docs/figure.png
graft docs
global-include *.png
global-exclude *.png
`, resolver.Options{})

		assert.Equal(t, []string{"docs/guide.md"}, result.Files)
	})
}

func TestResolve_NoDuplicates(t *testing.T) {
	fs := setupTree(t, "README.md", "docs/guide.md")

	result := resolve(t, fs, `include README.md
include README.*
global-include README.*
graft docs
`, resolver.Options{})

	assert.Equal(t, []string{"README.md", "docs/guide.md"}, result.Files)

	seen := make(map[string]int)
	for _, f := range result.Files {
		seen[f]++
	}
	for f, n := range seen {
		assert.Equal(t, 1, n, "path %s appears %d times", f, n)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	fs := setupTree(t, "a.txt", "b.txt", "docs/c.txt", "docs/sub/d.txt")
	text := "include *.txt\ngraft docs\n"

	first := resolve(t, fs, text, resolver.Options{})
	second := resolve(t, fs, text, resolver.Options{})

	assert.Equal(t, first.Files, second.Files)
	assert.Equal(t, first.Stats, second.Stats)
}

func TestResolve_GraftMonotonicity(t *testing.T) {
	fs := setupTree(t, "docs/guide.md")
	text := "graft docs\nglobal-exclude *.png\n"

	before := resolve(t, fs, text, resolver.Options{})
	assert.Equal(t, []string{"docs/guide.md"}, before.Files)

	// Adding one non-excluded file under the grafted directory adds
	// exactly that file to the result.
	require.NoError(t, fs.MkdirAll(filepath.Join(testRoot, "docs/api"), 0755))
	require.NoError(t, fs.WriteFile(
		filepath.Join(testRoot, "docs/api/new.md"), []byte("x"), 0644))

	after := resolve(t, fs, text, resolver.Options{})
	assert.Equal(t, []string{"docs/api/new.md", "docs/guide.md"}, after.Files)
}

func TestResolve_AnchoredInclude(t *testing.T) {
	fs := setupTree(t, "README.md", "notes.txt", "docs/notes.txt", "docs/README.md")

	t.Run("bare_pattern_stays_at_root", func(t *testing.T) {
		result := resolve(t, fs, "include *.txt\n", resolver.Options{})
		assert.Equal(t, []string{"notes.txt"}, result.Files)
	})

	t.Run("pathed_pattern_selects_exactly", func(t *testing.T) {
		result := resolve(t, fs, "include docs/notes.txt\n", resolver.Options{})
		assert.Equal(t, []string{"docs/notes.txt"}, result.Files)
	})

	t.Run("zero_matches_is_not_an_error", func(t *testing.T) {
		result := resolve(t, fs, "include missing.file\n", resolver.Options{})
		assert.Empty(t, result.Files)
		assert.Empty(t, result.Warnings)
	})
}

func TestResolve_AnchoredExclude(t *testing.T) {
	fs := setupTree(t, "keep.txt", "drop.txt", "docs/drop.txt")

	result := resolve(t, fs, `include *.txt
graft docs
exclude drop.txt
`, resolver.Options{})

	// Anchored exclude only removes the root-level file.
	assert.Equal(t, []string{"docs/drop.txt", "keep.txt"}, result.Files)
}

func TestResolve_RecursiveDirectives(t *testing.T) {
	fs := setupTree(t,
		"src/mod.py", "src/mod.pyc", "src/deep/x.py", "src/deep/x.txt",
		"other/y.py")

	t.Run("recursive_include", func(t *testing.T) {
		result := resolve(t, fs, "recursive-include src *.py\n", resolver.Options{})
		assert.Equal(t, []string{"src/deep/x.py", "src/mod.py"}, result.Files)
	})

	t.Run("recursive_exclude", func(t *testing.T) {
		result := resolve(t, fs, `graft src
recursive-exclude src *.pyc
`, resolver.Options{})
		assert.Equal(t, []string{"src/deep/x.py", "src/deep/x.txt", "src/mod.py"}, result.Files)
	})
}

func TestResolve_GraftAndPrune(t *testing.T) {
	fs := setupTree(t,
		"docs/guide.md", "docs/build/out.html", "docs/build/deep/x.js", "README.md")

	result := resolve(t, fs, `include README.md
graft docs
prune docs/build
`, resolver.Options{})

	assert.Equal(t, []string{"README.md", "docs/guide.md"}, result.Files)
}

func TestResolve_GlobalInclude(t *testing.T) {
	fs := setupTree(t, "a/x.typed", "b/c/y.typed", "b/z.txt")

	result := resolve(t, fs, "global-include *.typed\n", resolver.Options{})
	assert.Equal(t, []string{"a/x.typed", "b/c/y.typed"}, result.Files)
}

func TestResolve_MatchModes(t *testing.T) {
	fs := setupTree(t, "src/__pycache__/mod.bin", "src/mod.py", "pkg.egg-info/PKG-INFO")

	t.Run("basename_only_keeps_directory_contents", func(t *testing.T) {
		result := resolve(t, fs, `global-include *
global-exclude __pycache__ *.egg-info
`, resolver.Options{Match: glob.Options{Mode: glob.ModeBasenameOnly}})

		// The bare names match nothing here: no file is literally
		// named __pycache__ or *.egg-info.
		assert.Equal(t, []string{
			"pkg.egg-info/PKG-INFO",
			"src/__pycache__/mod.bin",
			"src/mod.py",
		}, result.Files)
	})

	t.Run("path_component_removes_subtrees", func(t *testing.T) {
		result := resolve(t, fs, `global-include *
global-exclude __pycache__ *.egg-info
`, resolver.Options{Match: glob.Options{Mode: glob.ModePathComponent}})

		assert.Equal(t, []string{"src/mod.py"}, result.Files)
	})
}

func TestResolve_MissingDirectoryWarns(t *testing.T) {
	fs := setupTree(t, "README.md")

	result := resolve(t, fs, `include README.md
graft nonexistent_dir
`, resolver.Options{})

	// Resolution continues and the rest of the manifest still applies.
	assert.Equal(t, []string{"README.md"}, result.Files)

	require.Len(t, result.Warnings, 1)
	w := result.Warnings[0]
	assert.Equal(t, resolver.WarnMissingDir, w.Code)
	assert.Equal(t, "graft nonexistent_dir", w.Rule)
	assert.Equal(t, 2, w.Line)
}

func TestResolve_EmptyGraftedDirectory(t *testing.T) {
	fs := setupTree(t, "README.md")
	require.NoError(t, fs.MkdirAll(filepath.Join(testRoot, "docs"), 0755))

	result := resolve(t, fs, `include README.md
graft docs
`, resolver.Options{})

	// An existing but empty directory contributes nothing and is not
	// a warning.
	assert.Equal(t, []string{"README.md"}, result.Files)
	assert.Empty(t, result.Warnings)
}

func TestResolve_GraftTargetIsFile(t *testing.T) {
	fs := setupTree(t, "docs")

	result := resolve(t, fs, "graft docs\n", resolver.Options{})

	assert.Empty(t, result.Files)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, "not a directory")
}

func TestResolve_InvalidRoot(t *testing.T) {
	fs := filesystem.NewMemory()

	_, err := resolver.Resolve(fs, "/missing", parseRules(t, "include *\n"), resolver.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidRoot))
}

func TestResolve_InvalidPattern(t *testing.T) {
	fs := setupTree(t, "README.md")

	_, err := resolver.Resolve(fs, testRoot, parseRules(t, "include docs//x\n"), resolver.Options{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPatternInvalid))

	details := errors.GetErrorDetails(err)
	require.NotNil(t, details)
	assert.Equal(t, 1, details["line"])
}

func TestResolve_EmptyRuleSet(t *testing.T) {
	fs := setupTree(t, "README.md", "src/mod.py")

	result := resolve(t, fs, "", resolver.Options{})

	// No implicit inclusions: an empty manifest selects nothing.
	assert.Empty(t, result.Files)
	assert.Equal(t, 2, result.TotalFiles)
}

func TestResolve_Stats(t *testing.T) {
	fs := setupTree(t, "README.md", "docs/a.md", "docs/b.md", "docs/c.png")

	result := resolve(t, fs, `include README.* missing.txt
graft docs
global-exclude *.png
`, resolver.Options{})

	require.Len(t, result.Stats, 3)

	assert.Equal(t, manifest.KindInclude, result.Stats[0].Rule.Kind)
	assert.Equal(t, 1, result.Stats[0].Matched)
	assert.Equal(t, []int{1, 0}, result.Stats[0].PatternMatched,
		"per-argument counts expose the dead missing.txt pattern")

	assert.Equal(t, manifest.KindGraft, result.Stats[1].Rule.Kind)
	assert.Equal(t, 3, result.Stats[1].Matched)
	assert.Nil(t, result.Stats[1].PatternMatched)

	assert.Equal(t, manifest.KindGlobalExclude, result.Stats[2].Rule.Kind)
	assert.Equal(t, 1, result.Stats[2].Matched)
}

func TestResolve_CaseInsensitive(t *testing.T) {
	fs := setupTree(t, "README.md", "ReadMe.txt")

	result := resolve(t, fs, "include readme.*\n", resolver.Options{
		Match: glob.Options{CaseInsensitive: true},
	})

	assert.Equal(t, []string{"README.md", "ReadMe.txt"}, result.Files)
}
