// pkg/staging/staging_test.go
// TEST TYPE: Unit + Integration Test
// DEPENDENCIES: Temp directories, synthfs pipeline
// PURPOSE: Test staging plan construction, conflict handling, and execution

package staging_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packlist/packlist/pkg/errors"
	"github.com/packlist/packlist/pkg/staging"
)

func seedSource(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"README.md":     "# readme\n",
		"docs/guide.md": "guide\n",
		"src/app/m.go":  "package app\n",
	}
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return root
}

func TestBuildPlan(t *testing.T) {
	root := seedSource(t)
	dest := filepath.Join(t.TempDir(), "stage")

	plan, err := staging.BuildPlan(root, dest, []string{
		"README.md", "docs/guide.md", "src/app/m.go",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, plan.CopyCount())
	// dest, dest/docs, dest/src, dest/src/app
	assert.Equal(t, 4, plan.DirCount())

	// Directory creations come first, parents before children
	var sawCopy bool
	var lastDir string
	for _, op := range plan.Operations {
		switch op.Type {
		case staging.OpCreateDir:
			assert.False(t, sawCopy, "directory op after copy op")
			if lastDir != "" {
				assert.Less(t, lastDir, op.Target)
			}
			lastDir = op.Target
		case staging.OpCopyFile:
			sawCopy = true
		}
	}

	// Copies preserve the input order
	copies := plan.Operations[plan.DirCount():]
	assert.Equal(t, filepath.Join(dest, "README.md"), copies[0].Target)
	assert.Equal(t, filepath.Join(root, "README.md"), copies[0].Source)
	assert.Equal(t, filepath.Join(dest, "docs", "guide.md"), copies[1].Target)
}

func TestBuildPlan_DestEqualsRoot(t *testing.T) {
	root := seedSource(t)

	_, err := staging.BuildPlan(root, root, []string{"README.md"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestExecute_StagesFiles(t *testing.T) {
	root := seedSource(t)
	dest := filepath.Join(t.TempDir(), "stage")

	plan, err := staging.BuildPlan(root, dest, []string{
		"README.md", "docs/guide.md", "src/app/m.go",
	})
	require.NoError(t, err)

	executor := staging.NewExecutor(false)
	require.NoError(t, executor.Execute(context.Background(), plan))

	data, err := os.ReadFile(filepath.Join(dest, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# readme\n", string(data))

	data, err = os.ReadFile(filepath.Join(dest, "src", "app", "m.go"))
	require.NoError(t, err)
	assert.Equal(t, "package app\n", string(data))
}

func TestExecute_DryRunTouchesNothing(t *testing.T) {
	root := seedSource(t)
	dest := filepath.Join(t.TempDir(), "stage")

	plan, err := staging.BuildPlan(root, dest, []string{"README.md"})
	require.NoError(t, err)

	executor := staging.NewExecutor(true)
	require.NoError(t, executor.Execute(context.Background(), plan))

	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err), "dry run must not create the destination")
}

func TestExecute_ConflictWithoutForce(t *testing.T) {
	root := seedSource(t)
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "README.md"), []byte("old"), 0644))

	plan, err := staging.BuildPlan(root, dest, []string{"README.md"})
	require.NoError(t, err)

	executor := staging.NewExecutor(false)
	err = executor.Execute(context.Background(), plan)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExportConflict))

	// The pre-existing file is untouched
	data, readErr := os.ReadFile(filepath.Join(dest, "README.md"))
	require.NoError(t, readErr)
	assert.Equal(t, "old", string(data))
}

func TestExecute_ForceOverwrites(t *testing.T) {
	root := seedSource(t)
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "README.md"), []byte("old"), 0644))

	plan, err := staging.BuildPlan(root, dest, []string{"README.md"})
	require.NoError(t, err)

	executor := staging.NewExecutor(false).EnableForce(true)
	require.NoError(t, executor.Execute(context.Background(), plan))

	data, err := os.ReadFile(filepath.Join(dest, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# readme\n", string(data))
}
