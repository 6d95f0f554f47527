// pkg/commands/export/export_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Temp directories, synthfs pipeline
// PURPOSE: Test exporting a resolved manifest into a destination tree

package export_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packlist/packlist/pkg/commands/export"
	"github.com/packlist/packlist/pkg/config"
	"github.com/packlist/packlist/pkg/errors"
)

func seedProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"README.md":     "# readme\n",
		"docs/guide.md": "guide\n",
		"notes.tmp":     "scratch\n",
	}
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}

	manifest := `include README.md
graft docs
global-exclude *.tmp
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "MANIFEST.in"), []byte(manifest), 0644))
	return root
}

func TestExport(t *testing.T) {
	root := seedProject(t)
	dest := filepath.Join(t.TempDir(), "out")

	result, err := export.Export(export.Options{
		Root:   root,
		Config: config.Default(),
		Dest:   dest,
	})
	require.NoError(t, err)

	assert.Equal(t, dest, result.Dest)
	assert.Equal(t, 2, result.FilesCopied)
	assert.False(t, result.DryRun)
	assert.Nil(t, result.Plan)

	data, err := os.ReadFile(filepath.Join(dest, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# readme\n", string(data))

	data, err = os.ReadFile(filepath.Join(dest, "docs", "guide.md"))
	require.NoError(t, err)
	assert.Equal(t, "guide\n", string(data))

	// The excluded file is not staged
	_, err = os.Stat(filepath.Join(dest, "notes.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestExport_DryRun(t *testing.T) {
	root := seedProject(t)
	dest := filepath.Join(t.TempDir(), "out")

	result, err := export.Export(export.Options{
		Root:   root,
		Config: config.Default(),
		Dest:   dest,
		DryRun: true,
	})
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	require.NotNil(t, result.Plan)
	assert.Equal(t, 2, result.FilesCopied)

	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err), "dry run must not create the destination")
}

func TestExport_ConflictWithoutForce(t *testing.T) {
	root := seedProject(t)
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "README.md"), []byte("old"), 0644))

	_, err := export.Export(export.Options{
		Root:   root,
		Config: config.Default(),
		Dest:   dest,
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExportConflict))
}

func TestExport_ForceOverwrites(t *testing.T) {
	root := seedProject(t)
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "README.md"), []byte("old"), 0644))

	result, err := export.Export(export.Options{
		Root:   root,
		Config: config.Default(),
		Dest:   dest,
		Force:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.FilesCopied)

	data, err := os.ReadFile(filepath.Join(dest, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# readme\n", string(data))
}

func TestExport_NoDest(t *testing.T) {
	root := seedProject(t)

	_, err := export.Export(export.Options{
		Root:   root,
		Config: config.Default(),
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestExport_DestEqualsRoot(t *testing.T) {
	root := seedProject(t)

	_, err := export.Export(export.Options{
		Root:   root,
		Config: config.Default(),
		Dest:   root,
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestExport_RenderText(t *testing.T) {
	root := seedProject(t)
	dest := filepath.Join(t.TempDir(), "out")

	result, err := export.Export(export.Options{
		Root:   root,
		Config: config.Default(),
		Dest:   dest,
		DryRun: true,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, result.RenderText(&buf))
	text := buf.String()

	assert.Contains(t, text, "mkdir")
	assert.Contains(t, text, "copy")
	assert.Contains(t, text, "Would export 2 files")
}
