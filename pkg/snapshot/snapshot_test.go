// pkg/snapshot/snapshot_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Memory and temp-dir filesystems
// PURPOSE: Test tree enumeration, ordering, and root validation

package snapshot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packlist/packlist/pkg/errors"
	"github.com/packlist/packlist/pkg/filesystem"
	"github.com/packlist/packlist/pkg/snapshot"
	"github.com/packlist/packlist/pkg/types"
)

func writeTree(t *testing.T, fs types.FS, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, fs.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, fs.WriteFile(full, []byte(content), 0644))
	}
}

func TestTake_SortedRelativePaths(t *testing.T) {
	fs := filesystem.NewMemory()
	root := "/project"
	writeTree(t, fs, root, map[string]string{
		"src/zed.py":     "",
		"README.md":      "",
		"docs/guide.md":  "",
		"docs/api/a.rst": "",
		"setup.py":       "",
	})

	files, err := snapshot.Take(fs, root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"README.md",
		"docs/api/a.rst",
		"docs/guide.md",
		"setup.py",
		"src/zed.py",
	}, files)
}

func TestTake_EmptyDirectoriesContributeNothing(t *testing.T) {
	fs := filesystem.NewMemory()
	root := "/project"
	require.NoError(t, fs.MkdirAll(filepath.Join(root, "empty/deeper"), 0755))
	writeTree(t, fs, root, map[string]string{"keep.txt": ""})

	files, err := snapshot.Take(fs, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.txt"}, files)
}

func TestTake_MissingRoot(t *testing.T) {
	fs := filesystem.NewMemory()

	_, err := snapshot.Take(fs, "/nowhere")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidRoot))
}

func TestTake_RootIsFile(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll("/project", 0755))
	require.NoError(t, fs.WriteFile("/project/file.txt", []byte("x"), 0644))

	_, err := snapshot.Take(fs, "/project/file.txt")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidRoot))
}

func TestTake_Deterministic(t *testing.T) {
	fs := filesystem.NewMemory()
	root := "/project"
	writeTree(t, fs, root, map[string]string{
		"b.txt":       "",
		"a.txt":       "",
		"dir/c.txt":   "",
		"dir/sub/d":   "",
		"z/last.file": "",
	})

	first, err := snapshot.Take(fs, root)
	require.NoError(t, err)

	second, err := snapshot.Take(fs, root)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTake_SkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	fs := filesystem.NewOS()

	require.NoError(t, fs.WriteFile(filepath.Join(root, "real.txt"), []byte("x"), 0644))
	require.NoError(t, os.Symlink(
		filepath.Join(root, "real.txt"),
		filepath.Join(root, "link.txt")))

	files, err := snapshot.Take(fs, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"real.txt"}, files)
}
