// pkg/commands/archive/archive_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Memory filesystem
// PURPOSE: Test archive creation from a resolved manifest

package archive_test

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packlist/packlist/pkg/commands/archive"
	"github.com/packlist/packlist/pkg/config"
	"github.com/packlist/packlist/pkg/filesystem"
	"github.com/packlist/packlist/pkg/types"
)

const testRoot = "/work/project"

func setupProject(t *testing.T) types.FS {
	t.Helper()
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll(filepath.Join(testRoot, "docs"), 0755))
	for _, rel := range []string{"README.md", "docs/guide.md", "notes.tmp"} {
		full := filepath.Join(testRoot, filepath.FromSlash(rel))
		require.NoError(t, fs.WriteFile(full, []byte(rel), 0644))
	}
	manifest := `include README.md
graft docs
global-exclude *.tmp
`
	require.NoError(t, fs.WriteFile(filepath.Join(testRoot, "MANIFEST.in"), []byte(manifest), 0644))
	return fs
}

func tarNames(t *testing.T, data []byte) []string {
	t.Helper()
	gz, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { require.NoError(t, gz.Close()) }()

	var names []string
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, hdr.Name)
	}
	return names
}

func TestArchive_Defaults(t *testing.T) {
	fs := setupProject(t)

	result, err := archive.Archive(archive.Options{
		Root:   testRoot,
		Config: config.Default(),
		FS:     fs,
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(testRoot, "project.tar.gz"), result.Path)
	assert.Equal(t, "tar.gz", result.Format)
	assert.Equal(t, "project", result.Prefix)
	assert.Equal(t, 2, result.FileCount)
	assert.False(t, result.DryRun)
	assert.Positive(t, result.Size)

	data, err := fs.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), result.Size)
	assert.Equal(t, []string{"project/README.md", "project/docs/guide.md"}, tarNames(t, data))
}

func TestArchive_Zip(t *testing.T) {
	fs := setupProject(t)

	result, err := archive.Archive(archive.Options{
		Root:   testRoot,
		Config: config.Default(),
		FS:     fs,
		Format: "zip",
		Output: "dist.zip",
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(testRoot, "dist.zip"), result.Path)
	assert.Equal(t, "zip", result.Format)

	data, err := fs.ReadFile(result.Path)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"project/README.md", "project/docs/guide.md"}, names)
}

func TestArchive_PrefixOverride(t *testing.T) {
	fs := setupProject(t)

	result, err := archive.Archive(archive.Options{
		Root:   testRoot,
		Config: config.Default(),
		FS:     fs,
		Prefix: "mypkg-1.0",
	})
	require.NoError(t, err)

	assert.Equal(t, "mypkg-1.0", result.Prefix)
	assert.Equal(t, filepath.Join(testRoot, "mypkg-1.0.tar.gz"), result.Path)

	data, err := fs.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, []string{"mypkg-1.0/README.md", "mypkg-1.0/docs/guide.md"}, tarNames(t, data))
}

func TestArchive_ConfigPrefix(t *testing.T) {
	fs := setupProject(t)
	cfg := config.Default()
	cfg.Archive.Prefix = "fromconfig"

	result, err := archive.Archive(archive.Options{
		Root:   testRoot,
		Config: cfg,
		FS:     fs,
	})
	require.NoError(t, err)

	assert.Equal(t, "fromconfig", result.Prefix)
}

func TestArchive_DryRun(t *testing.T) {
	fs := setupProject(t)

	result, err := archive.Archive(archive.Options{
		Root:   testRoot,
		Config: config.Default(),
		FS:     fs,
		DryRun: true,
	})
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Equal(t, 2, result.FileCount)
	assert.Zero(t, result.Size)

	_, err = fs.Stat(result.Path)
	assert.Error(t, err, "dry run must not write the archive")
}

func TestArchive_BadFormat(t *testing.T) {
	fs := setupProject(t)

	_, err := archive.Archive(archive.Options{
		Root:   testRoot,
		Config: config.Default(),
		FS:     fs,
		Format: "rar",
	})
	require.Error(t, err)
}

func TestArchive_RenderText(t *testing.T) {
	fs := setupProject(t)

	t.Run("written", func(t *testing.T) {
		result, err := archive.Archive(archive.Options{
			Root:   testRoot,
			Config: config.Default(),
			FS:     fs,
		})
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, result.RenderText(&buf))
		assert.Contains(t, buf.String(), "Wrote")
		assert.Contains(t, buf.String(), "2 files")
	})

	t.Run("dry_run", func(t *testing.T) {
		result, err := archive.Archive(archive.Options{
			Root:   testRoot,
			Config: config.Default(),
			FS:     fs,
			DryRun: true,
		})
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, result.RenderText(&buf))
		assert.Contains(t, buf.String(), "Would write")
	})
}
