// pkg/filesystem/filesystem_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None (memory and temp-dir filesystems)
// PURPOSE: Verify both FS implementations satisfy the same contract

package filesystem_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packlist/packlist/pkg/filesystem"
	"github.com/packlist/packlist/pkg/types"
)

func TestFSImplementations(t *testing.T) {
	impls := []struct {
		name string
		make func(t *testing.T) (fs types.FS, root string)
	}{
		{
			name: "os",
			make: func(t *testing.T) (types.FS, string) {
				return filesystem.NewOS(), t.TempDir()
			},
		},
		{
			name: "memory",
			make: func(t *testing.T) (types.FS, string) {
				return filesystem.NewMemory(), "/work"
			},
		},
	}

	for _, impl := range impls {
		t.Run(impl.name, func(t *testing.T) {
			fs, root := impl.make(t)

			t.Run("write_and_read_file", func(t *testing.T) {
				dir := filepath.Join(root, "sub")
				require.NoError(t, fs.MkdirAll(dir, 0755))

				path := filepath.Join(dir, "data.txt")
				require.NoError(t, fs.WriteFile(path, []byte("hello"), 0644))

				data, err := fs.ReadFile(path)
				require.NoError(t, err)
				assert.Equal(t, "hello", string(data))

				info, err := fs.Stat(path)
				require.NoError(t, err)
				assert.False(t, info.IsDir())
				assert.Equal(t, int64(5), info.Size())
			})

			t.Run("read_dir_lists_entries", func(t *testing.T) {
				dir := filepath.Join(root, "listing")
				require.NoError(t, fs.MkdirAll(filepath.Join(dir, "nested"), 0755))
				require.NoError(t, fs.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0644))
				require.NoError(t, fs.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0644))

				entries, err := fs.ReadDir(dir)
				require.NoError(t, err)
				require.Len(t, entries, 3)

				names := make(map[string]bool)
				for _, e := range entries {
					names[e.Name()] = e.IsDir()
				}
				assert.True(t, names["nested"])
				assert.False(t, names["a.txt"])
				assert.False(t, names["b.txt"])
			})

			t.Run("read_file_on_directory_fails", func(t *testing.T) {
				dir := filepath.Join(root, "adir")
				require.NoError(t, fs.MkdirAll(dir, 0755))

				_, err := fs.ReadFile(dir)
				assert.Error(t, err)
			})

			t.Run("remove_and_remove_all", func(t *testing.T) {
				dir := filepath.Join(root, "gone")
				require.NoError(t, fs.MkdirAll(dir, 0755))
				path := filepath.Join(dir, "f.txt")
				require.NoError(t, fs.WriteFile(path, []byte("x"), 0644))

				require.NoError(t, fs.Remove(path))
				_, err := fs.Stat(path)
				assert.Error(t, err)

				require.NoError(t, fs.RemoveAll(dir))
				_, err = fs.Stat(dir)
				assert.Error(t, err)
			})
		})
	}
}
