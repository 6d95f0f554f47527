// Package snapshot enumerates the files resolution operates on. One
// sequential walk of the root produces a point-in-time list of regular
// files as sorted root-relative slash paths; everything downstream is a
// pure function of that list.
package snapshot

import (
	"path"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/packlist/packlist/pkg/errors"
	"github.com/packlist/packlist/pkg/logging"
	"github.com/packlist/packlist/pkg/types"
)

// Take walks the tree under root and returns the relative slash paths
// of every regular file, lexicographically sorted. Symlinks and other
// irregular entries are skipped. A missing or non-directory root is a
// fatal error.
func Take(fsys types.FS, root string) ([]string, error) {
	logger := logging.GetLogger("snapshot")

	info, err := fsys.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidRoot,
			"root directory %s does not exist", root).
			WithDetail("root", root)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrInvalidRoot,
			"root %s is not a directory", root).
			WithDetail("root", root)
	}

	var files []string
	if err := walk(fsys, root, "", &files, logger); err != nil {
		return nil, err
	}

	sort.Strings(files)

	logger.Debug().
		Str("root", root).
		Int("files", len(files)).
		Msg("Tree snapshot taken")

	return files, nil
}

// walk descends one directory, collecting regular files.
func walk(fsys types.FS, root, rel string, files *[]string, logger zerolog.Logger) error {
	dirPath := filepath.Join(root, filepath.FromSlash(rel))

	entries, err := fsys.ReadDir(dirPath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess,
			"cannot read directory %s", dirPath).
			WithDetail("path", dirPath)
	}

	for _, entry := range entries {
		entryRel := path.Join(rel, entry.Name())

		if entry.IsDir() {
			if err := walk(fsys, root, entryRel, files, logger); err != nil {
				return err
			}
			continue
		}

		// Only regular files enter the snapshot. Symlinks stay out so
		// resolution cannot loop or reach outside the root.
		if !entry.Type().IsRegular() {
			logger.Debug().
				Str("path", entryRel).
				Str("type", entry.Type().String()).
				Msg("Skipping irregular entry")
			continue
		}

		*files = append(*files, entryRel)
	}

	return nil
}
