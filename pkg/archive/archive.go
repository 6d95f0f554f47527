// Package archive writes resolved file lists as tar.gz or zip archives.
//
// Entries are written in the order given, which for a resolved manifest is
// already sorted, so archives of the same tree are reproducible apart from
// file metadata.
package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/packlist/packlist/pkg/errors"
	"github.com/packlist/packlist/pkg/logging"
	"github.com/packlist/packlist/pkg/types"
)

// Format identifies an archive serialization
type Format string

const (
	FormatTarGz Format = "tar.gz"
	FormatZip   Format = "zip"
)

// ParseFormat parses a string into a Format value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "tar.gz", "tgz", "":
		return FormatTarGz, nil
	case "zip":
		return FormatZip, nil
	default:
		return FormatTarGz, errors.Newf(errors.ErrInvalidInput, "unknown archive format: %s", s)
	}
}

// Extension returns the filename extension for the format, dot included
func (f Format) Extension() string {
	if f == FormatZip {
		return ".zip"
	}
	return ".tar.gz"
}

// Options controls how an archive is written
type Options struct {
	Format Format
	// Prefix is the directory prepended to every entry name. Empty means
	// entries are written at the archive root.
	Prefix string
}

// DefaultName derives the archive filename for a project root: the prefix
// if one is set, otherwise the root directory's basename, plus the
// format's extension.
func DefaultName(root string, opts Options) string {
	base := opts.Prefix
	if base == "" {
		base = filepath.Base(root)
	}
	return base + opts.Format.Extension()
}

// Write writes files, given as slash-separated paths relative to root, to
// w in the configured format.
func Write(w io.Writer, fsys types.FS, root string, files []string, opts Options) error {
	logger := logging.GetLogger("archive")

	var err error
	switch opts.Format {
	case FormatTarGz:
		err = writeTarGz(w, fsys, root, files, opts.Prefix)
	case FormatZip:
		err = writeZip(w, fsys, root, files, opts.Prefix)
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown archive format: %s", opts.Format)
	}
	if err != nil {
		return err
	}

	logger.Debug().
		Str("format", string(opts.Format)).
		Str("prefix", opts.Prefix).
		Int("files", len(files)).
		Msg("archive written")
	return nil
}

// entryName joins the prefix with a relative path, keeping forward slashes
func entryName(prefix, rel string) string {
	if prefix == "" {
		return rel
	}
	return path.Join(prefix, rel)
}

func writeTarGz(w io.Writer, fsys types.FS, root string, files []string, prefix string) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	for _, rel := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))

		info, err := fsys.Stat(full)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", rel)
		}
		data, err := fsys.ReadFile(full)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", rel)
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return errors.Wrapf(err, errors.ErrArchiveWrite, "failed to build tar header for %s", rel)
		}
		hdr.Name = entryName(prefix, rel)
		hdr.Size = int64(len(data))

		if err := tw.WriteHeader(hdr); err != nil {
			return errors.Wrapf(err, errors.ErrArchiveWrite, "failed to write tar header for %s", rel)
		}
		if _, err := tw.Write(data); err != nil {
			return errors.Wrapf(err, errors.ErrArchiveWrite, "failed to write %s", rel)
		}
	}

	if err := tw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrArchiveWrite, "failed to finalize tar stream")
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(err, errors.ErrArchiveWrite, "failed to finalize gzip stream")
	}
	return nil
}

func writeZip(w io.Writer, fsys types.FS, root string, files []string, prefix string) error {
	zw := zip.NewWriter(w)

	for _, rel := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))

		info, err := fsys.Stat(full)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", rel)
		}
		data, err := fsys.ReadFile(full)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", rel)
		}

		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return errors.Wrapf(err, errors.ErrArchiveWrite, "failed to build zip header for %s", rel)
		}
		hdr.Name = entryName(prefix, rel)
		hdr.Method = zip.Deflate

		entry, err := zw.CreateHeader(hdr)
		if err != nil {
			return errors.Wrapf(err, errors.ErrArchiveWrite, "failed to create zip entry for %s", rel)
		}
		if _, err := entry.Write(data); err != nil {
			return errors.Wrapf(err, errors.ErrArchiveWrite, "failed to write %s", rel)
		}
	}

	if err := zw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrArchiveWrite, "failed to finalize zip archive")
	}
	return nil
}
