// Package archive implements the archive command: resolve the manifest
// and write the selected files into a distribution artifact.
package archive

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	packarchive "github.com/packlist/packlist/pkg/archive"
	"github.com/packlist/packlist/pkg/commands/resolve"
	"github.com/packlist/packlist/pkg/config"
	"github.com/packlist/packlist/pkg/logging"
	"github.com/packlist/packlist/pkg/resolver"
	"github.com/packlist/packlist/pkg/style"
	"github.com/packlist/packlist/pkg/types"
)

// Options defines the options for the Archive command.
type Options struct {
	// Root is the project root directory.
	Root string
	// ManifestPath overrides the manifest location.
	ManifestPath string
	// Config overrides the loaded configuration.
	Config *config.Config
	// FS overrides the filesystem.
	FS types.FS
	// Output is the archive path. A relative path is resolved against
	// the root. Empty derives the name from the prefix and format.
	Output string
	// Format overrides archive.format from the configuration.
	Format string
	// Prefix overrides archive.prefix from the configuration.
	Prefix string
	// DryRun reports what would be written without writing anything.
	DryRun bool
}

// Result is the output of the Archive command.
type Result struct {
	// Path is the archive location.
	Path string `json:"path" yaml:"path"`
	// Format is the archive format that was used.
	Format string `json:"format" yaml:"format"`
	// Prefix is the top-level directory inside the archive.
	Prefix string `json:"prefix" yaml:"prefix"`
	// FileCount is the number of entries.
	FileCount int `json:"file_count" yaml:"file_count"`
	// Size is the archive size in bytes. Zero on a dry run.
	Size int64 `json:"size" yaml:"size"`
	// DryRun reports whether the archive was actually written.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// Warnings carried over from resolution.
	Warnings []resolver.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Archive resolves the manifest and packs the selected files. Every
// entry sits under a single top-level directory so the artifact
// unpacks cleanly.
func Archive(opts Options) (*Result, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Archive").
		Str("root", opts.Root).
		Bool("dryRun", opts.DryRun).
		Msg("Executing command")

	root, cfg, fsys, rules, err := resolve.Load(resolve.Options{
		Root:         opts.Root,
		ManifestPath: opts.ManifestPath,
		Config:       opts.Config,
		FS:           opts.FS,
	})
	if err != nil {
		return nil, err
	}
	matchOpts, err := cfg.MatchOptions()
	if err != nil {
		return nil, err
	}

	res, err := resolver.Resolve(fsys, root, rules, resolver.Options{Match: matchOpts})
	if err != nil {
		return nil, err
	}

	formatName := opts.Format
	if formatName == "" {
		formatName = cfg.Archive.Format
	}
	format, err := packarchive.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = cfg.Archive.Prefix
	}
	if prefix == "" {
		prefix = filepath.Base(root)
	}

	archOpts := packarchive.Options{Format: format, Prefix: prefix}
	outPath := opts.Output
	if outPath == "" {
		outPath = packarchive.DefaultName(root, archOpts)
	}
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(root, outPath)
	}

	result := &Result{
		Path:      outPath,
		Format:    string(format),
		Prefix:    prefix,
		FileCount: len(res.Files),
		DryRun:    opts.DryRun,
		Warnings:  res.Warnings,
	}

	if opts.DryRun {
		log.Info().Str("path", outPath).
			Int("files", len(res.Files)).
			Msg("Would write archive")
		return result, nil
	}

	var buf bytes.Buffer
	if err := packarchive.Write(&buf, fsys, root, res.Files, archOpts); err != nil {
		return nil, err
	}
	if err := fsys.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
		return nil, err
	}
	result.Size = int64(buf.Len())

	log.Info().Str("command", "Archive").
		Str("path", outPath).
		Int("files", result.FileCount).
		Int64("size", result.Size).
		Msg("Command finished")
	return result, nil
}

// RenderText writes a one-line summary of the archive.
func (r *Result) RenderText(w io.Writer) error {
	name := style.PathStyle.Render(r.Path)
	if r.DryRun {
		_, err := fmt.Fprintf(w, "Would write %s (%s, %s)\n",
			name, r.Format, countFiles(r.FileCount))
		return err
	}
	_, err := fmt.Fprintf(w, "Wrote %s (%s, %s, %d bytes)\n",
		name, r.Format, countFiles(r.FileCount), r.Size)
	return err
}

func countFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}
