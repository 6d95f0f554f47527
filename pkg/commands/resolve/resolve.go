// Package resolve implements the resolve command: compute the file
// manifest for a project tree.
package resolve

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/packlist/packlist/pkg/config"
	"github.com/packlist/packlist/pkg/errors"
	"github.com/packlist/packlist/pkg/filesystem"
	"github.com/packlist/packlist/pkg/logging"
	"github.com/packlist/packlist/pkg/manifest"
	"github.com/packlist/packlist/pkg/resolver"
	"github.com/packlist/packlist/pkg/types"
)

// Options defines the options for the Resolve command.
type Options struct {
	// Root is the project root directory.
	Root string
	// ManifestPath overrides the manifest location. Empty means the
	// configured filename under Root.
	ManifestPath string
	// Config overrides the loaded configuration. Nil means load it from
	// Root and the environment.
	Config *config.Config
	// FS overrides the filesystem. Nil means the operating system.
	FS types.FS
}

// Result is the output of the Resolve command.
type Result struct {
	Root       string             `json:"root" yaml:"root"`
	Manifest   string             `json:"manifest" yaml:"manifest"`
	Files      []string           `json:"files" yaml:"files"`
	Matched    int                `json:"matched" yaml:"matched"`
	TotalFiles int                `json:"total_files" yaml:"total_files"`
	Warnings   []resolver.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Stats and Rules feed downstream commands; they are not part of the
	// serialized output.
	Stats []resolver.RuleStat `json:"-" yaml:"-"`
	Rules *manifest.RuleSet   `json:"-" yaml:"-"`
}

// RenderText writes the manifest one path per line so resolve output
// pipes cleanly into other tools. Warnings are not written here; the
// command prints them to stderr.
func (r *Result) RenderText(w io.Writer) error {
	for _, f := range r.Files {
		if _, err := fmt.Fprintln(w, f); err != nil {
			return err
		}
	}
	return nil
}

// Load assembles the configuration, filesystem and parsed manifest the
// resolve-family commands share. It returns the effective values with
// opts overrides applied.
func Load(opts Options) (string, *config.Config, types.FS, *manifest.RuleSet, error) {
	if opts.Root == "" {
		return "", nil, nil, nil, errors.New(errors.ErrInvalidInput, "project root cannot be empty")
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return "", nil, nil, nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"failed to resolve project root %s", opts.Root)
	}

	cfg := opts.Config
	if cfg == nil {
		cfg, err = config.Load(root)
		if err != nil {
			return "", nil, nil, nil, err
		}
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	manifestPath := opts.ManifestPath
	if manifestPath == "" {
		manifestPath = filepath.Join(root, cfg.Manifest.File)
	}

	rs, err := manifest.ParseFile(fsys, manifestPath)
	if err != nil {
		return "", nil, nil, nil, err
	}

	return root, cfg, fsys, rs, nil
}

// Resolve computes the manifest for the project rooted at opts.Root.
func Resolve(opts Options) (*Result, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Resolve").Str("root", opts.Root).Msg("Executing command")

	root, cfg, fsys, rs, err := Load(opts)
	if err != nil {
		return nil, err
	}

	matchOpts, err := cfg.MatchOptions()
	if err != nil {
		return nil, err
	}

	res, err := resolver.Resolve(fsys, root, rs, resolver.Options{Match: matchOpts})
	if err != nil {
		return nil, err
	}

	result := &Result{
		Root:       root,
		Manifest:   rs.Source,
		Files:      res.Files,
		Matched:    len(res.Files),
		TotalFiles: res.TotalFiles,
		Warnings:   res.Warnings,
		Stats:      res.Stats,
		Rules:      rs,
	}

	log.Info().Str("command", "Resolve").
		Int("files", result.Matched).
		Int("totalFiles", result.TotalFiles).
		Int("warnings", len(result.Warnings)).
		Msg("Command finished")
	return result, nil
}
