// Package initialize implements the init command: write a starter
// manifest, and optionally a configuration file, into a project.
package initialize

import (
	_ "embed"
	"fmt"
	"io"
	"path/filepath"

	"github.com/packlist/packlist/pkg/config"
	"github.com/packlist/packlist/pkg/errors"
	"github.com/packlist/packlist/pkg/filesystem"
	"github.com/packlist/packlist/pkg/logging"
	"github.com/packlist/packlist/pkg/paths"
	"github.com/packlist/packlist/pkg/style"
	"github.com/packlist/packlist/pkg/types"
)

//go:embed templates/manifest.in
var starterManifest []byte

// Options defines the options for the Init command.
type Options struct {
	// Root is the project root directory.
	Root string
	// FS overrides the filesystem.
	FS types.FS
	// Config overrides the loaded configuration.
	Config *config.Config
	// WithConfig also writes a configuration file with the documented
	// defaults.
	WithConfig bool
	// Force overwrites files that already exist.
	Force bool
}

// Result is the output of the Init command.
type Result struct {
	// ManifestPath is the manifest that was written.
	ManifestPath string `json:"manifest_path" yaml:"manifest_path"`
	// ConfigPath is the configuration file, when one was written.
	ConfigPath string `json:"config_path,omitempty" yaml:"config_path,omitempty"`
	// FilesCreated lists the created files relative to the root.
	FilesCreated []string `json:"files_created" yaml:"files_created"`
}

// Init writes a starter manifest into the root. The manifest name
// honors an existing project configuration, so a root that already
// sets manifest.file gets the name it asked for.
func Init(opts Options) (*Result, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Init").
		Str("root", opts.Root).
		Bool("withConfig", opts.WithConfig).
		Msg("Executing command")

	if opts.Root == "" {
		return nil, errors.New(errors.ErrInvalidInput, "no project root given")
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", opts.Root)
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	cfg := opts.Config
	if cfg == nil {
		cfg, err = config.Load(root)
		if err != nil {
			return nil, err
		}
	}

	result := &Result{}

	manifestPath := filepath.Join(root, cfg.Manifest.File)
	if err := writeNew(fsys, manifestPath, starterManifest, opts.Force); err != nil {
		return nil, err
	}
	result.ManifestPath = manifestPath
	result.FilesCreated = append(result.FilesCreated, cfg.Manifest.File)

	if opts.WithConfig {
		configPath := filepath.Join(root, paths.RootConfigFile)
		if err := writeNew(fsys, configPath, []byte(config.DefaultsContent()), opts.Force); err != nil {
			return nil, err
		}
		result.ConfigPath = configPath
		result.FilesCreated = append(result.FilesCreated, paths.RootConfigFile)
	}

	log.Info().Str("command", "Init").
		Strs("files", result.FilesCreated).
		Msg("Command finished")
	return result, nil
}

// writeNew writes a file that must not already exist, unless force is
// set.
func writeNew(fsys types.FS, path string, data []byte, force bool) error {
	if _, err := fsys.Stat(path); err == nil && !force {
		return errors.Newf(errors.ErrFileCreate, "%s already exists (use force to overwrite)", path)
	}
	if err := fsys.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "failed to write %s", path)
	}
	return nil
}

// RenderText lists the created files.
func (r *Result) RenderText(w io.Writer) error {
	for _, f := range r.FilesCreated {
		if _, err := fmt.Fprintf(w, "%s %s\n",
			style.SuccessIndicator, style.PathStyle.Render(f)); err != nil {
			return err
		}
	}
	return nil
}
