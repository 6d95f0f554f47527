// Package export implements the export command: resolve the manifest
// and copy the selected files into a destination tree.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/packlist/packlist/pkg/commands/resolve"
	"github.com/packlist/packlist/pkg/config"
	"github.com/packlist/packlist/pkg/errors"
	"github.com/packlist/packlist/pkg/logging"
	"github.com/packlist/packlist/pkg/resolver"
	"github.com/packlist/packlist/pkg/staging"
	"github.com/packlist/packlist/pkg/style"
	"github.com/packlist/packlist/pkg/types"
)

// Options defines the options for the Export command.
type Options struct {
	// Root is the project root directory.
	Root string
	// ManifestPath overrides the manifest location.
	ManifestPath string
	// Config overrides the loaded configuration.
	Config *config.Config
	// FS overrides the filesystem used for resolution. Staging always
	// runs against the real filesystem.
	FS types.FS
	// Dest is the destination directory. Required.
	Dest string
	// DryRun reports the plan without touching the filesystem.
	DryRun bool
	// Force overwrites files that already exist at the destination.
	Force bool
}

// Result is the output of the Export command.
type Result struct {
	// Dest is the destination directory.
	Dest string `json:"dest" yaml:"dest"`
	// FilesCopied is the number of files staged.
	FilesCopied int `json:"files_copied" yaml:"files_copied"`
	// DirsCreated is the number of directories in the plan.
	DirsCreated int `json:"dirs_created" yaml:"dirs_created"`
	// DryRun reports whether anything was actually written.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// Plan is included on dry runs so callers can inspect it.
	Plan *staging.Plan `json:"plan,omitempty" yaml:"plan,omitempty"`

	// Warnings carried over from resolution.
	Warnings []resolver.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Export resolves the manifest and stages the selected files under the
// destination, preserving relative paths.
func Export(opts Options) (*Result, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Export").
		Str("root", opts.Root).
		Str("dest", opts.Dest).
		Bool("dryRun", opts.DryRun).
		Msg("Executing command")

	if opts.Dest == "" {
		return nil, errors.New(errors.ErrInvalidInput, "no destination directory given")
	}

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

	plan, err := staging.BuildPlan(root, opts.Dest, res.Files)
	if err != nil {
		return nil, err
	}

	executor := staging.NewExecutor(opts.DryRun).EnableForce(opts.Force)
	if err := executor.Execute(context.Background(), plan); err != nil {
		return nil, err
	}

	result := &Result{
		Dest:        plan.Dest,
		FilesCopied: plan.CopyCount(),
		DirsCreated: plan.DirCount(),
		DryRun:      opts.DryRun,
		Warnings:    res.Warnings,
	}
	if opts.DryRun {
		result.Plan = plan
	}

	log.Info().Str("command", "Export").
		Str("dest", plan.Dest).
		Int("files", result.FilesCopied).
		Msg("Command finished")
	return result, nil
}

// RenderText writes the plan on a dry run, or a one-line summary after
// a real export.
func (r *Result) RenderText(w io.Writer) error {
	if r.DryRun && r.Plan != nil {
		for _, op := range r.Plan.Operations {
			var line string
			switch op.Type {
			case staging.OpCreateDir:
				line = fmt.Sprintf("mkdir %s", style.PathStyle.Render(op.Target))
			case staging.OpCopyFile:
				line = fmt.Sprintf("copy  %s", style.PathStyle.Render(op.Target))
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "Would export %s into %s\n",
			countFiles(r.FilesCopied), style.PathStyle.Render(r.Dest))
		return err
	}

	_, err := fmt.Fprintf(w, "Exported %s into %s\n",
		countFiles(r.FilesCopied), style.PathStyle.Render(r.Dest))
	return err
}

func countFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}
