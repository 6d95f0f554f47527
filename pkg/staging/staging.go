// Package staging stages a resolved file list into a destination directory.
//
// Staging is planned first, then executed through a synthfs pipeline so the
// whole copy either validates up front or reports which operation failed.
package staging

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/core"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/synthfs/pkg/synthfs/operations"
	"github.com/rs/zerolog"

	"github.com/packlist/packlist/pkg/errors"
	"github.com/packlist/packlist/pkg/logging"
)

// OpType identifies a staging operation
type OpType string

const (
	OpCreateDir OpType = "create-dir"
	OpCopyFile  OpType = "copy-file"
)

// Operation is one planned staging step
type Operation struct {
	Type   OpType `json:"type" yaml:"type"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	Target string `json:"target" yaml:"target"`
}

// Plan is the full set of operations that stages a file list into Dest
type Plan struct {
	Root       string      `json:"root" yaml:"root"`
	Dest       string      `json:"dest" yaml:"dest"`
	Operations []Operation `json:"operations" yaml:"operations"`
}

// CopyCount returns the number of file copies in the plan
func (p *Plan) CopyCount() int {
	n := 0
	for _, op := range p.Operations {
		if op.Type == OpCopyFile {
			n++
		}
	}
	return n
}

// DirCount returns the number of directory creations in the plan
func (p *Plan) DirCount() int {
	return len(p.Operations) - p.CopyCount()
}

// BuildPlan computes the staging operations for files, given as
// slash-separated paths relative to root. Directory creations come first,
// parents before children, then copies in file order.
func BuildPlan(root, dest string, files []string) (*Plan, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to resolve root %s", root)
	}
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to resolve destination %s", dest)
	}
	if absDest == absRoot {
		return nil, errors.New(errors.ErrInvalidInput,
			"destination must differ from the project root")
	}

	dirs := map[string]struct{}{absDest: {}}
	copies := make([]Operation, 0, len(files))

	for _, rel := range files {
		native := filepath.FromSlash(rel)
		target := filepath.Join(absDest, native)

		// Record every ancestor directory up to the destination root
		for d := filepath.Dir(target); len(d) > len(absDest); d = filepath.Dir(d) {
			dirs[d] = struct{}{}
		}

		copies = append(copies, Operation{
			Type:   OpCopyFile,
			Source: filepath.Join(absRoot, native),
			Target: target,
		})
	}

	// Lexicographic order puts parents before children
	dirList := make([]string, 0, len(dirs))
	for d := range dirs {
		dirList = append(dirList, d)
	}
	sort.Strings(dirList)

	ops := make([]Operation, 0, len(dirList)+len(copies))
	for _, d := range dirList {
		ops = append(ops, Operation{Type: OpCreateDir, Target: d})
	}
	ops = append(ops, copies...)

	return &Plan{Root: absRoot, Dest: absDest, Operations: ops}, nil
}

// Executor runs staging plans through synthfs
type Executor struct {
	logger     zerolog.Logger
	dryRun     bool
	force      bool
	filesystem synthfs.FileSystem
}

// NewExecutor creates a new staging executor
func NewExecutor(dryRun bool) *Executor {
	return &Executor{
		logger:     logging.GetLogger("staging"),
		dryRun:     dryRun,
		filesystem: filesystem.NewOSFileSystem("/"),
	}
}

// EnableForce allows overwriting files that already exist at the destination
func (e *Executor) EnableForce(force bool) *Executor {
	e.force = force
	return e
}

// Execute runs the plan. In dry-run mode it only logs what would happen.
func (e *Executor) Execute(ctx context.Context, plan *Plan) error {
	if e.dryRun {
		e.logger.Info().Msg("Dry run mode - operations would be executed:")
		for _, op := range plan.Operations {
			e.logOperation(op)
		}
		return nil
	}

	if err := e.resolveConflicts(plan); err != nil {
		return err
	}

	synthOps := make([]synthfs.Operation, 0, len(plan.Operations))
	for _, op := range plan.Operations {
		synthOp, err := e.convertOperation(op)
		if err != nil {
			return err
		}
		if synthOp != nil {
			synthOps = append(synthOps, synthOp)
		}
	}

	if len(synthOps) == 0 {
		e.logger.Info().Msg("No operations to execute")
		return nil
	}

	pipeline := synthfs.NewMemPipeline()
	for _, op := range synthOps {
		if err := pipeline.Add(op); err != nil {
			return errors.Wrap(err, errors.ErrExportExecute,
				"failed to add operation to pipeline")
		}
	}

	executor := synthfs.NewExecutor()
	e.logger.Info().Int("operationCount", len(synthOps)).Msg("Executing staging operations")

	result := executor.Run(ctx, pipeline, e.filesystem)
	if result.GetError() != nil {
		e.logger.Error().Err(result.GetError()).Msg("Pipeline execution failed")
		return errors.Wrap(result.GetError(), errors.ErrExportExecute,
			"failed to execute staging operations")
	}

	e.logger.Info().Msg("All staging operations executed successfully")
	return nil
}

// resolveConflicts rejects existing copy targets, or removes them in force
// mode so synthfs validation passes.
func (e *Executor) resolveConflicts(plan *Plan) error {
	for _, op := range plan.Operations {
		if op.Type != OpCopyFile {
			continue
		}
		if _, err := os.Lstat(op.Target); err != nil {
			continue
		}
		if !e.force {
			return errors.Newf(errors.ErrExportConflict,
				"target already exists: %s (use force to overwrite)", op.Target)
		}
		e.logger.Debug().
			Str("target", op.Target).
			Msg("Removing existing file to allow overwrite in force mode")
		if err := os.Remove(op.Target); err != nil {
			e.logger.Warn().
				Err(err).
				Str("target", op.Target).
				Msg("Failed to remove existing file in force mode")
		}
	}
	return nil
}

// convertOperation converts a planned operation to a synthfs operation.
// Directory creations for directories that already exist return nil.
func (e *Executor) convertOperation(op Operation) (synthfs.Operation, error) {
	switch op.Type {
	case OpCreateDir:
		if info, err := os.Stat(op.Target); err == nil && info.IsDir() {
			return nil, nil
		}

		relPath, err := filepath.Rel("/", op.Target)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput,
				"failed to convert path: %s", op.Target)
		}

		opID := core.OperationID(fmt.Sprintf("create-dir-%s", op.Target))
		createOp := operations.NewCreateDirectoryOperation(opID, relPath)
		createOp.SetItem(&directoryItem{path: relPath, mode: 0755})
		return synthfs.NewOperationsPackageAdapter(createOp), nil

	case OpCopyFile:
		relSource, err := filepath.Rel("/", op.Source)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput,
				"failed to convert source path: %s", op.Source)
		}
		relTarget, err := filepath.Rel("/", op.Target)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput,
				"failed to convert target path: %s", op.Target)
		}

		opID := core.OperationID(fmt.Sprintf("copy-%s", op.Target))
		copyOp := operations.NewCopyOperation(opID, relTarget)
		copyOp.SetPaths(relSource, relTarget)
		return synthfs.NewOperationsPackageAdapter(copyOp), nil

	default:
		return nil, errors.Newf(errors.ErrInvalidInput,
			"unsupported operation type: %s", op.Type)
	}
}

// logOperation logs details about an operation in dry-run mode
func (e *Executor) logOperation(op Operation) {
	switch op.Type {
	case OpCreateDir:
		e.logger.Info().
			Str("target", op.Target).
			Msg("Would create directory")
	case OpCopyFile:
		e.logger.Info().
			Str("source", op.Source).
			Str("target", op.Target).
			Msg("Would copy file")
	default:
		e.logger.Info().Str("type", string(op.Type)).Msg("Would execute operation")
	}
}

// directoryItem implements the item interface for directory operations
type directoryItem struct {
	path string
	mode fs.FileMode
}

func (d *directoryItem) Path() string       { return d.path }
func (d *directoryItem) Type() string       { return "directory" }
func (d *directoryItem) Mode() fs.FileMode  { return d.mode }
func (d *directoryItem) IsDir() bool        { return true }
func (d *directoryItem) ModTime() time.Time { return time.Now() }
func (d *directoryItem) Size() int64        { return 0 }
