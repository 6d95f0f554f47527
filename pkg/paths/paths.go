// Package paths provides centralized path handling for packlist.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/packlist/packlist/pkg/errors"
)

// Environment variable names
const (
	// EnvProjectRoot is the primary environment variable for the project root
	EnvProjectRoot = "PACKLIST_ROOT"

	// EnvDataDir overrides the XDG data directory for packlist
	EnvDataDir = "PACKLIST_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for packlist
	EnvConfigDir = "PACKLIST_CONFIG_DIR"

	// EnvCacheDir overrides the XDG cache directory for packlist
	EnvCacheDir = "PACKLIST_CACHE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// PacklistDirName is the directory name for packlist-specific files
	PacklistDirName = "packlist"

	// DefaultManifestFile is the conventional manifest file name
	DefaultManifestFile = "MANIFEST.in"

	// RootConfigFile is the name of the per-project configuration file
	RootConfigFile = ".packlist.toml"

	// AltRootConfigFile is the non-hidden variant of the project configuration file
	AltRootConfigFile = "packlist.toml"

	// LogFileName is the name of the log file
	LogFileName = "packlist.log"
)

// Paths provides centralized path management for packlist
type Paths interface {
	ProjectRoot() string
	UsedFallback() bool
	ManifestPath(name string) string
	RootConfigPath() string
	AltRootConfigPath() string
	DataDir() string
	ConfigDir() string
	CacheDir() string
	StateDir() string
	LogFilePath() string
	NormalizePath(path string) (string, error)
	IsInRoot(path string) (bool, error)
}

// paths provides centralized path management for packlist
type paths struct {
	// projectRoot is the directory resolution operates on
	projectRoot string

	// xdgData is the XDG data directory
	xdgData string

	// xdgConfig is the XDG config directory
	xdgConfig string

	// xdgCache is the XDG cache directory
	xdgCache string

	// xdgState is the XDG state directory
	xdgState string

	// usedFallback indicates if we fell back to cwd (for warning display)
	usedFallback bool
}

// New creates a new Paths instance with the given project root.
// If projectRoot is empty, it will be determined from environment variables
// or defaults.
func New(projectRoot string) (Paths, error) {
	p := &paths{}

	// Set up project root
	if projectRoot == "" {
		root, usedFallback, err := findProjectRoot()
		if err != nil {
			return nil, err
		}
		p.projectRoot = root
		p.usedFallback = usedFallback
	} else {
		p.projectRoot = expandHome(projectRoot)
		p.usedFallback = false
	}

	// Ensure project root is absolute
	absRoot, err := filepath.Abs(p.projectRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for project root")
	}
	p.projectRoot = absRoot

	// Set up XDG directories
	if err := p.setupXDGDirs(); err != nil {
		return nil, err
	}

	return p, nil
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *paths) setupXDGDirs() error {
	// Data directory
	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		p.xdgData = expandHome(dataDir)
	} else {
		p.xdgData = filepath.Join(xdg.DataHome, PacklistDirName)
	}

	// Config directory
	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, PacklistDirName)
	}

	// Cache directory
	if cacheDir := os.Getenv(EnvCacheDir); cacheDir != "" {
		p.xdgCache = expandHome(cacheDir)
	} else {
		p.xdgCache = filepath.Join(xdg.CacheHome, PacklistDirName)
	}

	// State directory - XDG doesn't provide StateHome, so we check manually
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		p.xdgState = filepath.Join(stateDir, PacklistDirName)
	} else {
		homeDir, _ := os.UserHomeDir()
		p.xdgState = filepath.Join(homeDir, ".local", "state", PacklistDirName)
	}

	return nil
}

// findProjectRoot determines the project root using the following priority:
// 1. PACKLIST_ROOT environment variable (if set)
// 2. Git repository root (found via 'git rev-parse --show-toplevel')
// 3. Current working directory (fallback)
//
// The function returns:
// - string: The resolved project root path
// - bool: Whether the current working directory was used as fallback
// - error: Any error that occurred during resolution
func findProjectRoot() (string, bool, error) {
	// Check PACKLIST_ROOT first (highest priority)
	if root := os.Getenv(EnvProjectRoot); root != "" {
		return expandHome(root), false, nil
	}

	// Try to find git repository root
	gitRoot, err := findGitRoot()
	if err == nil && gitRoot != "" {
		if os.Getenv("PACKLIST_DEBUG") != "" {
			fmt.Fprintf(os.Stderr, "Debug: findProjectRoot using git root: %s\n", gitRoot)
		}
		return gitRoot, false, nil
	}

	// Fallback to current working directory with warning
	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrFileAccess, "failed to get current directory")
	}

	return cwd, true, nil
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")

	output, err := cmd.Output()
	if err != nil {
		// Git command failed - not in a git repo or git not installed
		return "", err
	}

	// Trim whitespace and return the path
	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}

	return gitRoot, nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to HOME env var
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				// Can't expand, return as-is
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		// Handle both ~/ and ~
		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// ProjectRoot returns the directory resolution operates on
func (p *paths) ProjectRoot() string {
	return p.projectRoot
}

// UsedFallback returns true if the current working directory was used as fallback
func (p *paths) UsedFallback() bool {
	return p.usedFallback
}

// ManifestPath returns the path to the manifest file inside the project root.
// An empty name selects the conventional MANIFEST.in; absolute names are
// returned as given.
func (p *paths) ManifestPath(name string) string {
	if name == "" {
		name = DefaultManifestFile
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.projectRoot, name)
}

// RootConfigPath returns the path to the project's configuration file
func (p *paths) RootConfigPath() string {
	return filepath.Join(p.projectRoot, RootConfigFile)
}

// AltRootConfigPath returns the path to the non-hidden project configuration file
func (p *paths) AltRootConfigPath() string {
	return filepath.Join(p.projectRoot, AltRootConfigFile)
}

// DataDir returns the XDG data directory for packlist
func (p *paths) DataDir() string {
	return p.xdgData
}

// ConfigDir returns the XDG config directory for packlist
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// CacheDir returns the XDG cache directory for packlist
func (p *paths) CacheDir() string {
	return p.xdgCache
}

// StateDir returns the XDG state directory for packlist
func (p *paths) StateDir() string {
	return p.xdgState
}

// LogFilePath returns the path to the log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// NormalizePath normalizes a path by expanding home, making it absolute,
// and cleaning it
func (p *paths) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	// Expand home directory
	expanded := expandHome(path)

	// Make absolute
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path")
	}

	// Clean the path
	return filepath.Clean(abs), nil
}

// IsInRoot checks if a path is within the project root
func (p *paths) IsInRoot(path string) (bool, error) {
	normalized, err := p.NormalizePath(path)
	if err != nil {
		return false, err
	}

	rel, err := filepath.Rel(p.projectRoot, normalized)
	if err != nil {
		return false, nil
	}

	// If the relative path starts with .., it's outside the root
	return !strings.HasPrefix(rel, ".."), nil
}

// ExpandHome is a utility function that expands ~ in paths
func ExpandHome(path string) string {
	return expandHome(path)
}
