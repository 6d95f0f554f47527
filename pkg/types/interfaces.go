package types

import (
	"io/fs"
)

// FS is the filesystem interface required for packlist operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	ReadDir(name string) ([]fs.DirEntry, error)
	MkdirAll(path string, perm fs.FileMode) error

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error

	// Optional operations - implementations should check for support
	// For testing, Lstat can fall back to Stat
	Lstat(name string) (fs.FileInfo, error)
}

// Pather provides paths for packlist operations
type Pather interface {
	// DataDir returns the XDG data directory for packlist
	DataDir() string

	// ConfigDir returns the XDG config directory for packlist
	ConfigDir() string

	// CacheDir returns the XDG cache directory for packlist
	CacheDir() string

	// StateDir returns the XDG state directory for packlist
	StateDir() string
}
