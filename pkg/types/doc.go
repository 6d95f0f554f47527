// Package types defines the core interfaces used throughout packlist.
// This includes the FS filesystem abstraction that resolution and
// packaging operate through, and the Pather interface for well-known
// directories.
package types
