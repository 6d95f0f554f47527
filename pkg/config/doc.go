// Package config loads packlist's layered configuration.
//
// Three sources are merged, lowest to highest precedence:
//
//  1. Embedded defaults (embedded/defaults.toml)
//  2. The root config file (.packlist.toml or packlist.toml at the
//     project root)
//  3. PACKLIST_* environment variables
//
// The merged result is decoded into Config, which commands consult for
// the manifest filename, pattern matching behavior, output format and
// archive settings.
package config
